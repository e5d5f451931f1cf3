package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/iqtest/internal/analytics"
	"github.com/gokatarajesh/iqtest/internal/logging"
	"github.com/gokatarajesh/iqtest/internal/prng"
	"github.com/gokatarajesh/iqtest/internal/question"
	"github.com/gokatarajesh/iqtest/internal/score"
)

const maxCount = 100

// PackSource resolves named packs.
type PackSource interface {
	Pack(ctx context.Context, name string) (question.Pack, error)
}

// StateStore persists session state.
type StateStore interface {
	Lock(ctx context.Context, id string) (func() error, error)
	Save(ctx context.Context, state *State) error
	Load(ctx context.Context, id string) (*State, error)
}

// ResultStore keeps the latest result per user and difficulty.
type ResultStore interface {
	Put(ctx context.Context, userID string, run LastRun) error
	Get(ctx context.Context, userID, difficulty string) (LastRun, error)
}

// Config holds session defaults.
type Config struct {
	DefaultCount  int
	PracticeCount int
}

// Service runs quiz sessions.
type Service struct {
	packs    PackSource
	states   StateStore
	lastRuns ResultStore
	cfg      Config
	now      func() time.Time
	logger   zerolog.Logger
}

func NewService(packs PackSource, states StateStore, lastRuns ResultStore, cfg Config, logger zerolog.Logger) *Service {
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = 30
	}
	if cfg.PracticeCount <= 0 {
		cfg.PracticeCount = 1
	}
	return &Service{
		packs:    packs,
		states:   states,
		lastRuns: lastRuns,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger.With().Str("component", "session").Logger(),
	}
}

// Start deals a new session. The same seed, difficulty, count and pack
// always deal the same questions in the same order.
func (s *Service) Start(ctx context.Context, req StartRequest) (View, error) {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = question.DifficultyMixed
	}
	if !validDifficulty(difficulty) {
		return View{}, ErrInvalidDifficulty
	}

	count := req.Count
	if req.Practice {
		count = s.cfg.PracticeCount
	}
	if count <= 0 {
		count = s.cfg.DefaultCount
	}
	if count > maxCount {
		count = maxCount
	}

	packName := req.Pack
	if packName == "" {
		packName = GeneratedPack
	}

	src := prng.FromString(req.Seed)
	questions, err := s.deal(ctx, packName, difficulty, count, src)
	if err != nil {
		return View{}, err
	}

	now := s.now().UTC()
	state := &State{
		ID:                uuid.NewString(),
		UserID:            req.UserID,
		Seed:              req.Seed,
		Pack:              packName,
		Difficulty:        difficulty,
		Practice:          req.Practice,
		Questions:         questions,
		Answers:           []AnswerRecord{},
		StartedAt:         now,
		QuestionStartedAt: now,
	}
	if err := s.states.Save(ctx, state); err != nil {
		return View{}, fmt.Errorf("save session: %w", err)
	}

	analytics.FromContext(ctx).SessionStarted(difficulty)
	s.logger.Info().
		Str("session_id", state.ID).
		Str("user_id", req.UserID).
		Str("pack", packName).
		Str("difficulty", difficulty).
		Int("questions", len(questions)).
		Bool("practice", req.Practice).
		Msg("session started")

	return viewOf(state), nil
}

func (s *Service) deal(ctx context.Context, packName, difficulty string, count int, src prng.Source) ([]question.Question, error) {
	var questions []question.Question
	if packName == GeneratedPack {
		pack := question.GeneratePack(question.PackOptions{
			Count:      count,
			Mix:        difficulty == question.DifficultyMixed && count > 1,
			Difficulty: difficulty,
		}, src)
		qctx := logging.IntoContext(ctx, s.logger)
		for _, q := range pack.Questions {
			if normalized, ok := question.Normalize(qctx, q.Raw()); ok {
				questions = append(questions, normalized)
			}
		}
	} else {
		pack, err := s.packs.Pack(ctx, packName)
		if err != nil {
			return nil, err
		}
		questions = pack.Questions
		if len(questions) > count {
			questions = questions[:count]
		}
	}

	playable := make([]question.Question, 0, len(questions))
	for _, q := range questions {
		if len(q.Options) == 0 || !q.HasAnswer() {
			continue
		}
		if q.Kind == question.KindMatrix {
			q = shuffleOptions(q, src)
		}
		playable = append(playable, q)
	}
	if len(playable) == 0 {
		return nil, ErrEmptyPack
	}
	return playable, nil
}

// shuffleOptions reorders the choices for display and keeps AnswerIndex
// pointing at the answer.
func shuffleOptions(q question.Question, src prng.Source) question.Question {
	q.Options = prng.Shuffle(src, q.Options)
	for i, opt := range q.Options {
		if opt == q.Answer {
			q.AnswerIndex = i
			break
		}
	}
	return q
}

// Answer settles the current question with the chosen option. Time spent
// is measured on the server; an answer after the limit is a timeout.
func (s *Service) Answer(ctx context.Context, sessionID, userID string, index int, option question.Option) (AnswerResult, error) {
	var res AnswerResult
	err := s.transition(ctx, sessionID, userID, func(state *State) error {
		if index != state.Current {
			return ErrQuestionMismatch
		}
		q := state.Questions[state.Current]
		if !containsOption(q.Options, option) {
			return ErrInvalidOption
		}

		limit := q.TimeLimit()
		elapsed := s.now().Sub(state.QuestionStartedAt)
		result := ResultWrong
		switch {
		case elapsed > limit:
			result = ResultTimeout
		case option == q.Answer:
			result = ResultCorrect
		}
		chosen := option
		res = s.settle(ctx, state, result, clampDuration(elapsed, 0, limit), &chosen)
		return nil
	})
	return res, err
}

// Timeout skips the current question and charges its full limit.
func (s *Service) Timeout(ctx context.Context, sessionID, userID string) (AnswerResult, error) {
	var res AnswerResult
	err := s.transition(ctx, sessionID, userID, func(state *State) error {
		q := state.Questions[state.Current]
		res = s.settle(ctx, state, ResultTimeout, q.TimeLimit(), nil)
		return nil
	})
	return res, err
}

func (s *Service) settle(ctx context.Context, state *State, result string, spent time.Duration, option *question.Option) AnswerResult {
	q := state.Questions[state.Current]
	if result == ResultCorrect {
		state.Correct++
	}
	spentMs := spent.Milliseconds()
	state.ElapsedMs += spentMs
	state.Answers = append(state.Answers, AnswerRecord{
		Index:       state.Current,
		QuestionID:  q.ID,
		Option:      option,
		Result:      result,
		TimeSpentMs: spentMs,
	})
	state.Current++
	state.QuestionStartedAt = s.now().UTC()

	analytics.FromContext(ctx).Answer(result)

	return AnswerResult{
		Result:      result,
		Answer:      q.Answer,
		AnswerIndex: q.AnswerIndex,
		TimeSpentMs: spentMs,
		Correct:     state.Correct,
		Done:        state.Done(),
		Next:        currentQuestion(state),
	}
}

// transition runs fn on a locked, unfinished session owned by userID and
// saves the result.
func (s *Service) transition(ctx context.Context, sessionID, userID string, fn func(*State) error) error {
	unlock, err := s.states.Lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("unlock failed")
		}
	}()

	state, err := s.load(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if state.Result != nil || state.Done() {
		return ErrFinished
	}
	if err := fn(state); err != nil {
		return err
	}
	return s.states.Save(ctx, state)
}

func (s *Service) load(ctx context.Context, sessionID, userID string) (*State, error) {
	state, err := s.states.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.UserID != userID {
		return nil, ErrNotFound
	}
	return state, nil
}

// Get returns the client view of a session.
func (s *Service) Get(ctx context.Context, sessionID, userID string) (View, error) {
	state, err := s.load(ctx, sessionID, userID)
	if err != nil {
		return View{}, err
	}
	return viewOf(state), nil
}

// Finish closes the session and scores it. Unanswered questions count
// against the total. Finishing twice returns the first result.
func (s *Service) Finish(ctx context.Context, sessionID, userID string) (Result, error) {
	unlock, err := s.states.Lock(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := unlock(); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("unlock failed")
		}
	}()

	state, err := s.load(ctx, sessionID, userID)
	if err != nil {
		return Result{}, err
	}
	if state.Result != nil {
		return *state.Result, nil
	}

	total := len(state.Questions)
	iq := score.EstimateIQ(state.Correct, state.Difficulty)
	result := Result{
		SessionID:  state.ID,
		Difficulty: state.Difficulty,
		Practice:   state.Practice,
		Correct:    state.Correct,
		Total:      total,
		TimeMs:     state.ElapsedMs,
		IQ:         iq,
		Band:       score.Band(state.Correct, total),
		Share:      shareParams(state.Correct, total, iq),
	}
	state.Result = &result
	if err := s.states.Save(ctx, state); err != nil {
		return Result{}, fmt.Errorf("save session: %w", err)
	}

	if !state.Practice {
		timeMs := result.TimeMs
		run := LastRun{
			Correct:    result.Correct,
			Total:      result.Total,
			TimeMs:     &timeMs,
			IQ:         result.IQ,
			AtISO:      s.now().UTC().Format(time.RFC3339Nano),
			Difficulty: state.Difficulty,
		}
		if err := s.lastRuns.Put(ctx, userID, run); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("store last run failed")
		}
	}

	analytics.FromContext(ctx).SessionFinished(state.Difficulty)
	s.logger.Info().
		Str("session_id", sessionID).
		Int("correct", result.Correct).
		Int("total", result.Total).
		Float64("iq", result.IQ).
		Msg("session finished")

	return result, nil
}

// LastRun returns the latest non-practice result for difficulty.
func (s *Service) LastRun(ctx context.Context, userID, difficulty string) (LastRun, error) {
	if !validDifficulty(difficulty) {
		return LastRun{}, ErrInvalidDifficulty
	}
	run, err := s.lastRuns.Get(ctx, userID, difficulty)
	if err != nil && !errors.Is(err, ErrNoResult) {
		return LastRun{}, fmt.Errorf("read last run: %w", err)
	}
	return run, err
}

func viewOf(state *State) View {
	return View{
		ID:         state.ID,
		Pack:       state.Pack,
		Difficulty: state.Difficulty,
		Practice:   state.Practice,
		Total:      len(state.Questions),
		Correct:    state.Correct,
		Question:   currentQuestion(state),
	}
}

func currentQuestion(state *State) *PublicQuestion {
	if state.Result != nil || state.Done() {
		return nil
	}
	q := state.Questions[state.Current]
	return &PublicQuestion{
		Index:        state.Current,
		ID:           q.ID,
		Kind:         q.Kind,
		Difficulty:   q.Difficulty,
		Text:         q.Text,
		Seed:         q.Seed,
		Options:      q.Options,
		TimeLimitSec: q.TimeLimit().Seconds(),
		Deadline:     state.QuestionStartedAt.Add(q.TimeLimit()),
	}
}

func containsOption(options []question.Option, target question.Option) bool {
	for _, opt := range options {
		if opt == target {
			return true
		}
	}
	return false
}

func validDifficulty(d string) bool {
	for _, known := range score.Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
