// Package session runs server-side quiz sessions: it deals questions, times
// answers and turns a finished run into an IQ result.
package session

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/gokatarajesh/iqtest/internal/question"
)

var (
	ErrNotFound          = errors.New("session not found")
	ErrFinished          = errors.New("session already finished")
	ErrQuestionMismatch  = errors.New("answer is not for the current question")
	ErrInvalidOption     = errors.New("option is not one of the choices")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrEmptyPack         = errors.New("no playable questions")
	ErrBusy              = errors.New("session is busy")
	ErrNoResult          = errors.New("no previous result")
)

// GeneratedPack names the seeded arithmetic pack.
const GeneratedPack = "generated"

// Answer results.
const (
	ResultCorrect = "correct"
	ResultWrong   = "wrong"
	ResultTimeout = "timeout"
)

// StartRequest describes a new run.
type StartRequest struct {
	UserID     string `json:"-"`
	Seed       string `json:"seed,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Count      int    `json:"count,omitempty"`
	Practice   bool   `json:"practice,omitempty"`
	Pack       string `json:"pack,omitempty"`
}

// State is the stored form of a session, answers included.
type State struct {
	ID                string              `json:"id"`
	UserID            string              `json:"userId"`
	Seed              string              `json:"seed,omitempty"`
	Pack              string              `json:"pack"`
	Difficulty        string              `json:"difficulty"`
	Practice          bool                `json:"practice"`
	Questions         []question.Question `json:"questions"`
	Current           int                 `json:"current"`
	Correct           int                 `json:"correct"`
	ElapsedMs         int64               `json:"elapsedMs"`
	Answers           []AnswerRecord      `json:"answers"`
	StartedAt         time.Time           `json:"startedAt"`
	QuestionStartedAt time.Time           `json:"questionStartedAt"`
	Result            *Result             `json:"result,omitempty"`
}

// AnswerRecord is one settled question.
type AnswerRecord struct {
	Index       int              `json:"index"`
	QuestionID  string           `json:"questionId"`
	Option      *question.Option `json:"option,omitempty"`
	Result      string           `json:"result"`
	TimeSpentMs int64            `json:"timeSpentMs"`
}

// Done reports whether every question has been settled.
func (s *State) Done() bool {
	return s.Current >= len(s.Questions)
}

// PublicQuestion is a question as shown to the player.
type PublicQuestion struct {
	Index        int               `json:"index"`
	ID           string            `json:"id"`
	Kind         string            `json:"kind"`
	Difficulty   string            `json:"difficulty"`
	Text         string            `json:"text,omitempty"`
	Seed         *uint32           `json:"svgSeed,omitempty"`
	Options      []question.Option `json:"options"`
	TimeLimitSec float64           `json:"timeLimitSec"`
	Deadline     time.Time         `json:"deadline"`
}

// View is the client's picture of a session.
type View struct {
	ID         string          `json:"id"`
	Pack       string          `json:"pack"`
	Difficulty string          `json:"difficulty"`
	Practice   bool            `json:"practice"`
	Total      int             `json:"total"`
	Correct    int             `json:"correct"`
	Question   *PublicQuestion `json:"question,omitempty"`
}

// AnswerResult is the outcome of settling one question.
type AnswerResult struct {
	Result      string          `json:"result"`
	Answer      question.Option `json:"answer"`
	AnswerIndex int             `json:"answerIndex"`
	TimeSpentMs int64           `json:"timeSpentMs"`
	Correct     int             `json:"correct"`
	Done        bool            `json:"done"`
	Next        *PublicQuestion `json:"next,omitempty"`
}

// Result summarises a finished run.
type Result struct {
	SessionID  string      `json:"sessionId"`
	Difficulty string      `json:"difficulty"`
	Practice   bool        `json:"practice"`
	Correct    int         `json:"correct"`
	Total      int         `json:"total"`
	TimeMs     int64       `json:"timeMs"`
	IQ         float64     `json:"iq"`
	Band       string      `json:"band"`
	Share      ShareParams `json:"share"`
}

// ShareParams are the query parameters of a shared result link.
type ShareParams struct {
	S  string `json:"s"`
	T  string `json:"t"`
	IQ string `json:"iq"`
}

func shareParams(correct, total int, iq float64) ShareParams {
	return ShareParams{
		S:  strconv.Itoa(correct),
		T:  strconv.Itoa(total),
		IQ: strconv.FormatFloat(iq, 'f', 1, 64),
	}
}

// Query encodes the parameters for a share URL.
func (p ShareParams) Query() string {
	v := url.Values{}
	v.Set("s", p.S)
	v.Set("t", p.T)
	v.Set("iq", p.IQ)
	return v.Encode()
}

// LastRun is the most recent non-practice result for a difficulty.
type LastRun struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	TimeMs     *int64  `json:"timeMs"`
	IQ         float64 `json:"iq"`
	AtISO      string  `json:"atISO,omitempty"`
	Difficulty string  `json:"difficulty"`
}
