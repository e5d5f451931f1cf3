package question

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gokatarajesh/iqtest/internal/prng"
	"github.com/gokatarajesh/iqtest/internal/sequence"
)

const (
	defaultPackCount  = 30
	distractorCount   = 2
	packVersion       = "v1"
	generatedTitle    = "Generated Arithmetic Pack"
	defaultDifficulty = DifficultyEasy
)

// BuildQuestion turns a visible sequence and its next term into a
// three-way multiple choice question. Distractors sit a random distance
// either side of the answer, scaled to its magnitude.
func BuildQuestion(seq []int64, answer int64, id, difficulty string, src prng.Source) Question {
	terms := make([]string, 0, len(seq)+1)
	for _, v := range seq {
		terms = append(terms, strconv.FormatInt(v, 10))
	}
	terms = append(terms, "?")

	spread := math.Max(3, math.Abs(float64(answer)))
	pool := []int64{answer}
	for len(pool) < distractorCount+1 {
		magnitude := int64(math.Max(1, math.Floor(spread*src.Float64()*0.4+0.5)))
		direction := int64(1)
		if src.Float64() < 0.5 {
			direction = -1
		}
		candidate := answer + direction*magnitude
		if !containsInt(pool, candidate) {
			pool = append(pool, candidate)
		}
	}
	pool = prng.Shuffle(src, pool)

	options := make([]Option, len(pool))
	answerIndex := 0
	for i, v := range pool {
		options[i] = NumberOption(v)
		if v == answer {
			answerIndex = i
		}
	}

	return Question{
		ID:           id,
		Kind:         KindSequence,
		Difficulty:   difficulty,
		Text:         strings.Join(terms, ", "),
		Options:      options,
		Answer:       NumberOption(answer),
		AnswerIndex:  answerIndex,
		TimeLimitSec: DefaultTimeLimit.Seconds(),
		Weight:       defaultWeight,
	}
}

type pick struct {
	info       sequence.Info
	difficulty string
}

// GeneratePack builds a pack of sequence questions. Mixed packs split the
// count evenly across tiers, handing any remainder to easy then medium.
func GeneratePack(opts PackOptions, src prng.Source) Pack {
	count := opts.Count
	if count <= 0 {
		count = defaultPackCount
	}
	level := opts.Difficulty
	if !isTier(level) {
		level = defaultDifficulty
	}

	allocations := map[string]int{}
	if opts.Mix {
		base := count / len(sequence.Tiers)
		for _, tier := range sequence.Tiers {
			allocations[tier] = base
		}
		for i := 0; i < count-base*len(sequence.Tiers); i++ {
			allocations[sequence.Tiers[i%len(sequence.Tiers)]]++
		}
	} else {
		allocations[level] = count
	}

	var picks []pick
	for _, tier := range sequence.Tiers {
		generators := sequence.ByDifficulty(tier)
		for i := 0; i < allocations[tier]; i++ {
			idx := prng.IntBetween(src, 0, len(generators)-1)
			picks = append(picks, pick{info: generators[idx], difficulty: tier})
		}
	}
	picks = prng.Shuffle(src, picks)

	questions := make([]Question, 0, len(picks))
	for i, p := range picks {
		res := p.info.Run(sequence.DefaultLength, src)
		questions = append(questions, BuildQuestion(res.Sequence, res.Answer, fmt.Sprintf("seq-%d", i+1), p.difficulty, src))
	}

	packDifficulty := level
	if opts.Mix {
		packDifficulty = DifficultyMixed
	}
	return Pack{
		Version:    packVersion,
		Title:      generatedTitle,
		Difficulty: packDifficulty,
		Questions:  questions,
	}
}

func isTier(difficulty string) bool {
	for _, tier := range sequence.Tiers {
		if tier == difficulty {
			return true
		}
	}
	return false
}

func containsInt(items []int64, v int64) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}
