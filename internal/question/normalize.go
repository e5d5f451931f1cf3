package question

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/tidwall/gjson"

	"github.com/gokatarajesh/iqtest/internal/logging"
	"github.com/gokatarajesh/iqtest/internal/matrix"
)

const defaultMatrixSeed = 1

// NormalizeDifficulty maps free-form input onto easy, medium or hard.
func NormalizeDifficulty(value string) string {
	switch d := strings.ToLower(value); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d
	}
	return DifficultyMedium
}

// Normalize turns an authored spec into a playable question. Matrix specs get
// a full option set assembled around their seed; everything else keeps only
// primitive options. It reports false for empty or non-object input.
func Normalize(ctx context.Context, raw RawQuestion) (Question, bool) {
	doc := gjson.ParseBytes(raw)
	if len(raw) == 0 || !doc.IsObject() {
		return Question{}, false
	}

	q := Question{
		ID:         idOf(doc.Get("id")),
		Kind:       firstString(doc, KindUnknown, "kind", "type"),
		Difficulty: NormalizeDifficulty(doc.Get("difficulty").String()),
		Text:       doc.Get("text").String(),
		Pack:       doc.Get("_pack").String(),
	}
	if limit, ok := finiteNumber(doc.Get("timeLimitSec")); ok {
		q.TimeLimitSec = limit
	}
	if weight, ok := finiteNumber(doc.Get("weight")); ok {
		q.Weight = weight
	}
	if tags := doc.Get("tags"); tags.IsArray() {
		q.Tags = []string{}
		for _, tag := range tags.Array() {
			q.Tags = append(q.Tags, tag.String())
		}
	}

	if q.Kind == KindMatrix {
		return assembleMatrix(q, doc), true
	}
	return sanitizeOptions(ctx, q, doc), true
}

// AssembleMatrixOptions normalises a matrix spec regardless of its declared
// kind.
func AssembleMatrixOptions(raw RawQuestion) Question {
	doc := gjson.ParseBytes(raw)
	q := Question{
		ID:         idOf(doc.Get("id")),
		Kind:       KindMatrix,
		Difficulty: NormalizeDifficulty(doc.Get("difficulty").String()),
		Text:       doc.Get("text").String(),
	}
	return assembleMatrix(q, doc)
}

func assembleMatrix(q Question, doc gjson.Result) Question {
	seed := matrixSeed(doc)

	spec := matrix.Spec{Seed: seed}
	for _, option := range doc.Get("options").Array() {
		spec.Options = append(spec.Options, json.RawMessage(option.Raw))
	}
	for i, candidate := range doc.Get("candidates").Array() {
		variant := firstPresent(candidate, "variant", "seed")
		if v, ok := finiteNumber(variant); ok {
			spec.CandidateSeeds = append(spec.CandidateSeeds, uint32(int64(v)))
			continue
		}
		spec.CandidateSeeds = append(spec.CandidateSeeds, matrix.DefaultCandidateSeed(seed, i))
	}

	assembled := matrix.AssembleOptions(spec)
	q.Seed = &seed
	q.Options = make([]Option, len(assembled.Options))
	for i, option := range assembled.Options {
		q.Options[i] = TextOption(option)
	}
	q.Answer = TextOption(assembled.Answer)
	q.AnswerIndex = assembled.AnswerIndex
	return q
}

// matrixSeed resolves seed, then svgSeed, then the character sum of a string
// id, then 1.
func matrixSeed(doc gjson.Result) uint32 {
	if v, ok := finiteNumber(firstPresent(doc, "seed", "svgSeed")); ok {
		return uint32(int64(v))
	}
	if id := doc.Get("id"); id.Type == gjson.String && id.Str != "" {
		var sum uint32
		for _, unit := range utf16.Encode([]rune(id.Str)) {
			sum += uint32(unit)
		}
		return sum
	}
	return defaultMatrixSeed
}

func sanitizeOptions(ctx context.Context, q Question, doc gjson.Result) Question {
	var dropped bool
	options := []Option{}
	for _, value := range doc.Get("options").Array() {
		opt, ok := primitiveOption(value)
		if !ok {
			dropped = true
			continue
		}
		options = append(options, opt)
	}
	if dropped {
		logger := logging.FromContext(ctx)
		logger.Warn().Str("question_id", q.ID).Msg("dropping non-primitive option(s)")
	}
	q.Options = options
	q.AnswerIndex = -1

	if answer, ok := primitiveOption(doc.Get("answer")); ok {
		if idx := indexOfOption(options, answer); idx >= 0 {
			q.Answer, q.AnswerIndex = answer, idx
			return q
		}
	}
	if idx := doc.Get("answerIndex"); isInteger(idx) && len(options) > 0 {
		i := int(math.Min(math.Max(idx.Num, 0), float64(len(options)-1)))
		q.Answer, q.AnswerIndex = options[i], i
		return q
	}
	if len(options) > 0 {
		q.Answer, q.AnswerIndex = options[0], 0
	}
	return q
}

// primitiveOption accepts numbers and plain strings. Strings that look like
// a JSON object are rejected.
func primitiveOption(v gjson.Result) (Option, bool) {
	if v.Type == gjson.String && strings.HasPrefix(strings.TrimSpace(v.Str), "{") {
		return Option{}, false
	}
	return optionFrom(v)
}

func indexOfOption(options []Option, target Option) int {
	for i, opt := range options {
		if opt == target {
			return i
		}
	}
	return -1
}

func idOf(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return ""
}

func firstString(doc gjson.Result, fallback string, keys ...string) string {
	if v := firstPresent(doc, keys...); v.Exists() {
		return v.String()
	}
	return fallback
}

func firstPresent(doc gjson.Result, keys ...string) gjson.Result {
	for _, key := range keys {
		if v := doc.Get(key); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

// finiteNumber coerces numbers, numeric strings and booleans the way a
// browser's Number() would.
func finiteNumber(v gjson.Result) (float64, bool) {
	var n float64
	switch v.Type {
	case gjson.Number:
		n = v.Num
	case gjson.True:
		n = 1
	case gjson.False:
		n = 0
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0, true
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func isInteger(v gjson.Result) bool {
	return v.Type == gjson.Number && v.Num == math.Trunc(v.Num) && !math.IsInf(v.Num, 0)
}
