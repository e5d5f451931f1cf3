package question

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// Difficulty constants for readability.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyMixed  = "mixed"
)

// Kind constants.
const (
	KindSequence = "sequence"
	KindMatrix   = "matrix"
	KindUnknown  = "unknown"
)

const (
	// DefaultTimeLimit applies when a question carries no usable limit.
	DefaultTimeLimit = 30 * time.Second
	defaultWeight    = 1.0
)

// Option is one answer choice. It remembers whether it was authored as a
// JSON number, so 10 and "10" stay different answers.
type Option struct {
	Value   string
	Numeric bool
}

// NumberOption wraps an integer choice.
func NumberOption(n int64) Option {
	return Option{Value: strconv.FormatInt(n, 10), Numeric: true}
}

// TextOption wraps a string choice.
func TextOption(s string) Option {
	return Option{Value: s}
}

func (o Option) String() string { return o.Value }

// MarshalJSON implements json.Marshaler.
func (o Option) MarshalJSON() ([]byte, error) {
	if o.Numeric {
		return []byte(o.Value), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Option) UnmarshalJSON(data []byte) error {
	opt, ok := optionFrom(gjson.ParseBytes(data))
	if !ok {
		return errors.New("option must be a number or a string")
	}
	*o = opt
	return nil
}

func optionFrom(v gjson.Result) (Option, bool) {
	switch v.Type {
	case gjson.Number:
		return Option{Value: strconv.FormatFloat(v.Num, 'f', -1, 64), Numeric: true}, true
	case gjson.String:
		return Option{Value: v.Str}, true
	}
	return Option{}, false
}

// Question is the normalised payload a quiz session works with.
type Question struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"`
	Difficulty   string   `json:"difficulty"`
	Text         string   `json:"text,omitempty"`
	Seed         *uint32  `json:"svgSeed,omitempty"`
	Options      []Option `json:"options"`
	Answer       Option   `json:"answer"`
	AnswerIndex  int      `json:"answerIndex"`
	TimeLimitSec float64  `json:"timeLimitSec,omitempty"`
	Weight       float64  `json:"weight,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Pack         string   `json:"_pack,omitempty"`
}

// TimeLimit is the per-question countdown.
func (q Question) TimeLimit() time.Duration {
	if q.TimeLimitSec <= 0 {
		return DefaultTimeLimit
	}
	return time.Duration(q.TimeLimitSec * float64(time.Second))
}

// HasAnswer reports whether the answer sits in the options.
func (q Question) HasAnswer() bool {
	return q.AnswerIndex >= 0 && q.AnswerIndex < len(q.Options) && q.Options[q.AnswerIndex] == q.Answer
}

// Raw re-encodes the question as an authored spec.
func (q Question) Raw() RawQuestion {
	data, err := json.Marshal(q)
	if err != nil {
		return nil
	}
	return RawQuestion(data)
}

// RawQuestion is a question as authored in a pack document. Fields are read
// loosely so aliases such as type/kind or seed/svgSeed both work.
type RawQuestion json.RawMessage

// MarshalJSON implements json.Marshaler.
func (r RawQuestion) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawQuestion) UnmarshalJSON(data []byte) error {
	*r = append((*r)[0:0], data...)
	return nil
}

func (r RawQuestion) get(path string) gjson.Result {
	return gjson.GetBytes(r, path)
}

// Pack is a named collection of questions.
type Pack struct {
	Version    string     `json:"version"`
	Name       string     `json:"name,omitempty"`
	Title      string     `json:"title"`
	Difficulty string     `json:"difficulty"`
	Questions  []Question `json:"questions"`
}

// PackOptions controls GeneratePack.
type PackOptions struct {
	Count      int
	Mix        bool
	Difficulty string
}
