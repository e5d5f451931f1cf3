// Package score validates and records leaderboard submissions and turns raw
// results into IQ estimates.
package score

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Validation errors. Messages are part of the API.
var (
	ErrInvalidNickname   = errors.New("invalid nickname")
	ErrInvalidScore      = errors.New("invalid score")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidIQ         = errors.New("invalid iq")
)

const (
	MaxNicknameLength = 24
	MaxScore          = 9999
)

// Difficulties accepted on submissions.
var Difficulties = []string{"easy", "medium", "hard", "mixed"}

// Payload is a score submission. Fields decode loosely: a value of the
// wrong JSON type becomes an invalid value rather than a decode error.
type Payload struct {
	Nickname   string   `json:"nickname"`
	Score      float64  `json:"score"`
	Difficulty string   `json:"difficulty"`
	IQ         *float64 `json:"iq,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Payload) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("payload is not valid JSON")
	}
	doc := gjson.ParseBytes(data)

	out := Payload{Score: math.NaN()}
	if v := doc.Get("nickname"); v.Type == gjson.String {
		out.Nickname = v.Str
	}
	if v := doc.Get("score"); v.Type == gjson.Number {
		out.Score = v.Num
	}
	if v := doc.Get("difficulty"); v.Type == gjson.String {
		out.Difficulty = v.Str
	}
	if v := doc.Get("iq"); v.Exists() && v.Type != gjson.Null {
		iq := math.NaN()
		if v.Type == gjson.Number {
			iq = v.Num
		}
		out.IQ = &iq
	}
	*p = out
	return nil
}

// SanitizeNickname trims s and collapses each run of whitespace to a single
// space.
func SanitizeNickname(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ValidatePayload returns the sanitised payload or the first validation
// error.
func ValidatePayload(p Payload) (Payload, error) {
	p.Nickname = SanitizeNickname(p.Nickname)
	if n := utf8.RuneCountInString(p.Nickname); n < 1 || n > MaxNicknameLength {
		return Payload{}, ErrInvalidNickname
	}
	if math.IsNaN(p.Score) || p.Score != math.Trunc(p.Score) || p.Score < 0 || p.Score > MaxScore {
		return Payload{}, ErrInvalidScore
	}
	if !validDifficulty(p.Difficulty) {
		return Payload{}, ErrInvalidDifficulty
	}
	if p.IQ != nil && (math.IsNaN(*p.IQ) || math.IsInf(*p.IQ, 0)) {
		return Payload{}, ErrInvalidIQ
	}
	return p, nil
}

func validDifficulty(d string) bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

type norm struct {
	mean, sd float64
}

var iqNorms = map[string]norm{
	"easy":   {mean: 22, sd: 4},
	"medium": {mean: 16, sd: 5},
	"hard":   {mean: 10, sd: 5},
	"mixed":  {mean: 16, sd: 5},
}

const (
	minIQ = 55
	maxIQ = 145
)

// EstimateIQ maps a raw correct count onto the IQ scale using the norm for
// difficulty (mixed when unknown), clamped to [55, 145] and rounded to one
// decimal.
func EstimateIQ(correct int, difficulty string) float64 {
	n, ok := iqNorms[difficulty]
	if !ok {
		n = iqNorms["mixed"]
	}
	sd := n.sd
	if sd <= 0 {
		sd = 1
	}
	z := (float64(correct) - n.mean) / sd
	iq := math.Min(math.Max(100+15*z, minIQ), maxIQ)
	return math.Floor(iq*10+0.5) / 10
}

// Result bands.
const (
	BandExcellent = "excellent"
	BandAverage   = "average"
	BandLearn     = "learn"
)

// Band classifies a correct/total ratio.
func Band(correct, total int) string {
	ratio := 0.0
	if total > 0 {
		ratio = float64(correct) / float64(total)
	}
	switch {
	case ratio >= 0.9:
		return BandExcellent
	case ratio < 0.6:
		return BandLearn
	default:
		return BandAverage
	}
}
