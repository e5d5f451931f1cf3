package matrix

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/tidwall/gjson"
)

// OptionCount is the number of choices a matrix question aims for.
const OptionCount = 8

const (
	candidateSteps   = 4
	fillerSteps      = 5
	fillerOffset     = 101
	fillerStride     = 31
	maxFillerRetries = 250
	mutationStride   = 19
	candidateStride  = 17
	maxEscalations   = 3
)

var (
	shapePool       = []string{"square", "circle", "triangle", "diamond"}
	accentShapePool = []string{"dot", "cross", "bar", "slash"}
	accentPositions = []string{"center", "tl", "tr", "bl", "br"}
	colorPool       = []string{"#ef4444", "#22c55e", "#f97316", "#a855f7", "#0ea5e9", "#facc15"}
)

// Spec describes the matrix question to assemble.
type Spec struct {
	Seed uint32
	// Options are author-supplied cells, either JSON objects or JSON
	// strings holding a serialised cell. They are admitted after the
	// answer with only a duplicate check.
	Options []json.RawMessage
	// CandidateSeeds each produce one extra mutated distractor.
	CandidateSeeds []uint32
}

// Assembly is the outcome of AssembleOptions.
type Assembly struct {
	Seed           uint32   `json:"seed"`
	Options        []string `json:"options"`
	Answer         string   `json:"answer"`
	AnswerIndex    int      `json:"answerIndex"`
	FillerAttempts int      `json:"fillerAttempts"`
}

// DefaultCandidateSeed is the variant seed used for the candidate at index
// when the author gave none.
func DefaultCandidateSeed(seed uint32, index int) uint32 {
	return seed + uint32(index+1)*candidateStride
}

type admitted struct {
	serialized string
	features   VisualFeatures
}

type assembler struct {
	base           Cell
	answerFeatures VisualFeatures
	keys           map[string]struct{}
	entries        []admitted
}

// AssembleOptions builds up to OptionCount visually distinct options around
// GenerateCell(seed,2,2). The answer always sits at index 0. Fewer than
// OptionCount options is possible when the filler budget runs out.
func AssembleOptions(spec Spec) Assembly {
	base := GenerateCell(spec.Seed, 2, 2)
	answer := Serialize(base)
	a := &assembler{
		base:           base,
		answerFeatures: ToVisualFeatures(base),
		keys:           make(map[string]struct{}),
	}

	a.add(answer, a.answerFeatures, false)
	for _, raw := range spec.Options {
		serialized, parsed, ok := rawOption(raw)
		if !ok {
			continue
		}
		a.add(serialized, ToVisualFeatures(parsed), false)
	}

	for _, seed := range spec.CandidateSeeds {
		a.addVariant(int64(seed), candidateSteps)
	}

	fillerBase := int64(spec.Seed) + fillerOffset
	attempts := 0
	for len(a.entries) < OptionCount && attempts < maxFillerRetries {
		a.addVariant(fillerBase+int64(attempts)*fillerStride, fillerSteps)
		attempts++
	}

	options := make([]string, 0, OptionCount)
	for i := 0; i < len(a.entries) && i < OptionCount; i++ {
		options = append(options, a.entries[i].serialized)
	}
	answerIndex := indexOf(options, answer)
	if answerIndex < 0 {
		options = append([]string{answer}, options...)
		if len(options) > OptionCount {
			options = options[:OptionCount]
		}
		answerIndex = 0
	}

	return Assembly{
		Seed:           spec.Seed,
		Options:        options,
		Answer:         answer,
		AnswerIndex:    answerIndex,
		FillerAttempts: attempts,
	}
}

func (a *assembler) addVariant(seedBase int64, steps int) bool {
	cell := a.variant(seedBase, steps)
	features := ToVisualFeatures(cell)
	if !hasContrast(features.Fill, a.answerFeatures.Fill) {
		return false
	}
	return a.add(Serialize(cell), features, true)
}

func (a *assembler) add(serialized string, features VisualFeatures, diverse bool) bool {
	key := features.Key()
	if _, dup := a.keys[key]; dup {
		return false
	}
	if diverse {
		for _, e := range a.entries {
			if features.DistanceTo(e.features) < DistanceThreshold {
				return false
			}
		}
	}
	a.keys[key] = struct{}{}
	a.entries = append(a.entries, admitted{serialized: serialized, features: features})
	return true
}

// variant mutates the answer steps times, then escalates until it is far
// enough from the answer.
func (a *assembler) variant(seedBase int64, steps int) Cell {
	cell := a.base
	for step := 0; step < max(1, steps); step++ {
		cell = MutateCell(cell, uint32(seedBase+int64(step)*mutationStride))
	}
	return a.enforceDiversity(cell, seedBase)
}

func (a *assembler) enforceDiversity(cell Cell, seedBase int64) Cell {
	for attempt := 0; attempt < maxEscalations; attempt++ {
		if ToVisualFeatures(cell).DistanceTo(a.answerFeatures) >= DistanceThreshold {
			break
		}
		offset := seedBase + int64(attempt)
		switch attempt {
		case 0:
			cell.Shape = distinctShape(cell.Shape, offset)
			cell.Rotation = (cell.Rotation + int(seedBase%3+1)*90) % 360
		case 1:
			cell.Fill = colorPool[offset%int64(len(colorPool))]
			cell.Accent = Accent{
				Shape:    accentShapePool[offset%int64(len(accentShapePool))],
				Position: accentPositions[offset%int64(len(accentPositions))],
				Color:    colorPool[(offset+2)%int64(len(colorPool))],
			}
		default:
			cell.Invert = !cell.Invert
			cell.Stripe = &Stripe{
				Enabled: true,
				Angle:   float64((seedBase + int64(attempt)*45) % 180),
				Width:   0.6,
				Gap:     0.25,
			}
		}
	}
	return cell
}

func distinctShape(current string, offset int64) string {
	n := int64(len(shapePool))
	i := indexOf(shapePool, current)
	if i < 0 {
		return shapePool[offset%n]
	}
	return shapePool[(int64(i)+1+offset)%n]
}

// hasContrast requires a clear step in value, saturation or hue.
func hasContrast(c, ref HSV) bool {
	dv := math.Abs(c.Val - ref.Val)
	ds := math.Abs(c.Sat - ref.Sat)
	dh := math.Abs(c.Hue - ref.Hue)
	hue := math.Min(dh, 360-dh) / 360
	return dv >= 0.25 || ds >= 0.25 || hue >= 0.2
}

// rawOption resolves an author-supplied option to its display text and
// parsed form. Null and unparseable entries are skipped.
func rawOption(raw json.RawMessage) (string, gjson.Result, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !gjson.ValidBytes(trimmed) {
		return "", gjson.Result{}, false
	}
	value := gjson.ParseBytes(trimmed)
	switch value.Type {
	case gjson.Null:
		return "", gjson.Result{}, false
	case gjson.String:
		if !gjson.Valid(value.Str) {
			return "", gjson.Result{}, false
		}
		return value.Str, gjson.Parse(value.Str), true
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return "", gjson.Result{}, false
	}
	return compact.String(), value, true
}
