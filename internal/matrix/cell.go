// Package matrix generates the tiles of "complete the pattern" questions and
// decides when two tiles look the same.
package matrix

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/gokatarajesh/iqtest/internal/prng"
)

// Palettes the generator and mutator draw from.
var (
	Shapes  = []string{"square", "circle", "triangle", "diamond"}
	Accents = []string{"none", "dot", "bar", "cross", "slash"}
	Colors  = []string{"#2563eb", "#22c55e", "#f97316", "#a855f7", "#0ea5e9", "#ef4444"}
)

// Rotations are the quarter turns a cell may take.
var Rotations = []int{0, 90, 180, 270}

// Cell describes one tile.
type Cell struct {
	Shape       string  `json:"shape"`
	Accent      Accent  `json:"accent"`
	Rotation    int     `json:"rotation"`
	Scale       float64 `json:"scale"`
	Invert      bool    `json:"invert"`
	Fill        string  `json:"fill"`
	AccentColor string  `json:"accentColor"`
	Stroke      bool    `json:"stroke"`
	Stripe      *Stripe `json:"stripe,omitempty"`
}

// Accent is a small mark drawn on the tile. It travels as a bare shape name
// unless a position or colour is attached.
type Accent struct {
	Shape    string
	Position string
	Color    string
}

type accentObject struct {
	Shape    string `json:"shape,omitempty"`
	Position string `json:"position,omitempty"`
	Color    string `json:"color,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (a Accent) MarshalJSON() ([]byte, error) {
	if a.Position == "" && a.Color == "" {
		return json.Marshal(a.Shape)
	}
	return json.Marshal(accentObject{Shape: a.Shape, Position: a.Position, Color: a.Color})
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Accent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = Accent{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var shape string
		if err := json.Unmarshal(data, &shape); err != nil {
			return err
		}
		*a = Accent{Shape: shape}
		return nil
	}
	var obj accentObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = Accent{Shape: obj.Shape, Position: obj.Position, Color: obj.Color}
	return nil
}

// Stripe is an optional hatch pattern over the tile.
type Stripe struct {
	Enabled bool    `json:"enabled"`
	Angle   float64 `json:"angle"`
	Width   float64 `json:"width"`
	Gap     float64 `json:"gap"`
}

// GenerateCell deterministically builds the tile at (row, col) for seed.
// The coordinates feed both the random stream and the palette offsets so
// neighbouring tiles differ.
func GenerateCell(seed uint32, row, col int) Cell {
	rand := prng.NewStream(seed*97 + uint32(row)*31 + uint32(col)*17)
	s, r, c := int64(seed), int64(row), int64(col)

	shapeIndex := wrap(draw(rand, len(Shapes))+r+c+s, len(Shapes))
	accentIndex := draw(rand, len(Accents))
	colorIndex := wrap(draw(rand, len(Colors))+r, len(Colors))
	accentColorIndex := wrap(colorIndex+2+c, len(Colors))
	rotationSteps := wrap(draw(rand, 4)+c+s, 4)
	baseScale := 0.55 + rand.Float64()*0.35
	scale := round2(clamp(baseScale+float64(row)*0.05-float64(col)*0.03, 0.45, 0.9))
	invert := wrap(s+r+c+draw(rand, 10), 2) == 0
	stroke := wrap(s+r*5+c*3, 3) == 0

	return Cell{
		Shape:       Shapes[shapeIndex],
		Accent:      Accent{Shape: Accents[accentIndex]},
		Rotation:    int(rotationSteps) * 90,
		Scale:       scale,
		Invert:      invert,
		Fill:        Colors[colorIndex],
		AccentColor: Colors[accentColorIndex],
		Stroke:      stroke,
	}
}

// Grid builds the full 3x3 puzzle. Grid[2][2] is the hidden answer.
func Grid(seed uint32) [3][3]Cell {
	var g [3][3]Cell
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			g[row][col] = GenerateCell(seed, row, col)
		}
	}
	return g
}

// Serialize renders a cell as JSON text.
func Serialize(c Cell) string {
	data, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ParseCell decodes JSON text into a cell. Anything that is not a
// well-formed cell object reports false and should be dropped by callers.
func ParseCell(text string) (Cell, bool) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Cell{}, false
	}
	var c Cell
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return Cell{}, false
	}
	return c, true
}

func draw(src prng.Source, n int) int64 {
	return int64(src.Float64() * float64(n))
}

// wrap reduces x into [0, n) for negative x as well.
func wrap(x int64, n int) int64 {
	m := int64(n)
	return ((x % m) + m) % m
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// round2 rounds to two decimals through the decimal formatter so values
// match their printed form exactly.
func round2(v float64) float64 {
	out, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return out
}

func indexOf(items []string, v string) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return -1
}
