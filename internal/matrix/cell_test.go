package matrix

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCellFixtures(t *testing.T) {
	cases := []struct {
		seed     uint32
		row, col int
		want     string
	}{
		{42, 2, 2, `{"shape":"triangle","accent":"dot","rotation":90,"scale":0.62,"invert":true,"fill":"#2563eb","accentColor":"#0ea5e9","stroke":false}`},
		{42, 0, 0, `{"shape":"square","accent":"slash","rotation":0,"scale":0.67,"invert":false,"fill":"#ef4444","accentColor":"#22c55e","stroke":true}`},
		{7, 1, 2, `{"shape":"diamond","accent":"none","rotation":0,"scale":0.7,"invert":false,"fill":"#f97316","accentColor":"#2563eb","stroke":true}`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Serialize(GenerateCell(tc.seed, tc.row, tc.col)), "seed %d (%d,%d)", tc.seed, tc.row, tc.col)
	}
}

func TestGenerateCellIsPure(t *testing.T) {
	for seed := uint32(0); seed < 50; seed++ {
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				a := GenerateCell(seed, row, col)
				b := GenerateCell(seed, row, col)
				require.Equal(t, a, b)
				assert.Contains(t, Shapes, a.Shape)
				assert.Contains(t, Accents, a.Accent.Shape)
				assert.Contains(t, Colors, a.Fill)
				assert.Contains(t, Rotations, a.Rotation)
				assert.GreaterOrEqual(t, a.Scale, 0.45)
				assert.LessOrEqual(t, a.Scale, 0.9)
				assert.Nil(t, a.Stripe)
			}
		}
	}
}

func TestGridHidesAnswerAtBottomRight(t *testing.T) {
	g := Grid(42)
	assert.Equal(t, GenerateCell(42, 2, 2), g[2][2])
	assert.Equal(t, GenerateCell(42, 0, 1), g[0][1])
}

func TestAccentWireForms(t *testing.T) {
	plain, err := json.Marshal(Accent{Shape: "dot"})
	require.NoError(t, err)
	assert.JSONEq(t, `"dot"`, string(plain))

	rich, err := json.Marshal(Accent{Shape: "bar", Position: "tl", Color: "#ef4444"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shape":"bar","position":"tl","color":"#ef4444"}`, string(rich))

	var a Accent
	require.NoError(t, json.Unmarshal([]byte(`{"shape":"cross","position":"br"}`), &a))
	assert.Equal(t, Accent{Shape: "cross", Position: "br"}, a)
	require.NoError(t, json.Unmarshal([]byte(`"slash"`), &a))
	assert.Equal(t, Accent{Shape: "slash"}, a)
}

func TestParseCellRoundTrip(t *testing.T) {
	cell := GenerateCell(77, 2, 2)
	cell.Stripe = &Stripe{Enabled: true, Angle: 45, Width: 0.6, Gap: 0.25}
	cell.Accent = Accent{Shape: "dot", Position: "tr", Color: "#22c55e"}

	parsed, ok := ParseCell(Serialize(cell))
	require.True(t, ok)
	assert.Equal(t, cell, parsed)

	for _, bad := range []string{"", "not json", "42", `"dot"`, "{"} {
		_, ok := ParseCell(bad)
		assert.False(t, ok, bad)
	}
}

func TestMutateCellFixtures(t *testing.T) {
	base := GenerateCell(42, 2, 2)
	cases := []struct {
		seed  uint32
		attr  string
		check func(t *testing.T, got Cell)
	}{
		{0, AttrStroke, func(t *testing.T, got Cell) { assert.True(t, got.Stroke) }},
		{1, AttrInvert, func(t *testing.T, got Cell) { assert.False(t, got.Invert) }},
		{2, AttrFill, func(t *testing.T, got Cell) { assert.Equal(t, "#22c55e", got.Fill) }},
		{3, AttrShape, func(t *testing.T, got Cell) { assert.Equal(t, "circle", got.Shape) }},
		{5, AttrRotation, func(t *testing.T, got Cell) { assert.Equal(t, 180, got.Rotation) }},
		{47, AttrInvert, func(t *testing.T, got Cell) { assert.False(t, got.Invert) }},
	}
	for _, tc := range cases {
		got, attr := mutate(base, tc.seed)
		assert.Equal(t, tc.attr, attr, "seed %d", tc.seed)
		tc.check(t, got)
	}
	assert.Equal(t, GenerateCell(42, 2, 2), base, "input must not change")
}

func TestMutateCellAlwaysChangesSomething(t *testing.T) {
	for seed := uint32(0); seed < 20; seed++ {
		for row := 0; row < 3; row++ {
			cell := GenerateCell(seed, row, 2)
			for variant := uint32(0); variant < 200; variant++ {
				got := MutateCell(cell, variant)
				require.NotEqual(t, cell, got, "seed %d row %d variant %d", seed, row, variant)
			}
		}
	}
}

func TestMutateScaleStaysInRangeAtEdges(t *testing.T) {
	cell := GenerateCell(42, 2, 2)
	for _, scale := range []float64{0.4, 0.95} {
		cell.Scale = scale
		for variant := uint32(0); variant < 400; variant++ {
			got, attr := mutate(cell, variant)
			if attr != AttrScale {
				continue
			}
			assert.NotEqual(t, scale, got.Scale)
			assert.GreaterOrEqual(t, got.Scale, 0.35)
			assert.LessOrEqual(t, got.Scale, 0.95)
		}
	}
}

func TestGenerateCellOutsideGrid(t *testing.T) {
	coords := [][2]int{{-100, -100}, {-1, 0}, {0, -7}, {3, 3}, {1000, -1000}}
	for _, rc := range coords {
		for _, seed := range []uint32{0, 1, 42, 1 << 31} {
			var cell Cell
			require.NotPanics(t, func() { cell = GenerateCell(seed, rc[0], rc[1]) }, "seed %d at %v", seed, rc)
			assert.Contains(t, Shapes, cell.Shape)
			assert.Contains(t, Colors, cell.Fill)
			assert.Contains(t, Colors, cell.AccentColor)
			assert.Contains(t, Rotations, cell.Rotation)
			assert.Equal(t, cell, GenerateCell(seed, rc[0], rc[1]))
		}
	}
}

func TestMutateAccentKeepsPlacement(t *testing.T) {
	cell := GenerateCell(42, 2, 2)
	cell.Accent = Accent{Shape: "dot", Position: "tr", Color: "#22c55e"}

	found := false
	for variant := uint32(0); variant < 400; variant++ {
		got, attr := mutate(cell, variant)
		if attr != AttrAccent {
			continue
		}
		found = true
		assert.NotEqual(t, "dot", got.Accent.Shape, "variant %d", variant)
		assert.Equal(t, "tr", got.Accent.Position, "variant %d", variant)
		assert.Equal(t, "#22c55e", got.Accent.Color, "variant %d", variant)
	}
	require.True(t, found, "no variant mutated the accent")
}
