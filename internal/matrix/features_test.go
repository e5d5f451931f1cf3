package matrix

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestToVisualFeaturesHexFill(t *testing.T) {
	f := ToVisualFeatures(`{"shape":"square","rotation":0,"fill":"#3366ff"}`)
	assert.Equal(t, "square", f.Shape)
	assert.InDelta(t, 225, f.Fill.Hue, 1e-9)
	assert.InDelta(t, 0.8, f.Fill.Sat, 1e-9)
	assert.InDelta(t, 1, f.Fill.Val, 1e-9)
	assert.False(t, f.Accent.Enabled)
	assert.False(t, f.Stripe.Enabled)
}

func TestToVisualFeaturesAliases(t *testing.T) {
	f := ToVisualFeatures(`{"type":"Triangle","rot":180,"color":"#fff","invert":1,"stripes":true,"accentShape":"Dot","accentPosition":"TL"}`)
	assert.Equal(t, "triangle", f.Shape)
	assert.Equal(t, 60, f.Rotation)
	assert.True(t, f.Flip)
	assert.Equal(t, HSV{Hue: 0, Sat: 0, Val: 1}, f.Fill)
	assert.Equal(t, StripeFeatures{Enabled: true, Angle: 0, Width: 0.5, Gap: 0.5}, f.Stripe)
	assert.True(t, f.Accent.Enabled)
	assert.Equal(t, "dot", f.Accent.Shape)
	assert.Equal(t, "tl", f.Accent.Position)
}

func TestToVisualFeaturesDefaults(t *testing.T) {
	want := ToVisualFeatures(`{}`)
	assert.Equal(t, "unknown", want.Shape)
	assert.Equal(t, 0, want.Rotation)
	assert.Equal(t, normalizeColor(gjson.Result{}, defaultFillColor), want.Fill)

	for _, input := range []any{nil, "", "garbage", "[1,2]", `"square"`, []byte("{"), (*Cell)(nil)} {
		assert.Equal(t, want, ToVisualFeatures(input), "%v", input)
	}
}

func TestRotationQuantisesAndFolds(t *testing.T) {
	cases := []struct {
		shape    string
		rotation float64
		want     int
	}{
		{"square", 90, 0},
		{"square", 180, 0},
		{"diamond", 44, 0},
		{"circle", 44, 0},
		{"circle", 45, 90},
		{"circle", -90, 270},
		{"circle", 720, 0},
		{"triangle", 270, 30},
		{"hexagon", 135, 180},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rotationFor(tc.rotation, tc.shape), "%s %v", tc.shape, tc.rotation)
	}
	assert.Equal(t, 0, ToVisualFeatures(`{"shape":"circle","rotation":"90"}`).Rotation)
}

func TestStrokeAndCornerRadius(t *testing.T) {
	f := ToVisualFeatures(`{"stroke":true,"cornerRadius":7}`)
	assert.Equal(t, 1, f.StrokeWidth)
	assert.Equal(t, 8, f.CornerRadius)

	f = ToVisualFeatures(`{"stroke":true,"strokeWidth":5,"cornerRadius":40}`)
	assert.Equal(t, 2, f.StrokeWidth)
	assert.Equal(t, 12, f.CornerRadius)

	f = ToVisualFeatures(`{"stroke":false,"strokeWidth":2}`)
	assert.Equal(t, 0, f.StrokeWidth)
}

func TestColorObjectsAndBadHex(t *testing.T) {
	f := ToVisualFeatures(`{"fill":{"h":-30,"saturation":2,"v":0.5}}`)
	assert.Equal(t, HSV{Hue: 330, Sat: 1, Val: 0.5}, f.Fill)

	grey := ToVisualFeatures(`{"fill":"red"}`).Fill
	assert.Equal(t, ToVisualFeatures(`{}`).Fill, grey)

	c, ok := hexToRGB("#12zz56")
	require.True(t, ok)
	assert.Equal(t, rgb{r: 0, g: 0, b: 0x12}, c)
	_, ok = hexToRGB("#zzzzzz")
	assert.False(t, ok)
	c, ok = hexToRGB(" #abc ")
	require.True(t, ok)
	assert.Equal(t, rgb{r: 0xaa, g: 0xbb, b: 0xcc}, c)
}

func TestDisabledAccentIsCanonical(t *testing.T) {
	want := ToVisualFeatures(`{"shape":"circle"}`).Accent
	assert.False(t, want.Enabled)
	assert.Equal(t, "none", want.Shape)
	assert.Equal(t, "center", want.Position)

	for _, input := range []string{
		`{"shape":"circle","accent":"none"}`,
		`{"shape":"circle","accent":{"enabled":false,"shape":"dot","position":"tr","color":"#ef4444"}}`,
		`{"shape":"circle","accent":"","accentPosition":"bl"}`,
	} {
		assert.Equal(t, want, ToVisualFeatures(input).Accent, input)
	}
}

func TestAccentObject(t *testing.T) {
	f := ToVisualFeatures(`{"accent":{"position":"TR","fill":"#ef4444"},"accentColor":"#22c55e"}`)
	assert.True(t, f.Accent.Enabled)
	assert.Equal(t, "dot", f.Accent.Shape)
	assert.Equal(t, "tr", f.Accent.Position)
	assert.InDelta(t, 0, f.Accent.Hue, 1e-9)

	f = ToVisualFeatures(`{"accent":"bar","accentColor":"#22c55e"}`)
	assert.Equal(t, "bar", f.Accent.Shape)
	assert.InDelta(t, 142.0857, f.Accent.Hue, 1e-3)
}

func TestStripeNormalisation(t *testing.T) {
	f := ToVisualFeatures(`{"stripe":{"enabled":true,"angle":-100,"width":3,"spacing":0.2}}`)
	assert.Equal(t, StripeFeatures{Enabled: true, Angle: 75, Width: 1, Gap: 0.2}, f.Stripe)

	f = ToVisualFeatures(`{"stripe":{"active":1,"rotation":179,"thickness":"wide"}}`)
	assert.Equal(t, StripeFeatures{Enabled: true, Angle: 0, Width: 0, Gap: 0.5}, f.Stripe)

	f = ToVisualFeatures(`{"stripe":{"enabled":false,"angle":30,"width":0.4}}`)
	assert.Equal(t, StripeFeatures{}, f.Stripe)
}

func TestFeaturesRenormaliseToThemselves(t *testing.T) {
	var inputs []any
	for seed := uint32(0); seed < 30; seed++ {
		inputs = append(inputs, GenerateCell(seed, 2, 2))
	}
	inputs = append(inputs,
		`{"shape":"triangle","rotation":270,"stroke":true,"strokeWidth":2,"cornerRadius":5}`,
		`{"accent":{"shape":"cross","position":"bl","color":"#a855f7"},"stripe":{"enabled":true,"angle":172,"width":0.6,"gap":0.25}}`,
		`{"accent":{"enabled":false},"fill":{"h":400,"s":0.3,"v":0.3}}`,
	)

	for _, input := range inputs {
		f := ToVisualFeatures(input)
		data, err := json.Marshal(f)
		require.NoError(t, err)
		again := ToVisualFeatures(data)
		assert.Equal(t, f, again, "%s", data)
		assert.Equal(t, f.Key(), again.Key())
	}
}

func TestFeaturesPassThrough(t *testing.T) {
	f := ToVisualFeatures(GenerateCell(9, 1, 1))
	assert.Equal(t, f, ToVisualFeatures(f))
	assert.Equal(t, f, ToVisualFeatures(&f))
	cell := GenerateCell(9, 1, 1)
	assert.Equal(t, f, ToVisualFeatures(&cell))
	assert.Equal(t, f, ToVisualFeatures(json.RawMessage(Serialize(cell))))
	assert.Equal(t, f, ToVisualFeatures(map[string]any{
		"shape": cell.Shape, "rotation": cell.Rotation, "invert": cell.Invert,
		"fill": cell.Fill, "accent": cell.Accent.Shape, "accentColor": cell.AccentColor,
		"stroke": cell.Stroke,
	}))
}
