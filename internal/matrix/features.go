package matrix

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

// rotationPeriods maps shapes with rotational symmetry to the angle after
// which they look the same.
var rotationPeriods = map[string]int{
	"triangle":   120,
	"tri":        120,
	"triangular": 120,
	"square":     90,
	"diamond":    90,
	"plus":       90,
	"cross":      90,
	"x":          90,
}

// VisualFeatures is the normalised appearance of a cell. Two cells that look
// the same have equal features.
type VisualFeatures struct {
	Shape        string         `json:"shape"`
	Rotation     int            `json:"rotation"`
	Flip         bool           `json:"flip"`
	Stroke       bool           `json:"stroke"`
	StrokeWidth  int            `json:"strokeWidth"`
	CornerRadius int            `json:"cornerRadius"`
	Fill         HSV            `json:"fill"`
	Accent       AccentFeatures `json:"accent"`
	Stripe       StripeFeatures `json:"stripe"`
}

// AccentFeatures is the normalised accent mark.
type AccentFeatures struct {
	Enabled  bool   `json:"enabled"`
	Shape    string `json:"shape"`
	Position string `json:"position"`
	HSV
}

// StripeFeatures is the normalised hatch pattern.
type StripeFeatures struct {
	Enabled bool    `json:"enabled"`
	Angle   int     `json:"angle"`
	Width   float64 `json:"width"`
	Gap     float64 `json:"gap"`
}

// featuresMarker tags serialised features so they decode as they are
// instead of being normalised a second time.
const featuresMarker = "__vf"

// featuresJSON is VisualFeatures without the marker.
type featuresJSON VisualFeatures

// MarshalJSON implements json.Marshaler.
func (f VisualFeatures) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Marker bool `json:"__vf"`
		featuresJSON
	}{true, featuresJSON(f)})
}

// ToVisualFeatures normalises a cell given as a Cell, a *Cell, JSON text
// ([]byte, string, json.RawMessage), a gjson.Result or any value that
// marshals to a JSON object. Existing features, including serialised
// ones, are returned as they are. Unparseable input yields the defaults.
func ToVisualFeatures(v any) VisualFeatures {
	switch t := v.(type) {
	case VisualFeatures:
		return t
	case *VisualFeatures:
		if t != nil {
			return *t
		}
		return fromJSON(gjson.Result{})
	case gjson.Result:
		return fromJSON(t)
	}
	return fromJSON(parseLoose(v))
}

func parseLoose(v any) gjson.Result {
	var text string
	switch t := v.(type) {
	case nil:
		return gjson.Result{}
	case string:
		text = t
	case []byte:
		text = string(t)
	case json.RawMessage:
		text = string(t)
	case *Cell:
		if t == nil {
			return gjson.Result{}
		}
		text = Serialize(*t)
	case Cell:
		text = Serialize(t)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return gjson.Result{}
		}
		text = string(data)
	}
	if !gjson.Valid(text) {
		return gjson.Result{}
	}
	return gjson.Parse(text)
}

func fromJSON(cell gjson.Result) VisualFeatures {
	if !cell.IsObject() {
		cell = gjson.Parse("{}")
	}
	if cell.Get(featuresMarker).Type == gjson.True {
		var f featuresJSON
		if err := json.Unmarshal([]byte(cell.Raw), &f); err == nil {
			return VisualFeatures(f)
		}
	}

	shape := strings.ToLower(str(first(cell, "shape", "type"), "unknown"))
	stroke := truthy(cell.Get("stroke"))

	return VisualFeatures{
		Shape:        shape,
		Rotation:     rotationFor(number(first(cell, "rotation", "rot"), 0), shape),
		Flip:         truthy(first(cell, "flip", "invert")),
		Stroke:       stroke,
		StrokeWidth:  strokeWidth(cell.Get("strokeWidth"), stroke),
		CornerRadius: cornerRadius(cell.Get("cornerRadius")),
		Fill:         normalizeColor(first(cell, "fill", "color"), defaultFillColor),
		Accent:       parseAccent(cell),
		Stripe:       parseStripe(cell),
	}
}

// rotationFor quantises to quarter turns, then folds by the shape's period.
func rotationFor(deg float64, shape string) int {
	quantized := jsRound(deg/90) * 90
	normalized := int(math.Mod(math.Mod(quantized, 360)+360, 360))
	if period, ok := rotationPeriods[shape]; ok {
		return normalized % period
	}
	return normalized
}

func strokeWidth(v gjson.Result, stroke bool) int {
	if !stroke {
		return 0
	}
	if !isNumber(v) {
		return 1
	}
	return int(clamp(jsRound(v.Num), 0, 2))
}

func cornerRadius(v gjson.Result) int {
	if !isNumber(v) {
		return 0
	}
	return int(clamp(jsRound(v.Num/4)*4, 0, 12))
}

func parseAccent(cell gjson.Result) AccentFeatures {
	accent := present(cell.Get("accent"))
	obj := isObject(accent)

	var shape gjson.Result
	switch {
	case accent.Type == gjson.String:
		shape = accent
	case obj:
		shape = first(accent, "shape", "type", "kind")
	default:
		shape = first(cell, "accentShape", "accentKind")
		if !shape.Exists() {
			shape = gjson.Result{Type: gjson.String, Str: "none"}
		}
	}

	var enabled bool
	if obj {
		enabled = true
		if flag := present(accent.Get("enabled")); flag.Exists() {
			enabled = truthy(flag)
		}
	} else {
		enabled = truthy(shape) && shape.String() != "none"
	}
	if !enabled {
		return AccentFeatures{
			Shape:    "none",
			Position: "center",
			HSV:      normalizeColor(gjson.Result{}, defaultAccentColor),
		}
	}

	position := gjson.Result{Type: gjson.String, Str: "center"}
	if p := accent.Get("position"); obj && truthy(p) {
		position = p
	} else if p := cell.Get("accentPosition"); truthy(p) {
		position = p
	}

	color := gjson.Result{Type: gjson.String, Str: defaultAccentColor}
	switch {
	case obj && truthy(first(accent, "color", "fill")):
		color = first(accent, "color", "fill")
	case truthy(cell.Get("accentColor")):
		color = cell.Get("accentColor")
	}

	return AccentFeatures{
		Enabled:  true,
		Shape:    strings.ToLower(str(shape, "dot")),
		Position: strings.ToLower(position.String()),
		HSV:      normalizeColor(color, defaultAccentColor),
	}
}

func parseStripe(cell gjson.Result) StripeFeatures {
	stripe := first(cell, "stripe", "stripes")
	var enabled bool
	if isObject(stripe) {
		enabled = truthy(first(stripe, "enabled", "active"))
	} else {
		enabled = truthy(stripe)
	}
	if !enabled {
		return StripeFeatures{}
	}

	var angle float64
	if a := stripe.Get("angle"); isNumber(a) {
		angle = a.Num
	} else if r := stripe.Get("rotation"); isNumber(r) {
		angle = r.Num
	}
	angle = math.Mod(math.Mod(angle, 180)+180, 180)
	snapped := int(jsRound(angle/15)*15) % 180

	return StripeFeatures{
		Enabled: true,
		Angle:   snapped,
		Width:   stripeRatio(stripe, "width", "thickness"),
		Gap:     stripeRatio(stripe, "gap", "spacing"),
	}
}

// stripeRatio reads key, falling back to alias and then to one half.
func stripeRatio(stripe gjson.Result, key, alias string) float64 {
	if v := stripe.Get(key); isNumber(v) {
		return clamp01(v.Num)
	}
	v := present(stripe.Get(alias))
	if !v.Exists() {
		return 0.5
	}
	return clamp01(number(v, 0))
}

// first returns the first of keys holding a non-null value.
func first(obj gjson.Result, keys ...string) gjson.Result {
	if !isObject(obj) {
		return gjson.Result{}
	}
	for _, key := range keys {
		if v := present(obj.Get(key)); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// present maps JSON null to a missing value.
func present(v gjson.Result) gjson.Result {
	if v.Type == gjson.Null {
		return gjson.Result{}
	}
	return v
}

func isObject(v gjson.Result) bool {
	return v.IsObject() || v.IsArray()
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True, gjson.JSON:
		return true
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	}
	return false
}

// number returns a finite JSON number or fallback.
func number(v gjson.Result, fallback float64) float64 {
	if v.Type != gjson.Number || math.IsInf(v.Num, 0) || math.IsNaN(v.Num) {
		return fallback
	}
	return v.Num
}

func isNumber(v gjson.Result) bool {
	return v.Type == gjson.Number && !math.IsInf(v.Num, 0) && !math.IsNaN(v.Num)
}

func str(v gjson.Result, fallback string) string {
	if !v.Exists() {
		return fallback
	}
	return v.String()
}

// jsRound rounds half up, the way browsers round.
func jsRound(v float64) float64 {
	return math.Floor(v + 0.5)
}
