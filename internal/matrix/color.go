package matrix

import (
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	defaultFillColor   = "#4b5563"
	defaultAccentColor = "#1f2937"
)

var neutralGrey = rgb{128, 128, 128}

// HSV is a colour with hue in [0,360) and saturation and value in [0,1].
type HSV struct {
	Hue float64 `json:"hue"`
	Sat float64 `json:"sat"`
	Val float64 `json:"val"`
}

// ColorDistance weighs hue (circular) against saturation and value.
func ColorDistance(a, b HSV) float64 {
	dh := math.Abs(a.Hue - b.Hue)
	dh = math.Min(dh, 360-dh) / 180
	ds := math.Abs(a.Sat - b.Sat)
	dv := math.Abs(a.Val - b.Val)
	return 0.4*dh + 0.3*ds + 0.3*dv
}

type rgb struct {
	r, g, b int
}

// normalizeColor accepts a hex string or an {h,s,v} object. Anything else
// resolves to the fallback hex, then to neutral grey.
func normalizeColor(value gjson.Result, fallbackHex string) HSV {
	if isObject(value) {
		return HSV{
			Hue: normalizeHue(number(first(value, "h", "hue"), 0)),
			Sat: clamp01(number(first(value, "s", "sat", "saturation"), 0)),
			Val: clamp01(number(first(value, "v", "val", "value"), 0)),
		}
	}
	if value.Type == gjson.String {
		if c, ok := hexToRGB(value.Str); ok {
			return rgbToHSV(c)
		}
	}
	if c, ok := hexToRGB(fallbackHex); ok {
		return rgbToHSV(c)
	}
	return rgbToHSV(neutralGrey)
}

// hexToRGB parses #rgb or #rrggbb. Like parseInt, it keeps the leading run
// of hex digits and fails only when there is none.
func hexToRGB(hex string) (rgb, bool) {
	trimmed := strings.TrimSpace(hex)
	if !strings.HasPrefix(trimmed, "#") {
		return rgb{}, false
	}
	digits := trimmed[1:]
	if len(digits) != 3 && len(digits) != 6 {
		return rgb{}, false
	}
	if len(digits) == 3 {
		var b strings.Builder
		for i := 0; i < 3; i++ {
			b.WriteByte(digits[i])
			b.WriteByte(digits[i])
		}
		digits = b.String()
	}

	var value int
	parsed := 0
	for ; parsed < len(digits); parsed++ {
		d, ok := hexDigit(digits[parsed])
		if !ok {
			break
		}
		value = value<<4 | d
	}
	if parsed == 0 {
		return rgb{}, false
	}
	return rgb{r: value >> 16 & 0xff, g: value >> 8 & 0xff, b: value & 0xff}, true
}

func hexDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

func rgbToHSV(c rgb) HSV {
	rn := float64(c.r) / 255
	gn := float64(c.g) / 255
	bn := float64(c.b) / 255
	hi := math.Max(rn, math.Max(gn, bn))
	lo := math.Min(rn, math.Min(gn, bn))
	delta := hi - lo

	var h float64
	if delta != 0 {
		switch hi {
		case rn:
			h = math.Mod((gn-bn)/delta, 6)
		case gn:
			h = (bn-rn)/delta + 2
		default:
			h = (rn-gn)/delta + 4
		}
		h *= 60
		if h < 0 {
			h += 360
		}
	}

	var s float64
	if hi != 0 {
		s = delta / hi
	}
	return HSV{Hue: normalizeHue(h), Sat: clamp01(s), Val: clamp01(hi)}
}

func normalizeHue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	h := math.Mod(v, 360)
	if h < 0 {
		h += 360
	}
	if h == 0 {
		return 0
	}
	return h
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}
