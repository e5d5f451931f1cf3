package matrix

import "math"

// DistanceThreshold is the minimum distance at which two cells count as
// visually distinct.
const DistanceThreshold = 1.5

// VisualDistance scores how different two cells look. Either side may be
// anything ToVisualFeatures accepts.
func VisualDistance(a, b any) float64 {
	return ToVisualFeatures(a).DistanceTo(ToVisualFeatures(b))
}

// DistanceTo scores f against other. The score is symmetric and zero for
// equal features.
func (f VisualFeatures) DistanceTo(other VisualFeatures) float64 {
	var d float64
	if f.Shape != other.Shape {
		d++
	}

	turn := abs(f.Rotation-other.Rotation) % 360
	switch min(turn, 360-turn) {
	case 90, 270:
		d += 0.5
	case 180:
		d += 0.75
	}

	d += ColorDistance(f.Fill, other.Fill)

	if f.Flip != other.Flip {
		d += 0.25
	}
	if f.Stroke != other.Stroke {
		d += 0.25
	}
	if abs(f.StrokeWidth-other.StrokeWidth) >= 1 {
		d += 0.25
	}
	if abs(f.CornerRadius-other.CornerRadius) >= 4 {
		d += 0.25
	}

	d += f.Accent.distanceTo(other.Accent)
	d += f.Stripe.distanceTo(other.Stripe)
	return d
}

func (a AccentFeatures) distanceTo(b AccentFeatures) float64 {
	if a.Enabled != b.Enabled {
		return 0.5
	}
	if !a.Enabled {
		return 0
	}
	var d float64
	if a.Shape != b.Shape {
		d += 0.5
	}
	if a.Position != b.Position {
		d += 0.5
	}
	if ColorDistance(a.HSV, b.HSV) > 0.3 {
		d += 0.3
	}
	return d
}

func (s StripeFeatures) distanceTo(o StripeFeatures) float64 {
	if s.Enabled != o.Enabled {
		return 0.5
	}
	if !s.Enabled {
		return 0
	}
	var d float64
	turn := abs(s.Angle-o.Angle) % 180
	if min(turn, 180-turn) >= 45 {
		d += 0.3
	}
	if math.Abs(s.Width-o.Width) >= 0.1 {
		d += 0.3
	}
	if math.Abs(s.Gap-o.Gap) >= 0.1 {
		d += 0.3
	}
	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
