package matrix

import "github.com/gokatarajesh/iqtest/internal/prng"

const mutationSalt = 12345

// Mutable attributes, in draw order.
const (
	AttrShape       = "shape"
	AttrRotation    = "rotation"
	AttrScale       = "scale"
	AttrInvert      = "invert"
	AttrAccent      = "accent"
	AttrFill        = "fill"
	AttrAccentColor = "accentColor"
	AttrStroke      = "stroke"
)

var mutableAttrs = []string{
	AttrShape, AttrRotation, AttrScale, AttrInvert,
	AttrAccent, AttrFill, AttrAccentColor, AttrStroke,
}

// MutateCell returns a copy of cell with exactly one attribute moved to a
// different value. The input is left untouched.
func MutateCell(cell Cell, variantSeed uint32) Cell {
	out, _ := mutate(cell, variantSeed)
	return out
}

// mutate also reports which attribute changed.
func mutate(cell Cell, variantSeed uint32) (Cell, string) {
	rand := prng.NewStream(variantSeed + mutationSalt)
	out := cell
	if cell.Stripe != nil {
		stripe := *cell.Stripe
		out.Stripe = &stripe
	}

	attr := mutableAttrs[draw(rand, len(mutableAttrs))]
	switch attr {
	case AttrShape:
		out.Shape = rotateAway(Shapes, indexOf(Shapes, cell.Shape), rand)
	case AttrRotation:
		others := make([]int, 0, len(Rotations))
		for _, angle := range Rotations {
			if angle != cell.Rotation {
				others = append(others, angle)
			}
		}
		out.Rotation = others[draw(rand, len(others))]
	case AttrScale:
		delta := (rand.Float64() - 0.5) * 0.3
		next := round2(clamp(cell.Scale+delta, 0.4, 0.95))
		if next == cell.Scale {
			if cell.Scale+0.05 <= 0.95 {
				next = round2(cell.Scale + 0.05)
			} else {
				next = round2(cell.Scale - 0.05)
			}
		}
		out.Scale = next
	case AttrInvert:
		out.Invert = !cell.Invert
	case AttrAccent:
		out.Accent.Shape = rotateAway(Accents, indexOf(Accents, cell.Accent.Shape), rand)
	case AttrFill:
		out.Fill = rotateAway(Colors, indexOf(Colors, cell.Fill), rand)
	case AttrAccentColor:
		out.AccentColor = rotateAway(Colors, indexOf(Colors, cell.AccentColor), rand)
	case AttrStroke:
		out.Stroke = !cell.Stroke
	}
	return out, attr
}

// rotateAway steps 1..len-1 places from current, so the result always
// differs from items[current].
func rotateAway(items []string, current int, src prng.Source) string {
	n := int64(len(items))
	step := 1 + draw(src, len(items)-1)
	return items[((int64(current)+step)%n+n)%n]
}
