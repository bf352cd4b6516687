package engine

import "math"

// Rotate turns every offset clockwise by deg degrees. deg is normalized with
// NormalizeRotation first, so only quarter turns ever happen.
func Rotate(offsets []Offset, deg int) []Offset {
	r := NormalizeRotation(float64(deg))
	out := make([]Offset, len(offsets))
	for i, o := range offsets {
		switch r {
		case 90:
			out[i] = Offset{DX: o.DY, DY: -o.DX}
		case 180:
			out[i] = Offset{DX: -o.DX, DY: -o.DY}
		case 270:
			out[i] = Offset{DX: -o.DY, DY: o.DX}
		default:
			out[i] = o
		}
	}
	return out
}

// NormalizeRotation folds any angle into [0, 360) and snaps it to the nearest
// quarter turn. Non-finite input yields 0.
func NormalizeRotation(deg float64) int {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	n := math.Mod(deg, 360)
	if n < 0 {
		n += 360
	}
	return int(math.Round(n/90)) * 90 % 360
}
