package engine

type Point struct {
	Row int
	Col int
}

// Footprint lists the grid cells a tile covers when anchored at (row, col)
// with the given rotation. Cells may fall outside the grid.
func Footprint(t TileType, row, col, rotation int) []Point {
	offsets := Rotate(t.Shape, rotation)
	pts := make([]Point, len(offsets))
	for i, o := range offsets {
		pts[i] = Point{Row: row + o.DY, Col: col + o.DX}
	}
	return pts
}

// CanPlace reports whether every cell of the rotated shape lands on the grid.
// Occupied cells do not block placement; the new tile overwrites them.
func CanPlace(t TileType, row, col, rotation int) bool {
	for _, p := range Footprint(t, row, col, rotation) {
		if !InBounds(p.Row, p.Col) {
			return false
		}
	}
	return true
}
