package engine

const (
	Rows     = 28
	Cols     = 42
	GridSize = Rows * Cols
)

type Cell struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	TileID   string `json:"tileId"`
	Color    Color  `json:"color"`
	Rotation int    `json:"rotation"`
}

type State struct {
	Grid             []Cell
	Inventory        Inventory
	InventoryEnabled bool
}

func DefaultCell(row, col int) Cell {
	return Cell{Row: row, Col: col, TileID: TileEmpty, Color: ColorBlack, Rotation: 0}
}

func NewGrid() []Cell {
	grid := make([]Cell, 0, GridSize)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			grid = append(grid, DefaultCell(row, col))
		}
	}
	return grid
}

func NewEmptyState() State {
	return State{
		Grid:      NewGrid(),
		Inventory: NewEmptyInventory(),
	}
}

// Clone deep-copies the grid and the inventory. A grid of the wrong size is
// replaced by a default one.
func (s State) Clone() State {
	if len(s.Grid) != GridSize {
		s.Grid = NewGrid()
	}
	grid := make([]Cell, len(s.Grid))
	copy(grid, s.Grid)
	return State{
		Grid:             grid,
		Inventory:        s.Inventory.Clone(),
		InventoryEnabled: s.InventoryEnabled,
	}
}

func InBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

func Index(row, col int) int {
	return row*Cols + col
}

// CellAt returns the cell at (row, col); ok is false off the grid.
func (s State) CellAt(row, col int) (Cell, bool) {
	if !InBounds(row, col) || len(s.Grid) != GridSize {
		return Cell{}, false
	}
	return s.Grid[Index(row, col)], true
}

// SetCells overwrites every in-bounds cell and returns the cells written.
// Out-of-bounds entries are skipped; the rest of the batch still applies.
func (s *State) SetCells(cells []Cell) []Cell {
	applied := make([]Cell, 0, len(cells))
	for _, c := range cells {
		if !InBounds(c.Row, c.Col) {
			continue
		}
		s.Grid[Index(c.Row, c.Col)] = c
		applied = append(applied, c)
	}
	return applied
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
