package engine

type Category string

const (
	CategoryBasic   Category = "basic"
	CategoryScore   Category = "score"
	CategoryWalkway Category = "walkway"
	CategoryHint    Category = "hint"
)

// Offset is a (dx, dy) displacement from a tile's anchor: dx moves along
// columns, dy along rows.
type Offset struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

type TileType struct {
	ID                string
	Name              string
	Label             string
	Shape             []Offset // always contains {0, 0}
	Category          Category
	ConsumesInventory bool
	InventoryKey      Kind // set only when ConsumesInventory
}

const TileEmpty = "empty"

var categories = []Category{CategoryBasic, CategoryScore, CategoryWalkway, CategoryHint}

var catalog = []TileType{
	// Basic tools
	{ID: TileEmpty, Name: "Clear", Label: "CLR", Shape: []Offset{{0, 0}}, Category: CategoryBasic},
	{ID: "obstacle", Name: "Obstacle", Label: "OBS", Shape: []Offset{{0, 0}}, Category: CategoryBasic},
	{ID: "walkway-basic", Name: "Basic walkway (1 cell)", Label: "+W", Shape: []Offset{{0, 0}}, Category: CategoryBasic},
	{ID: "hint-basic", Name: "Basic hint (1 cell)", Label: "+H", Shape: []Offset{{0, 0}}, Category: CategoryBasic},
	// Score blocks
	{ID: "score-1", Name: "1 point block (4 cells)", Label: "1P", Shape: []Offset{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, Category: CategoryScore},
	{ID: "score-2", Name: "2 point block (2 cells)", Label: "2P", Shape: []Offset{{0, 0}, {1, 0}}, Category: CategoryScore},
	{ID: "score-3", Name: "3 point block (2 cells)", Label: "3P", Shape: []Offset{{0, 0}, {1, 0}}, Category: CategoryScore},
	{ID: "score-4", Name: "4 point block (1 cell)", Label: "4P", Shape: []Offset{{0, 0}}, Category: CategoryScore},
	{ID: "score-5", Name: "5 point block (1 cell)", Label: "5P", Shape: []Offset{{0, 0}}, Category: CategoryScore},
	// Walkway strips
	{ID: "walkway-1", Name: "Walkway (1 cell)", Label: "W1", Shape: []Offset{{0, 0}}, Category: CategoryWalkway, ConsumesInventory: true, InventoryKey: KindWalkway1},
	{ID: "walkway-2", Name: "Walkway (2 cells)", Label: "W2", Shape: []Offset{{0, 0}, {1, 0}}, Category: CategoryWalkway, ConsumesInventory: true, InventoryKey: KindWalkway2},
	{ID: "walkway-3", Name: "Walkway (3 cells)", Label: "W3", Shape: []Offset{{0, 0}, {1, 0}, {2, 0}}, Category: CategoryWalkway, ConsumesInventory: true, InventoryKey: KindWalkway3},
	// Hint pieces
	{ID: "hint-corner", Name: "Hint corner (3 cells)", Label: "L", Shape: []Offset{{0, 0}, {1, 0}, {0, 1}}, Category: CategoryHint, ConsumesInventory: true, InventoryKey: KindHintCorner},
	{ID: "hint-t", Name: "Hint T (4 cells)", Label: "T", Shape: []Offset{{0, 0}, {-1, 0}, {1, 0}, {0, 1}}, Category: CategoryHint, ConsumesInventory: true, InventoryKey: KindHintT},
	{ID: "hint-x", Name: "Hint X (5 cells)", Label: "X", Shape: []Offset{{0, 0}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}}, Category: CategoryHint, ConsumesInventory: true, InventoryKey: KindHintX},
}

// Lookup finds a tile by id. The returned shape is a private copy.
func Lookup(id string) (TileType, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t.clone(), true
		}
	}
	return TileType{}, false
}

// Tiles returns the whole catalog in palette order.
func Tiles() []TileType {
	out := make([]TileType, len(catalog))
	for i, t := range catalog {
		out[i] = t.clone()
	}
	return out
}

func Categories() []Category {
	return append([]Category(nil), categories...)
}

func (t TileType) clone() TileType {
	t.Shape = append([]Offset(nil), t.Shape...)
	return t
}
