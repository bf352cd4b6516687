package types

// Cell:
//
//	row: 0..27
//	col: 0..41
//	tileId: string ("empty" when cleared)
//	color: "red" | "blue" | "black"
//	rotation: 0 | 90 | 180 | 270
type Cell struct {
	Row      int    `json:"row" jsonschema:"required,minimum=0,maximum=27"`
	Col      int    `json:"col" jsonschema:"required,minimum=0,maximum=41"`
	TileID   string `json:"tileId" jsonschema:"required,description=Catalog tile id"`
	Color    string `json:"color" jsonschema:"required,enum=red,enum=blue,enum=black"`
	Rotation int    `json:"rotation" jsonschema:"required,enum=0,enum=90,enum=180,enum=270"`
}

// Inventory:
//
//	red:  { "walkway-1": n, "walkway-2": n, "walkway-3": n, "hint-corner": n, "hint-t": n, "hint-x": n }
//	blue: { same keys }
type Inventory map[string]map[string]int
