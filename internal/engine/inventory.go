package engine

import "math"

type Color string

const (
	ColorRed   Color = "red"
	ColorBlue  Color = "blue"
	ColorBlack Color = "black" // neutral, never tracked by the ledger
)

type Kind string

const (
	KindWalkway1   Kind = "walkway-1"
	KindWalkway2   Kind = "walkway-2"
	KindWalkway3   Kind = "walkway-3"
	KindHintCorner Kind = "hint-corner"
	KindHintT      Kind = "hint-t"
	KindHintX      Kind = "hint-x"
)

var (
	Kinds         = []Kind{KindWalkway1, KindWalkway2, KindWalkway3, KindHintCorner, KindHintT, KindHintX}
	TrackedColors = []Color{ColorRed, ColorBlue}
)

type Counts map[Kind]int

// Inventory always holds every tracked color and every kind.
type Inventory map[Color]Counts

// RawInventory is unchecked client input. Missing entries and NaN mean
// "not a number".
type RawInventory map[string]map[string]float64

func NewEmptyInventory() Inventory {
	inv := make(Inventory, len(TrackedColors))
	for _, c := range TrackedColors {
		counts := make(Counts, len(Kinds))
		for _, k := range Kinds {
			counts[k] = 0
		}
		inv[c] = counts
	}
	return inv
}

// SanitizeInventory builds a complete inventory from raw input. Negative,
// non-finite and missing values become 0, the rest are floored. Unknown
// colors and kinds are dropped.
func SanitizeInventory(raw RawInventory) Inventory {
	inv := NewEmptyInventory()
	for _, c := range TrackedColors {
		values := raw[string(c)]
		for _, k := range Kinds {
			v, ok := values[string(k)]
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				continue
			}
			inv[c][k] = int(math.Floor(v))
		}
	}
	return inv
}

func (inv Inventory) Clone() Inventory {
	out := NewEmptyInventory()
	for _, c := range TrackedColors {
		for _, k := range Kinds {
			out[c][k] = inv[c][k]
		}
	}
	return out
}

func (c Counts) Total() int {
	sum := 0
	for _, k := range Kinds {
		sum += c[k]
	}
	return sum
}

func (inv Inventory) Total() int {
	sum := 0
	for _, c := range TrackedColors {
		sum += inv[c].Total()
	}
	return sum
}

func isTracked(c Color) bool {
	return c == ColorRed || c == ColorBlue
}

// Consume draws one piece of the tile's kind for color. Exactly one piece is
// taken per placement, whatever the size of the shape. Nothing changes when
// the count is already exhausted.
func (s *State) Consume(t TileType, color Color) error {
	if !t.ConsumesInventory || !s.InventoryEnabled || !isTracked(color) {
		return nil
	}
	if s.Inventory[color][t.InventoryKey] <= 0 {
		return ErrInventoryExhausted
	}
	s.Inventory[color][t.InventoryKey]--
	return nil
}

// ResetInventory replaces every count wholesale from raw input.
func (s *State) ResetInventory(raw RawInventory, enabled bool) {
	s.Inventory = SanitizeInventory(raw)
	s.InventoryEnabled = enabled
}

// Exhausted reports the end of an inventory-limited game: no pieces left on
// either side.
func (s State) Exhausted() bool {
	return s.InventoryEnabled && s.Inventory.Total() == 0
}
