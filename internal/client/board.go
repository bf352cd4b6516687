package client

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/tactile-board-backend/internal/engine"
)

var ErrNothingToUndo = errors.New("nothing to undo")

const defaultTile = "score-1"

type undoEntry struct {
	cells            []engine.Cell // what the footprint held before the placement
	inventory        engine.Inventory
	inventoryEnabled bool
}

// Board is a client's local mirror of a room. It runs the placement and
// inventory checks before anything is sent; the server relays whatever it
// receives.
type Board struct {
	State    engine.State
	Selected string
	Rotation int
	Color    engine.Color

	history []undoEntry
}

func NewBoard() *Board {
	return &Board{
		State:    engine.NewEmptyState(),
		Selected: defaultTile,
		Color:    engine.ColorBlack,
	}
}

func (b *Board) Select(tileID string) error {
	if _, ok := engine.Lookup(tileID); !ok {
		return fmt.Errorf("%w: %q", engine.ErrUnknownTile, tileID)
	}
	b.Selected = tileID
	return nil
}

func (b *Board) SetColor(c engine.Color) { b.Color = c }

// Rotate turns the selection by delta degrees and returns the new angle.
func (b *Board) Rotate(delta int) int {
	b.Rotation = engine.NormalizeRotation(float64(b.Rotation + delta))
	return b.Rotation
}

// Place anchors the selected tile at (row, col). On success the local board
// is updated and the returned command is ready to send. Nothing changes when
// the tile does not fit or the color has no pieces left.
func (b *Board) Place(row, col int) (engine.Command, error) {
	tile, ok := engine.Lookup(b.Selected)
	if !ok {
		return engine.Command{}, fmt.Errorf("%w: %q", engine.ErrUnknownTile, b.Selected)
	}
	if !engine.CanPlace(tile, row, col, b.Rotation) {
		return engine.Command{}, engine.ErrOutOfBounds
	}

	entry := undoEntry{
		inventory:        b.State.Inventory.Clone(),
		inventoryEnabled: b.State.InventoryEnabled,
	}
	if err := b.State.Consume(tile, b.Color); err != nil {
		return engine.Command{}, fmt.Errorf("%s %s: %w", b.Color, tile.InventoryKey, err)
	}

	color := b.Color
	if tile.ID == engine.TileEmpty {
		color = engine.ColorBlack
	}
	footprint := engine.Footprint(tile, row, col, b.Rotation)
	cells := make([]engine.Cell, len(footprint))
	for i, p := range footprint {
		prev, _ := b.State.CellAt(p.Row, p.Col)
		entry.cells = append(entry.cells, prev)
		cells[i] = engine.Cell{Row: p.Row, Col: p.Col, TileID: tile.ID, Color: color, Rotation: b.Rotation}
	}
	b.State.SetCells(cells)
	b.history = append(b.history, entry)

	return b.mutation(engine.CmdPlaceTile, cells), nil
}

// Undo reverts the latest local placement, cells and inventory together.
func (b *Board) Undo() (engine.Command, error) {
	if len(b.history) == 0 {
		return engine.Command{}, ErrNothingToUndo
	}
	entry := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]

	b.State.SetCells(entry.cells)
	b.State.Inventory = entry.inventory
	b.State.InventoryEnabled = entry.inventoryEnabled

	return b.mutation(engine.CmdUndoAction, entry.cells), nil
}

func (b *Board) CanUndo() bool { return len(b.history) > 0 }

// StartGame turns on inventory-limited play with the given counts.
func (b *Board) StartGame(raw engine.RawInventory) engine.Command {
	b.State.ResetInventory(raw, true)
	enabled := true
	return engine.Command{
		Type:             engine.CmdInventoryUpdate,
		Inventory:        b.State.Inventory.Clone(),
		InventoryEnabled: &enabled,
	}
}

func (b *Board) ResetGrid() engine.Command {
	b.State.Grid = engine.NewGrid()
	b.history = nil
	return engine.Command{Type: engine.CmdResetGrid}
}

// Restart clears the board, the inventory and the local selection.
func (b *Board) Restart() engine.Command {
	b.State = engine.NewEmptyState()
	b.Selected = defaultTile
	b.Rotation = 0
	b.Color = engine.ColorBlack
	b.history = nil
	disabled := false
	return engine.Command{
		Type:             engine.CmdRestartGame,
		Inventory:        b.State.Inventory.Clone(),
		InventoryEnabled: &disabled,
	}
}

// GameOver reports that every piece of an inventory-limited game is placed.
func (b *Board) GameOver() bool { return b.State.Exhausted() }

// Apply folds a server event into the mirror.
func (b *Board) Apply(ev engine.Event) {
	switch ev.Type {
	case engine.EvtRoomState:
		b.State = engine.State{Grid: ev.Grid, Inventory: ev.Inventory, InventoryEnabled: ev.InventoryEnabled}.Clone()
		b.history = nil
	case engine.EvtTilePlaced, engine.EvtActionUndone:
		b.State.SetCells(ev.Cells)
		b.setInventory(ev)
	case engine.EvtGridReset:
		b.State.Grid = engine.NewGrid()
	case engine.EvtGameRestarted, engine.EvtInventoryUpdated:
		if ev.Type == engine.EvtGameRestarted {
			b.State.Grid = engine.NewGrid()
			b.history = nil
		}
		b.setInventory(ev)
	}
}

func (b *Board) setInventory(ev engine.Event) {
	if ev.Inventory == nil {
		return
	}
	b.State.Inventory = ev.Inventory.Clone()
	b.State.InventoryEnabled = ev.InventoryEnabled
}

func (b *Board) mutation(t engine.CommandType, cells []engine.Cell) engine.Command {
	enabled := b.State.InventoryEnabled
	return engine.Command{
		Type:             t,
		Cells:            append([]engine.Cell(nil), cells...),
		Inventory:        b.State.Inventory.Clone(),
		InventoryEnabled: &enabled,
	}
}
