package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestApply_PlaceTileSkipsOutOfBoundsEntries(t *testing.T) {
	s := NewEmptyState()
	cmd := Command{
		Type: CmdPlaceTile,
		Cells: []Cell{
			{Row: 0, Col: 0, TileID: "obstacle", Color: ColorBlack},
			{Row: -1, Col: 3, TileID: "obstacle", Color: ColorBlack},
			{Row: Rows, Col: 0, TileID: "obstacle", Color: ColorBlack},
			{Row: 2, Col: Cols, TileID: "obstacle", Color: ColorBlack},
			{Row: Rows - 1, Col: Cols - 1, TileID: "score-5", Color: ColorRed, Rotation: 90},
		},
	}

	events, next, err := Apply(s, cmd)
	require.NoError(t, err)
	require.Len(t, events, 1)

	evt := events[0]
	assert.Equal(t, EvtTilePlaced, evt.Type)
	assert.Equal(t, AudienceOthers, evt.Audience)
	assert.Len(t, evt.Cells, 2)

	c, _ := next.CellAt(0, 0)
	assert.Equal(t, "obstacle", c.TileID)
	c, _ = next.CellAt(Rows-1, Cols-1)
	assert.Equal(t, Cell{Row: Rows - 1, Col: Cols - 1, TileID: "score-5", Color: ColorRed, Rotation: 90}, c)
	assert.Len(t, next.Grid, GridSize)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	s := NewEmptyState()
	inv := NewEmptyInventory()
	inv[ColorRed][KindHintX] = 3

	_, next, err := Apply(s, Command{
		Type:             CmdPlaceTile,
		Cells:            []Cell{{Row: 1, Col: 1, TileID: "hint-x", Color: ColorRed}},
		Inventory:        inv,
		InventoryEnabled: boolPtr(true),
	})
	require.NoError(t, err)

	c, _ := s.CellAt(1, 1)
	assert.Equal(t, DefaultCell(1, 1), c)
	assert.False(t, s.InventoryEnabled)
	assert.Equal(t, 0, s.Inventory[ColorRed][KindHintX])

	assert.True(t, next.InventoryEnabled)
	assert.Equal(t, 3, next.Inventory[ColorRed][KindHintX])

	// The state keeps its own copy of the inventory.
	inv[ColorRed][KindHintX] = 99
	assert.Equal(t, 3, next.Inventory[ColorRed][KindHintX])
}

func TestApply_InventoryNeedsBothPayloadAndFlag(t *testing.T) {
	inv := NewEmptyInventory()
	inv[ColorBlue][KindWalkway2] = 4

	cases := []struct {
		name        string
		inventory   Inventory
		enabled     *bool
		wantCount   int
		wantEnabled bool
	}{
		{name: "both present", inventory: inv, enabled: boolPtr(true), wantCount: 4, wantEnabled: true},
		{name: "flag missing", inventory: inv, enabled: nil, wantCount: 0, wantEnabled: false},
		{name: "inventory missing", inventory: nil, enabled: boolPtr(true), wantCount: 0, wantEnabled: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events, next, err := Apply(NewEmptyState(), Command{
				Type:             CmdPlaceTile,
				Inventory:        tc.inventory,
				InventoryEnabled: tc.enabled,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.wantCount, next.Inventory[ColorBlue][KindWalkway2])
			assert.Equal(t, tc.wantEnabled, next.InventoryEnabled)
			assert.Equal(t, tc.wantEnabled, events[0].InventoryEnabled)
		})
	}
}

func TestApply_UndoUsesOwnEventName(t *testing.T) {
	events, _, err := Apply(NewEmptyState(), Command{
		Type:  CmdUndoAction,
		Cells: []Cell{DefaultCell(3, 4)},
	})
	require.NoError(t, err)
	assert.True(t, ContainsEvent(events, EvtActionUndone))
	assert.False(t, ContainsEvent(events, EvtTilePlaced))
}

func TestApply_LastWriteWins(t *testing.T) {
	s := NewEmptyState()
	first := Command{Type: CmdPlaceTile, Cells: []Cell{{Row: 5, Col: 5, TileID: "hint-x", Color: ColorRed}}}
	second := Command{Type: CmdPlaceTile, Cells: []Cell{{Row: 5, Col: 5, TileID: "walkway-1", Color: ColorBlue, Rotation: 270}}}

	_, s, _ = Apply(s, first)
	_, s, _ = Apply(s, second)

	c, _ := s.CellAt(5, 5)
	assert.Equal(t, "walkway-1", c.TileID)
	assert.Equal(t, ColorBlue, c.Color)
	assert.Equal(t, 270, c.Rotation)
}

func TestApply_ResetGrid(t *testing.T) {
	s := NewEmptyState()
	s.Grid[Index(2, 2)] = Cell{Row: 2, Col: 2, TileID: "obstacle", Color: ColorBlue}
	s.Inventory[ColorRed][KindHintT] = 2
	s.InventoryEnabled = true

	events, next, err := Apply(s, Command{Type: CmdResetGrid})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EvtGridReset, events[0].Type)
	assert.Equal(t, NewGrid(), next.Grid)
	// Inventory survives a grid reset.
	assert.Equal(t, 2, next.Inventory[ColorRed][KindHintT])
	assert.True(t, next.InventoryEnabled)
}

func TestApply_RestartGame(t *testing.T) {
	s := NewEmptyState()
	s.Grid[Index(7, 9)] = Cell{Row: 7, Col: 9, TileID: "hint-t", Color: ColorRed, Rotation: 180}
	s.Inventory[ColorRed][KindHintT] = 2
	s.InventoryEnabled = true

	events, next, err := Apply(s, Command{Type: CmdRestartGame})
	require.NoError(t, err)
	assert.Equal(t, NewGrid(), next.Grid)
	assert.Equal(t, NewEmptyInventory(), next.Inventory)
	assert.False(t, next.InventoryEnabled)

	require.Len(t, events, 1)
	assert.Equal(t, EvtGameRestarted, events[0].Type)
	assert.Equal(t, AudienceOthers, events[0].Audience)
	assert.Equal(t, 0, events[0].Inventory.Total())
}

func TestApply_InventoryUpdateRequiresFlag(t *testing.T) {
	s := NewEmptyState()
	_, same, err := Apply(s, Command{Type: CmdInventoryUpdate, Inventory: NewEmptyInventory()})
	if !errors.Is(err, ErrMissingInventoryFlag) {
		t.Fatalf("want ErrMissingInventoryFlag, got %v", err)
	}
	assert.False(t, same.InventoryEnabled)

	inv := NewEmptyInventory()
	inv[ColorRed][KindWalkway3] = 6
	events, next, err := Apply(s, Command{Type: CmdInventoryUpdate, Inventory: inv, InventoryEnabled: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, EvtInventoryUpdated, events[0].Type)
	assert.Equal(t, 6, next.Inventory[ColorRed][KindWalkway3])
	assert.True(t, next.InventoryEnabled)
}

func TestApply_RejectsUnknownCommand(t *testing.T) {
	_, _, err := Apply(NewEmptyState(), Command{Type: "paintCell"})
	if err == nil || !errors.Is(err, ErrUnsupportedCommand) {
		t.Fatalf("want ErrUnsupportedCommand, got %v", err)
	}
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	s := NewEmptyState()
	snap := Snapshot(s)
	require.Len(t, snap.Grid, GridSize)
	assert.False(t, snap.InventoryEnabled)
	assert.Equal(t, AudienceSender, snap.Audience)

	snap.Grid[0].TileID = "obstacle"
	snap.Inventory[ColorRed][KindHintX] = 10
	assert.Equal(t, TileEmpty, s.Grid[0].TileID)
	assert.Equal(t, 0, s.Inventory[ColorRed][KindHintX])
}

func TestDefaultGrid(t *testing.T) {
	grid := NewGrid()
	require.Len(t, grid, 1176)
	for i, c := range grid {
		if c.TileID != TileEmpty || c.Color != ColorBlack || c.Rotation != 0 {
			t.Fatalf("cell %d is not default: %+v", i, c)
		}
		if Index(c.Row, c.Col) != i {
			t.Fatalf("cell %d has coordinates (%d,%d)", i, c.Row, c.Col)
		}
	}
}
