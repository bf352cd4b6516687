package engine

import "errors"

var ErrUnsupportedCommand = errors.New("unsupported command")
var ErrMissingInventoryFlag = errors.New("inventory flag must be a boolean")
var ErrInventoryExhausted = errors.New("inventory exhausted")
var ErrOutOfBounds = errors.New("tile does not fit on the grid")
var ErrUnknownTile = errors.New("unknown tile")

type CommandType string

const (
	CmdPlaceTile       CommandType = "placeTile"
	CmdUndoAction      CommandType = "undoAction"
	CmdResetGrid       CommandType = "resetGrid"
	CmdRestartGame     CommandType = "restartGame"
	CmdInventoryUpdate CommandType = "inventoryUpdate"
)

/*
	CmdPlaceTile       -> EvtTilePlaced       (others)
	CmdUndoAction      -> EvtActionUndone     (others)
	CmdResetGrid       -> EvtGridReset        (others)
	CmdRestartGame     -> EvtGameRestarted    (others)
	CmdInventoryUpdate -> EvtInventoryUpdated (others)

	EvtRoomState and EvtRoomOccupancy come from room membership, not from Apply.
*/

// Command is an already decoded client mutation. Cells carry coerced values
// but are not bounds checked yet; Inventory is already sanitized and nil
// when the client sent none.
type Command struct {
	Type             CommandType
	Cells            []Cell
	Inventory        Inventory
	InventoryEnabled *bool
}

type EventType string

const (
	EvtRoomState        EventType = "roomState"
	EvtTilePlaced       EventType = "tilePlaced"
	EvtGridReset        EventType = "gridReset"
	EvtGameRestarted    EventType = "gameRestarted"
	EvtInventoryUpdated EventType = "inventoryUpdated"
	EvtActionUndone     EventType = "actionUndone"
	EvtRoomOccupancy    EventType = "roomOccupancy"
)

type Audience int

const (
	AudienceOthers Audience = iota // everyone in the room but the sender
	AudienceSender
	AudienceAll
)

type Event struct {
	Type             EventType
	Audience         Audience
	Grid             []Cell
	Cells            []Cell
	Inventory        Inventory
	InventoryEnabled bool
	RoomID           string
	Count            int
}

// Apply runs one command against s and returns the events to fan out along
// with the next state. s itself is never modified. The server trusts the
// client: no shape or inventory checks happen here.
func Apply(s State, cmd Command) ([]Event, State, error) {
	newState := s.Clone()

	switch cmd.Type {
	case CmdPlaceTile, CmdUndoAction:
		applied := newState.SetCells(cmd.Cells)
		if cmd.Inventory != nil && cmd.InventoryEnabled != nil {
			newState.Inventory = cmd.Inventory.Clone()
			newState.InventoryEnabled = *cmd.InventoryEnabled
		}
		evt := EvtTilePlaced
		if cmd.Type == CmdUndoAction {
			evt = EvtActionUndone
		}
		return []Event{{
			Type:             evt,
			Audience:         AudienceOthers,
			Cells:            applied,
			Inventory:        newState.Inventory.Clone(),
			InventoryEnabled: newState.InventoryEnabled,
		}}, newState, nil

	case CmdResetGrid:
		newState.Grid = NewGrid()
		return []Event{{Type: EvtGridReset, Audience: AudienceOthers}}, newState, nil

	case CmdRestartGame:
		newState.Grid = NewGrid()
		newState.Inventory = inventoryOrEmpty(cmd.Inventory)
		newState.InventoryEnabled = cmd.InventoryEnabled != nil && *cmd.InventoryEnabled
		return []Event{inventoryEvent(EvtGameRestarted, newState)}, newState, nil

	case CmdInventoryUpdate:
		if cmd.InventoryEnabled == nil {
			return nil, s, ErrMissingInventoryFlag
		}
		newState.Inventory = inventoryOrEmpty(cmd.Inventory)
		newState.InventoryEnabled = *cmd.InventoryEnabled
		return []Event{inventoryEvent(EvtInventoryUpdated, newState)}, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// Snapshot is the full room state sent to a joining client.
func Snapshot(s State) Event {
	c := s.Clone()
	return Event{
		Type:             EvtRoomState,
		Audience:         AudienceSender,
		Grid:             c.Grid,
		Inventory:        c.Inventory,
		InventoryEnabled: c.InventoryEnabled,
	}
}

func Occupancy(roomID string, count int) Event {
	return Event{Type: EvtRoomOccupancy, Audience: AudienceAll, RoomID: roomID, Count: count}
}

func inventoryEvent(t EventType, s State) Event {
	return Event{
		Type:             t,
		Audience:         AudienceOthers,
		Inventory:        s.Inventory.Clone(),
		InventoryEnabled: s.InventoryEnabled,
	}
}

func inventoryOrEmpty(inv Inventory) Inventory {
	if inv == nil {
		return NewEmptyInventory()
	}
	return inv.Clone()
}
