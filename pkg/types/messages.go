package types

import "encoding/json"

// Client -> Server
// joinRoom:        roomId
// placeTile:       roomId, cells[], inventory?, inventoryEnabled?
// resetGrid:       roomId
// restartGame:     roomId, inventory?, inventoryEnabled?
// inventoryUpdate: roomId, inventory, inventoryEnabled
// undoAction:      roomId, cells[], inventory?, inventoryEnabled?
//
// Every field except type is kept raw: the server coerces values one by one
// and drops what it cannot use instead of rejecting the whole frame.

const (
	MsgJoinRoom        = "joinRoom"
	MsgPlaceTile       = "placeTile"
	MsgResetGrid       = "resetGrid"
	MsgRestartGame     = "restartGame"
	MsgInventoryUpdate = "inventoryUpdate"
	MsgUndoAction      = "undoAction"
)

type ClientMessage struct {
	Type             string          `json:"type" jsonschema:"required,enum=joinRoom,enum=placeTile,enum=resetGrid,enum=restartGame,enum=inventoryUpdate,enum=undoAction"`
	RoomID           json.RawMessage `json:"roomId,omitempty"`
	Cells            json.RawMessage `json:"cells,omitempty"`
	Inventory        json.RawMessage `json:"inventory,omitempty"`
	InventoryEnabled json.RawMessage `json:"inventoryEnabled,omitempty"`
}

// Server -> Client
// roomState:        grid[], inventory, inventoryEnabled (join response only)
// tilePlaced:       cells[], inventory, inventoryEnabled
// gridReset:        {}
// gameRestarted:    inventory, inventoryEnabled
// inventoryUpdated: inventory, inventoryEnabled
// actionUndone:     cells[], inventory, inventoryEnabled
// roomOccupancy:    roomId, count

const (
	MsgRoomState        = "roomState"
	MsgTilePlaced       = "tilePlaced"
	MsgGridReset        = "gridReset"
	MsgGameRestarted    = "gameRestarted"
	MsgInventoryUpdated = "inventoryUpdated"
	MsgActionUndone     = "actionUndone"
	MsgRoomOccupancy    = "roomOccupancy"
)

type ServerMessage struct {
	Type             string    `json:"type" jsonschema:"required,enum=roomState,enum=tilePlaced,enum=gridReset,enum=gameRestarted,enum=inventoryUpdated,enum=actionUndone,enum=roomOccupancy"`
	Grid             []Cell    `json:"grid,omitempty"`
	Cells            *[]Cell   `json:"cells,omitempty"` // set, possibly empty, on tilePlaced and actionUndone
	Inventory        Inventory `json:"inventory,omitempty"`
	InventoryEnabled *bool     `json:"inventoryEnabled,omitempty"`
	RoomID           string    `json:"roomId,omitempty"`
	Count            *int      `json:"count,omitempty"`
}
