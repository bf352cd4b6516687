package types

import (
	"encoding/json"

	"github.com/DoyleJ11/tactile-board-backend/internal/engine"
	wire "github.com/DoyleJ11/tactile-board-backend/pkg/types"
)

func ToServerMessage(ev engine.Event) wire.ServerMessage {
	msg := wire.ServerMessage{Type: string(ev.Type)}
	switch ev.Type {
	case engine.EvtRoomState:
		msg.Grid = toWireCells(ev.Grid)
		msg.Inventory = WireInventory(ev.Inventory)
		msg.InventoryEnabled = &ev.InventoryEnabled
	case engine.EvtTilePlaced, engine.EvtActionUndone:
		cells := toWireCells(ev.Cells)
		msg.Cells = &cells
		msg.Inventory = WireInventory(ev.Inventory)
		msg.InventoryEnabled = &ev.InventoryEnabled
	case engine.EvtGameRestarted, engine.EvtInventoryUpdated:
		msg.Inventory = WireInventory(ev.Inventory)
		msg.InventoryEnabled = &ev.InventoryEnabled
	case engine.EvtRoomOccupancy:
		msg.RoomID = ev.RoomID
		msg.Count = &ev.Count
	}
	return msg
}

func EncodeEvent(ev engine.Event) ([]byte, error) {
	return json.Marshal(ToServerMessage(ev))
}

// FromServerMessage is the client-side inverse of ToServerMessage.
func FromServerMessage(msg wire.ServerMessage) engine.Event {
	ev := engine.Event{
		Type:      engine.EventType(msg.Type),
		Grid:      fromWireCells(msg.Grid),
		Inventory: fromWireInventory(msg.Inventory),
		RoomID:    msg.RoomID,
	}
	if msg.Cells != nil {
		ev.Cells = fromWireCells(*msg.Cells)
	}
	if msg.InventoryEnabled != nil {
		ev.InventoryEnabled = *msg.InventoryEnabled
	}
	if msg.Count != nil {
		ev.Count = *msg.Count
	}
	return ev
}

func DecodeServerMessage(data []byte) (engine.Event, error) {
	var msg wire.ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return engine.Event{}, err
	}
	return FromServerMessage(msg), nil
}

func EncodeJoin(roomID string) ([]byte, error) {
	id, err := json.Marshal(roomID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire.ClientMessage{Type: wire.MsgJoinRoom, RoomID: id})
}

// EncodeCommand builds the client frame for cmd. Command type names double
// as wire message names.
func EncodeCommand(roomID string, cmd engine.Command) ([]byte, error) {
	cm := wire.ClientMessage{Type: string(cmd.Type)}

	var err error
	if cm.RoomID, err = json.Marshal(roomID); err != nil {
		return nil, err
	}
	if cmd.Type == engine.CmdPlaceTile || cmd.Type == engine.CmdUndoAction {
		if cm.Cells, err = json.Marshal(toWireCells(cmd.Cells)); err != nil {
			return nil, err
		}
	}
	if cmd.Inventory != nil {
		if cm.Inventory, err = json.Marshal(WireInventory(cmd.Inventory)); err != nil {
			return nil, err
		}
	}
	if cmd.InventoryEnabled != nil {
		if cm.InventoryEnabled, err = json.Marshal(*cmd.InventoryEnabled); err != nil {
			return nil, err
		}
	}
	return json.Marshal(cm)
}

// toWireCells never returns nil so an empty batch still encodes as [].
func toWireCells(cells []engine.Cell) []wire.Cell {
	out := make([]wire.Cell, len(cells))
	for i, c := range cells {
		out[i] = wire.Cell{Row: c.Row, Col: c.Col, TileID: c.TileID, Color: string(c.Color), Rotation: c.Rotation}
	}
	return out
}

func fromWireCells(cells []wire.Cell) []engine.Cell {
	if cells == nil {
		return nil
	}
	out := make([]engine.Cell, len(cells))
	for i, c := range cells {
		out[i] = engine.Cell{Row: c.Row, Col: c.Col, TileID: c.TileID, Color: engine.Color(c.Color), Rotation: c.Rotation}
	}
	return out
}

// WireInventory renders inv with every tracked color and kind present.
func WireInventory(inv engine.Inventory) wire.Inventory {
	if inv == nil {
		inv = engine.NewEmptyInventory()
	}
	out := make(wire.Inventory, len(engine.TrackedColors))
	for _, c := range engine.TrackedColors {
		counts := make(map[string]int, len(engine.Kinds))
		for _, k := range engine.Kinds {
			counts[string(k)] = inv[c][k]
		}
		out[string(c)] = counts
	}
	return out
}

func fromWireInventory(inv wire.Inventory) engine.Inventory {
	if inv == nil {
		return nil
	}
	raw := make(engine.RawInventory, len(inv))
	for color, counts := range inv {
		m := make(map[string]float64, len(counts))
		for kind, n := range counts {
			m[kind] = float64(n)
		}
		raw[color] = m
	}
	return engine.SanitizeInventory(raw)
}
