package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/DoyleJ11/tactile-board-backend/internal/engine"
	wire "github.com/DoyleJ11/tactile-board-backend/pkg/types"
)

// Request is a decoded client frame. Cmd is zero for joinRoom.
type Request struct {
	Type   string
	RoomID string
	Cmd    engine.Command
}

func NormalizeRoomID(id string) string {
	return strings.TrimSpace(id)
}

// DecodeClientMessage turns a raw frame into a Request. ok is false for
// anything the server should silently ignore: bad JSON, unknown types, a
// missing or blank room id, a cell batch that is not a list, or an
// inventoryUpdate without a boolean flag.
func DecodeClientMessage(data []byte) (req Request, ok bool) {
	var cm wire.ClientMessage
	if err := json.Unmarshal(data, &cm); err != nil {
		return Request{}, false
	}

	var roomID string
	if err := json.Unmarshal(cm.RoomID, &roomID); err != nil {
		return Request{}, false
	}
	roomID = NormalizeRoomID(roomID)
	if roomID == "" {
		return Request{}, false
	}
	req = Request{Type: cm.Type, RoomID: roomID}

	switch cm.Type {
	case wire.MsgJoinRoom:
		return req, true

	case wire.MsgPlaceTile, wire.MsgUndoAction:
		cells, ok := decodeCells(cm.Cells)
		if !ok {
			return Request{}, false
		}
		req.Cmd = engine.Command{
			Type:             engine.CmdPlaceTile,
			Cells:            cells,
			Inventory:        decodeInventory(cm.Inventory),
			InventoryEnabled: decodeBool(cm.InventoryEnabled),
		}
		if cm.Type == wire.MsgUndoAction {
			req.Cmd.Type = engine.CmdUndoAction
		}
		return req, true

	case wire.MsgResetGrid:
		req.Cmd = engine.Command{Type: engine.CmdResetGrid}
		return req, true

	case wire.MsgRestartGame:
		req.Cmd = engine.Command{
			Type:             engine.CmdRestartGame,
			Inventory:        decodeInventory(cm.Inventory),
			InventoryEnabled: decodeBool(cm.InventoryEnabled),
		}
		return req, true

	case wire.MsgInventoryUpdate:
		enabled := decodeBool(cm.InventoryEnabled)
		if enabled == nil {
			return Request{}, false
		}
		req.Cmd = engine.Command{
			Type:             engine.CmdInventoryUpdate,
			Inventory:        decodeInventory(cm.Inventory),
			InventoryEnabled: enabled,
		}
		return req, true

	default:
		return Request{}, false
	}
}

func decodeCells(raw json.RawMessage) ([]engine.Cell, bool) {
	var entries []json.RawMessage
	if isAbsent(raw) || json.Unmarshal(raw, &entries) != nil {
		return nil, false
	}
	cells := make([]engine.Cell, 0, len(entries))
	for _, e := range entries {
		if c, ok := decodeCell(e); ok {
			cells = append(cells, c)
		}
	}
	return cells, true
}

// decodeCell coerces one entry. Row and col must be integers; the other
// fields fall back to the default cell values. Bounds are checked by the
// engine.
func decodeCell(raw json.RawMessage) (engine.Cell, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return engine.Cell{}, false
	}
	row, ok := integer(fields["row"])
	if !ok {
		return engine.Cell{}, false
	}
	col, ok := integer(fields["col"])
	if !ok {
		return engine.Cell{}, false
	}

	c := engine.DefaultCell(row, col)
	var s string
	if json.Unmarshal(fields["tileId"], &s) == nil && isString(fields["tileId"]) {
		c.TileID = s
	}
	if json.Unmarshal(fields["color"], &s) == nil && isString(fields["color"]) {
		c.Color = engine.Color(s)
	}
	if deg, ok := numeric(fields["rotation"]); ok {
		c.Rotation = engine.NormalizeRotation(deg)
	}
	return c, true
}

func decodeInventory(raw json.RawMessage) engine.Inventory {
	if isAbsent(raw) {
		return nil
	}
	values := engine.RawInventory{}
	var byColor map[string]json.RawMessage
	if json.Unmarshal(raw, &byColor) == nil {
		for color, body := range byColor {
			var byKind map[string]json.RawMessage
			if json.Unmarshal(body, &byKind) != nil {
				continue
			}
			counts := make(map[string]float64, len(byKind))
			for kind, v := range byKind {
				if f, ok := numeric(v); ok {
					counts[kind] = f
				}
			}
			values[color] = counts
		}
	}
	return engine.SanitizeInventory(values)
}

func decodeBool(raw json.RawMessage) *bool {
	var b bool
	switch string(bytes.TrimSpace(raw)) {
	case "true":
		b = true
	case "false":
	default:
		return nil
	}
	return &b
}

// numeric accepts JSON numbers and numeric strings.
func numeric(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	switch {
	case raw[0] == '"':
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		var f float64
		if json.Unmarshal(raw, &f) != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func integer(raw json.RawMessage) (int, bool) {
	f, ok := numeric(raw)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<30 {
		return 0, false
	}
	return int(f), true
}

func isString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '"'
}

func isAbsent(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false":
		return true
	}
	return false
}
