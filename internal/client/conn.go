package client

import (
	"context"
	"fmt"

	"github.com/coder/websocket"

	"github.com/DoyleJ11/tactile-board-backend/internal/engine"
	"github.com/DoyleJ11/tactile-board-backend/internal/types"
)

// readLimit covers a full roomState with room to spare.
const readLimit = 1 << 20

// Conn speaks the board protocol over one websocket.
type Conn struct {
	ws *websocket.Conn
}

func Dial(ctx context.Context, url string) (*Conn, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c.SetReadLimit(readLimit)
	return &Conn{ws: c}, nil
}

func (c *Conn) Join(ctx context.Context, roomID string) error {
	payload, err := types.EncodeJoin(roomID)
	if err != nil {
		return err
	}
	return c.ws.Write(ctx, websocket.MessageText, payload)
}

func (c *Conn) Send(ctx context.Context, roomID string, cmd engine.Command) error {
	payload, err := types.EncodeCommand(roomID, cmd)
	if err != nil {
		return fmt.Errorf("encode %s: %w", cmd.Type, err)
	}
	return c.ws.Write(ctx, websocket.MessageText, payload)
}

// WriteRaw sends an arbitrary text frame.
func (c *Conn) WriteRaw(ctx context.Context, payload []byte) error {
	return c.ws.Write(ctx, websocket.MessageText, payload)
}

// Next blocks for the next server event.
func (c *Conn) Next(ctx context.Context) (engine.Event, error) {
	_, data, err := c.ws.Read(ctx)
	if err != nil {
		return engine.Event{}, err
	}
	return types.DecodeServerMessage(data)
}

func (c *Conn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "bye")
}
