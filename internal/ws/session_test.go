package ws

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/tactile-board-backend/internal/engine"
	"github.com/DoyleJ11/tactile-board-backend/internal/hub"
	"github.com/DoyleJ11/tactile-board-backend/internal/room"
	"github.com/DoyleJ11/tactile-board-backend/internal/types"
)

// fakeConn records what a session writes.
type fakeConn struct {
	mu     sync.Mutex
	writes []engine.Event
	closed websocket.StatusCode
}

func (f *fakeConn) Read(ctx context.Context) (websocket.MessageType, []byte, error) {
	<-ctx.Done()
	return 0, nil, ctx.Err()
}

func (f *fakeConn) Write(_ context.Context, _ websocket.MessageType, p []byte) error {
	ev, err := types.DecodeServerMessage(p)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, ev)
	return nil
}

func (f *fakeConn) Close(code websocket.StatusCode, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = code
	return nil
}

func (f *fakeConn) written() []engine.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]engine.EventType, len(f.writes))
	for i, ev := range f.writes {
		out[i] = ev.Type
	}
	return out
}

func (f *fakeConn) closedWith() websocket.StatusCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func waitDone(t *testing.T, m *membership) {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(time.Second):
		t.Fatal("write pump did not finish")
	}
}

func placed(row int) engine.Event {
	return engine.Event{
		Type:  engine.EvtTilePlaced,
		Cells: []engine.Cell{{Row: row, Col: 0, TileID: "obstacle", Color: engine.ColorBlack}},
	}
}

func TestWritePump_NewMembershipWaitsForPreviousFlush(t *testing.T) {
	fc := &fakeConn{}
	s := &session{id: "s1", conn: fc, log: zap.NewNop()}

	old := newMembership(nil, 8)
	old.out <- placed(1)
	old.out <- placed(2)
	next := newMembership(nil, 8)
	next.out <- engine.Snapshot(engine.NewEmptyState())

	// The newer pump starts first and must still come second on the wire.
	go s.writePump(next, old.done)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, fc.written())

	go s.writePump(old, nil)
	old.released.Store(true)
	close(old.out)
	waitDone(t, old)

	next.released.Store(true)
	close(next.out)
	waitDone(t, next)

	assert.Equal(t, []engine.EventType{
		engine.EvtTilePlaced,
		engine.EvtTilePlaced,
		engine.EvtRoomState,
	}, fc.written())
	assert.Zero(t, fc.closedWith())
}

func TestWritePump_DroppedByRoomClosesSocket(t *testing.T) {
	fc := &fakeConn{}
	s := &session{id: "s1", conn: fc, log: zap.NewNop()}

	m := newMembership(nil, 2)
	m.out <- placed(3)
	go s.writePump(m, nil)
	close(m.out) // the room gave up on this client
	waitDone(t, m)

	assert.Len(t, fc.written(), 1)
	assert.Equal(t, websocket.StatusTryAgainLater, fc.closedWith())
}

func TestWritePump_ReleasedMembershipKeepsSocket(t *testing.T) {
	fc := &fakeConn{}
	s := &session{id: "s1", conn: fc, log: zap.NewNop()}

	m := newMembership(nil, 2)
	go s.writePump(m, nil)
	m.released.Store(true)
	close(m.out)
	waitDone(t, m)

	assert.Zero(t, fc.closedWith())
}

func TestSession_SwitchingRoomsFlushesOldRoomFirst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := hub.NewHub(ctx, nil)

	fc := &fakeConn{}
	s := &session{id: "s1", hub: h, conn: fc, log: zap.NewNop(), outboxSize: 32}
	s.join(ctx, "A")
	rmA := h.Get("A")
	require.NotNil(t, rmA)

	// Queue several events for s1 in A, then switch straight away.
	for row := 0; row < 5; row++ {
		cmd := engine.Command{Type: engine.CmdPlaceTile, Cells: placed(row).Cells}
		require.True(t, rmA.Send(ctx, room.FromClient{ClientID: "other", Cmd: cmd}))
	}
	s.join(ctx, "C")

	require.Eventually(t, func() bool {
		w := fc.written()
		return len(w) > 0 && w[len(w)-1] == engine.EvtRoomOccupancy && countOf(w, engine.EvtRoomState) == 2
	}, time.Second, 10*time.Millisecond)

	// Everything after C's snapshot belongs to C.
	w := fc.written()
	last := lastIndex(w, engine.EvtRoomState)
	for _, evt := range w[last+1:] {
		assert.Equal(t, engine.EvtRoomOccupancy, evt)
	}
	assert.Equal(t, 5, countOf(w[:last], engine.EvtTilePlaced))

	s.leave()
}

func countOf(w []engine.EventType, evt engine.EventType) int {
	n := 0
	for _, e := range w {
		if e == evt {
			n++
		}
	}
	return n
}

func lastIndex(w []engine.EventType, evt engine.EventType) int {
	for i := len(w) - 1; i >= 0; i-- {
		if w[i] == evt {
			return i
		}
	}
	return -1
}
