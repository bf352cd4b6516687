package ws

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/tactile-board-backend/internal/engine"
	"github.com/DoyleJ11/tactile-board-backend/internal/hub"
	"github.com/DoyleJ11/tactile-board-backend/internal/room"
	"github.com/DoyleJ11/tactile-board-backend/internal/types"
	wire "github.com/DoyleJ11/tactile-board-backend/pkg/types"
)

const (
	writeTimeout = 3 * time.Second
	leaveTimeout = time.Second
	readLimit    = 1 << 20 // a full roomState is well under this
)

// conn is the part of *websocket.Conn a session uses.
type conn interface {
	Read(ctx context.Context) (websocket.MessageType, []byte, error)
	Write(ctx context.Context, typ websocket.MessageType, p []byte) error
	Close(code websocket.StatusCode, reason string) error
}

type Options struct {
	OriginPatterns []string
	OutboxSize     int
	Logger         *zap.Logger
}

func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.OutboxSize < 2 {
		opts.OutboxSize = 64
	}

	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer c.Close(websocket.StatusNormalClosure, "bye")
		c.SetReadLimit(readLimit)

		s := &session{
			id:         uuid.New().String(),
			hub:        h,
			conn:       c,
			outboxSize: opts.OutboxSize,
		}
		s.log = log.With(zap.String("client", s.id))
		s.log.Debug("client connected", zap.String("remote", r.RemoteAddr))

		s.run(r.Context())
	}
}

// membership is the session's place in one room. The room owns out and
// closes it; done closes once every queued event has been written.
type membership struct {
	room *room.Room
	out  chan engine.Event
	done chan struct{}

	// released is set before the session itself asks the room to close out.
	// An outbox closed without it means the room dropped this client.
	released atomic.Bool
}

func newMembership(rm *room.Room, size int) *membership {
	return &membership{
		room: rm,
		out:  make(chan engine.Event, size),
		done: make(chan struct{}),
	}
}

// session is one socket. It belongs to at most one room at a time but may
// send mutations for any room id.
type session struct {
	id         string
	hub        *hub.Hub
	conn       conn
	log        *zap.Logger
	outboxSize int
	current    *membership
}

func (s *session) run(ctx context.Context) {
	defer s.leave()

	// Reader loop
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				s.log.Debug("read failed", zap.Error(err))
			}
			return
		}

		req, ok := types.DecodeClientMessage(data)
		if !ok {
			s.log.Debug("ignored malformed frame", zap.Int("bytes", len(data)))
			continue
		}

		if req.Type == wire.MsgJoinRoom {
			s.join(ctx, req.RoomID)
			continue
		}

		rm := s.hub.Get(req.RoomID)
		if rm == nil {
			s.log.Debug("ignored frame for unknown room", zap.String("room", req.RoomID), zap.String("type", req.Type))
			continue
		}
		rm.Send(ctx, room.FromClient{ClientID: s.id, Cmd: req.Cmd})
	}
}

// join moves the session into code. The new write pump starts only after the
// previous one has flushed, so nothing from the old membership can follow the
// new roomState onto the wire.
func (s *session) join(ctx context.Context, code string) {
	rm := s.hub.Ensure(code)
	if rm == nil {
		return
	}

	prev := s.current
	if prev != nil {
		prev.released.Store(true)
		// Rejoining the same room needs no Leave: the room closes the old
		// outbox when the new Join replaces it.
		if prev.room != rm {
			if !prev.room.Send(ctx, room.Leave{ClientID: s.id}) && ctx.Err() != nil {
				return // leave() retries on the way out
			}
		}
		s.current = nil
	}

	m := newMembership(rm, s.outboxSize)
	if !rm.Send(ctx, room.Join{ClientID: s.id, Outbox: m.out}) {
		if prev != nil && prev.room == rm {
			s.current = prev
		}
		return
	}
	s.current = m

	var after <-chan struct{}
	if prev != nil {
		after = prev.done
	}
	go s.writePump(m, after)
}

func (s *session) leave() {
	if s.current == nil {
		return
	}
	s.current.released.Store(true)
	// The request context is likely gone already; give the room its own.
	ctx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
	defer cancel()
	s.current.room.Send(ctx, room.Leave{ClientID: s.id})
	s.current = nil
}

// writePump waits for after, then writes m's events until the room closes
// the outbox: on leave, on a newer join, when the client is dropped as slow,
// or on shutdown. In the last two cases the socket is closed so the client
// reconnects and starts again from a fresh snapshot.
func (s *session) writePump(m *membership, after <-chan struct{}) {
	defer close(m.done)
	if after != nil {
		<-after
	}

	for ev := range m.out {
		payload, err := types.EncodeEvent(ev)
		if err != nil {
			s.log.Error("encode event", zap.String("event", string(ev.Type)), zap.Error(err))
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err = s.conn.Write(ctx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			s.log.Debug("write failed", zap.String("event", string(ev.Type)), zap.Error(err))
		}
	}

	if !m.released.Load() {
		s.log.Info("removed by room, closing socket")
		_ = s.conn.Close(websocket.StatusTryAgainLater, "removed from room")
	}
}
