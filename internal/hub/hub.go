package hub

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/DoyleJ11/tactile-board-backend/internal/engine"
	"github.com/DoyleJ11/tactile-board-backend/internal/room"
)

type HubMsg interface{ isHubMsg() }

// EnsureRoom returns the room for Code, creating it with a default board
// when absent. A blank code replies nil.
type EnsureRoom struct {
	Code  string
	Reply chan *room.Room
}

// GetRoom never creates; the reply is nil for unknown codes.
type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type ListRooms struct {
	Reply chan []string
}

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (ListRooms) isHubMsg()   {}
func (ShutdownHub) isHubMsg() {}

// Hub is the room registry. Rooms live for the life of the process; there is
// no eviction.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Ensure is the blocking form of EnsureRoom. It returns nil if the hub is
// gone or the code is blank.
func (h *Hub) Ensure(code string) *room.Room {
	reply := make(chan *room.Room, 1)
	if !h.send(EnsureRoom{Code: code, Reply: reply}) {
		return nil
	}
	return h.await(reply)
}

// Get is the blocking form of GetRoom.
func (h *Hub) Get(code string) *room.Room {
	reply := make(chan *room.Room, 1)
	if !h.send(GetRoom{Code: code, Reply: reply}) {
		return nil
	}
	return h.await(reply)
}

func (h *Hub) List() []string {
	reply := make(chan []string, 1)
	if !h.send(ListRooms{Reply: reply}) {
		return nil
	}
	select {
	case codes := <-reply:
		return codes
	case <-h.ctx.Done():
		return nil
	}
}

func (h *Hub) Shutdown() {
	h.send(ShutdownHub{})
}

func (h *Hub) send(m HubMsg) bool {
	select {
	case h.inbox <- m:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) await(reply chan *room.Room) *room.Room {
	select {
	case r := <-reply:
		return r
	case <-h.ctx.Done():
		return nil
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				code := strings.TrimSpace(msg.Code)
				if code == "" {
					msg.Reply <- nil
					break
				}
				if r := h.rooms[code]; r != nil {
					msg.Reply <- r
					break
				}

				r := room.NewRoom(h.ctx, code, engine.NewEmptyState(), h.log)
				h.rooms[code] = r
				h.log.Info("room created", zap.String("room", code), zap.Int("rooms", len(h.rooms)))
				msg.Reply <- r

			case GetRoom:
				msg.Reply <- h.rooms[strings.TrimSpace(msg.Code)] // May be nil

			case ListRooms:
				codes := make([]string, 0, len(h.rooms))
				for code := range h.rooms {
					codes = append(codes, code)
				}
				sort.Strings(codes)
				msg.Reply <- codes

			case ShutdownHub:
				for _, r := range h.rooms {
					r.Send(h.ctx, room.Shutdown{})
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}
