package room

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/tactile-board-backend/internal/engine"
)

type Msg interface{ isRoomMsg() }

type FromClient struct {
	ClientID string // sender, excluded from the fan-out
	Cmd      engine.Command
}

func (FromClient) isRoomMsg() {}

type Join struct {
	ClientID string
	Outbox   chan engine.Event // where this client wants to receive events; the room closes it
}

func (Join) isRoomMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

// recount is queued after a member leaves so occupancy is computed only once
// the departure is committed.
type recount struct{}

func (recount) isRoomMsg() {}

type View struct {
	ID         string
	Version    int
	NumClients int
	State      engine.State
}

// Room owns the state of one board. All mutation happens on the loop
// goroutine, one message at a time, so concurrent placements are ordered by
// arrival and the last write wins.
type Room struct {
	id       string
	inbox    chan Msg
	deferred []Msg
	state    engine.State
	version  int
	clients  map[string]chan engine.Event
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewRoom(parent context.Context, id string, initial engine.State, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop()
	}

	r := &Room{
		id:      id,
		inbox:   make(chan Msg, 64),
		state:   initial.Clone(),
		clients: make(map[string]chan engine.Event),
		log:     log.With(zap.String("room", id)),
		ctx:     ctx,
		cancel:  cancel,
	}

	go r.loop()
	return r
}

func (r *Room) ID() string { return r.id }

// Expose the inbox so tests or the WS layer can send messages.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Send delivers m unless ctx ends or the room has shut down first.
func (r *Room) Send(ctx context.Context, m Msg) bool {
	select {
	case <-r.ctx.Done():
		return false
	default:
	}
	select {
	case r.inbox <- m:
		return true
	case <-r.ctx.Done():
		return false
	case <-ctx.Done():
		return false
	}
}

// Snapshot asks the loop for a View. ok is false if the room is gone or ctx
// ends first.
func (r *Room) Snapshot(ctx context.Context) (View, bool) {
	reply := make(chan View, 1)
	if !r.Send(ctx, GetState{Reply: reply}) {
		return View{}, false
	}
	select {
	case v := <-reply:
		return v, true
	case <-r.ctx.Done():
		return View{}, false
	case <-ctx.Done():
		return View{}, false
	}
}

func (r *Room) loop() {
	for {
		// Deferred work runs before the next inbox message.
		if len(r.deferred) > 0 {
			m := r.deferred[0]
			r.deferred = r.deferred[1:]
			if !r.handle(m) {
				return
			}
			continue
		}

		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			if !r.handle(m) {
				return
			}
		}
	}
}

func (r *Room) handle(m Msg) bool {
	switch msg := m.(type) {
	case Join:
		if old, ok := r.clients[msg.ClientID]; ok && old != msg.Outbox {
			close(old)
		}
		r.clients[msg.ClientID] = msg.Outbox
		r.log.Debug("client joined", zap.String("client", msg.ClientID), zap.Int("occupancy", len(r.clients)))

		if r.deliver(msg.ClientID, msg.Outbox, engine.Snapshot(r.state)) {
			r.broadcast("", engine.Occupancy(r.id, len(r.clients)))
		}

	case Leave:
		if ch, ok := r.clients[msg.ClientID]; ok {
			close(ch)
			delete(r.clients, msg.ClientID)
			r.log.Debug("client left", zap.String("client", msg.ClientID), zap.Int("occupancy", len(r.clients)))
			r.scheduleRecount()
		}

	case recount:
		r.broadcast("", engine.Occupancy(r.id, len(r.clients)))

	case FromClient:
		events, newState, err := engine.Apply(r.state, msg.Cmd)
		if err != nil {
			// Fail silent: the sender gets no error frame.
			r.log.Debug("command ignored", zap.String("client", msg.ClientID), zap.String("cmd", string(msg.Cmd.Type)), zap.Error(err))
			break
		}
		r.state = newState
		r.version++
		for _, ev := range events {
			r.broadcast(msg.ClientID, ev)
		}

	case GetState:
		msg.Reply <- View{
			ID:         r.id,
			Version:    r.version,
			NumClients: len(r.clients),
			State:      r.state.Clone(),
		}

	case Shutdown:
		r.shutdown()
		return false
	}
	return true
}

func (r *Room) shutdown() {
	r.cancel()
	for id, ch := range r.clients {
		close(ch) // Tell client no more events
		delete(r.clients, id)
	}
}

// broadcast fans ev out according to its audience. sender may be empty.
func (r *Room) broadcast(sender string, ev engine.Event) {
	for id, ch := range r.clients {
		switch ev.Audience {
		case engine.AudienceOthers:
			if id == sender {
				continue
			}
		case engine.AudienceSender:
			if id != sender {
				continue
			}
		}
		r.deliver(id, ch, ev)
	}
}

// deliver never blocks the loop. A client whose outbox is full is dropped.
func (r *Room) deliver(id string, ch chan engine.Event, ev engine.Event) bool {
	select {
	case ch <- ev:
		return true
	default:
		r.log.Warn("dropping slow client", zap.String("client", id), zap.String("event", string(ev.Type)))
		close(ch)
		delete(r.clients, id)
		r.scheduleRecount()
		return false
	}
}

func (r *Room) scheduleRecount() {
	for _, m := range r.deferred {
		if _, ok := m.(recount); ok {
			return
		}
	}
	r.deferred = append(r.deferred, recount{})
}
