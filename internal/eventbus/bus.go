package eventbus

import (
	"context"
	"sync"

	"github.com/nolindnaidoo/termfolio/schema"
	"pkt.systems/pslog"
)

// EventType identifies the event payload.
type EventType string

const (
	// EventLine carries a line appended to a session buffer.
	EventLine EventType = "line"
	// EventClear reports a cleared buffer.
	EventClear EventType = "clear"
	// EventNavigate carries a section change.
	EventNavigate EventType = "navigate"
	// EventState carries boot phase, prompt, and input updates.
	EventState EventType = "state"
)

// Event is a UI-facing event emitted by a terminal session.
type Event struct {
	Type     EventType
	Line     schema.LineEvent
	Clear    schema.ClearEvent
	Navigate schema.NavigateEvent
	State    schema.StateEvent
}

// SessionID returns the session the event belongs to.
func (e Event) SessionID() schema.SessionID {
	switch e.Type {
	case EventLine:
		return e.Line.SessionID
	case EventClear:
		return e.Clear.SessionID
	case EventNavigate:
		return e.Navigate.SessionID
	case EventState:
		return e.State.SessionID
	}
	return ""
}

// Bus fans events out to per-session subscribers. Publishing never blocks;
// a subscriber whose buffer is full misses the event.
type Bus struct {
	mu    sync.Mutex
	subs  map[schema.SessionID]map[chan Event]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[schema.SessionID]map[chan Event]struct{}),
		log:   logger,
		depth: 256,
	}
}

// Subscribe registers a subscriber for the session and returns a channel + cancel.
func (b *Bus) Subscribe(sessionID schema.SessionID) (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	ch := make(chan Event, b.depth)
	b.mu.Lock()
	sessionSubs := b.subs[sessionID]
	if sessionSubs == nil {
		sessionSubs = make(map[chan Event]struct{})
		b.subs[sessionID] = sessionSubs
	}
	sessionSubs[ch] = struct{}{}
	count := len(sessionSubs)
	b.mu.Unlock()
	b.log.With("session", sessionID).Debug("eventbus subscribe", "subs", count)
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if subs := b.subs[sessionID]; subs != nil {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(b.subs, sessionID)
				}
			}
			b.mu.Unlock()
			close(ch)
			b.log.With("session", sessionID).Debug("eventbus unsubscribe")
		})
	}
}

// Subscribers returns the number of subscribers for a session.
func (b *Bus) Subscribers(sessionID schema.SessionID) int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[sessionID])
}

// OnLine publishes a line event.
func (b *Bus) OnLine(event schema.LineEvent) {
	b.publish(Event{Type: EventLine, Line: event})
}

// OnClear publishes a clear event.
func (b *Bus) OnClear(event schema.ClearEvent) {
	b.publish(Event{Type: EventClear, Clear: event})
}

// OnNavigate publishes a navigation event.
func (b *Bus) OnNavigate(event schema.NavigateEvent) {
	b.publish(Event{Type: EventNavigate, Navigate: event})
}

// OnState publishes a state event.
func (b *Bus) OnState(event schema.StateEvent) {
	b.publish(Event{Type: EventState, State: event})
}

func (b *Bus) publish(event Event) {
	if b == nil {
		return
	}
	sessionID := event.SessionID()
	b.mu.Lock()
	defer b.mu.Unlock()
	dropped := 0
	for sub := range b.subs[sessionID] {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		b.log.With("session", sessionID).Trace("eventbus dropped", "type", event.Type, "count", dropped)
	}
}
