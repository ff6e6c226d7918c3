package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/nolindnaidoo/termfolio/internal/logx"
	"github.com/nolindnaidoo/termfolio/schema"
	"github.com/nolindnaidoo/termfolio/terminal"
)

// StreamEvent is sent to SSE clients.
type StreamEvent struct {
	Seq       uint64               `json:"seq"`
	Type      string               `json:"type"`
	Line      *schema.TerminalLine `json:"line,omitempty"`
	From      schema.Section       `json:"from,omitempty"`
	To        schema.Section       `json:"to,omitempty"`
	State     *StatePayload        `json:"state,omitempty"`
	Snapshot  *terminal.State      `json:"snapshot,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

// StatePayload carries prompt and input changes.
type StatePayload struct {
	Phase     schema.BootPhase `json:"phase"`
	ShowInput bool             `json:"show_input"`
	Input     string           `json:"input"`
	Prompt    string           `json:"prompt"`
}

// Hub broadcasts terminal events per session and keeps a bounded history
// for Last-Event-ID replay.
type Hub struct {
	mu          sync.Mutex
	sessions    map[schema.SessionID]*sessionHub
	historySize int
}

// NewHub constructs a hub with the given history size.
func NewHub(historySize int) *Hub {
	if historySize <= 0 {
		historySize = 500
	}
	return &Hub{
		sessions:    make(map[schema.SessionID]*sessionHub),
		historySize: historySize,
	}
}

// OnLine implements terminal.EventSink.
func (h *Hub) OnLine(event schema.LineEvent) {
	line := event.Line
	h.publish(event.SessionID, StreamEvent{
		Type:      "line",
		Line:      &line,
		Timestamp: time.Now(),
	})
}

// OnClear implements terminal.EventSink.
func (h *Hub) OnClear(event schema.ClearEvent) {
	h.publish(event.SessionID, StreamEvent{
		Type:      "clear",
		Timestamp: time.Now(),
	})
}

// OnNavigate implements terminal.EventSink.
func (h *Hub) OnNavigate(event schema.NavigateEvent) {
	logx.WithSession(context.Background(), event.SessionID).Trace("hub navigate event", "from", event.From, "to", event.To)
	h.publish(event.SessionID, StreamEvent{
		Type:      "navigate",
		From:      event.From,
		To:        event.To,
		Timestamp: time.Now(),
	})
}

// OnState implements terminal.EventSink.
func (h *Hub) OnState(event schema.StateEvent) {
	h.publish(event.SessionID, StreamEvent{
		Type: "state",
		State: &StatePayload{
			Phase:     event.Phase,
			ShowInput: event.ShowInput,
			Input:     event.Input,
			Prompt:    event.Prompt,
		},
		Timestamp: time.Now(),
	})
}

// Subscribe registers a subscriber for a session.
func (h *Hub) Subscribe(sessionID schema.SessionID) (<-chan StreamEvent, func(), uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sh := h.getOrCreateLocked(sessionID)
	ch := make(chan StreamEvent, 256)
	sh.subs[ch] = struct{}{}
	seq := sh.seq
	log := logx.WithSession(context.Background(), sessionID)
	log.Debug("hub subscribe", "subs", len(sh.subs), "history", len(sh.history))
	var once sync.Once
	unsub := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(sh.subs, ch)
			close(ch)
			remaining := len(sh.subs)
			h.mu.Unlock()
			log.Debug("hub unsubscribe", "subs", remaining)
		})
	}
	return ch, unsub, seq
}

// Replay returns events after the provided seq.
func (h *Hub) Replay(sessionID schema.SessionID, after uint64) []StreamEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	sh := h.sessions[sessionID]
	if sh == nil {
		return nil
	}
	events := make([]StreamEvent, 0, len(sh.history))
	for _, event := range sh.history {
		if event.Seq > after {
			events = append(events, event)
		}
	}
	logx.WithSession(context.Background(), sessionID).Debug("hub replay", "after", after, "count", len(events))
	return events
}

// Seq returns the sequence number of the newest event for a session.
func (h *Hub) Seq(sessionID schema.SessionID) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sh := h.sessions[sessionID]; sh != nil {
		return sh.seq
	}
	return 0
}

// Forget drops a session's history. Open subscriptions stay valid until
// their unsubscribe func runs.
func (h *Hub) Forget(sessionID schema.SessionID) {
	h.mu.Lock()
	sh := h.sessions[sessionID]
	delete(h.sessions, sessionID)
	h.mu.Unlock()
	if sh == nil {
		return
	}
	logx.WithSession(context.Background(), sessionID).Debug("hub forget", "subs", len(sh.subs))
}

func (h *Hub) publish(sessionID schema.SessionID, event StreamEvent) {
	h.mu.Lock()
	sh := h.getOrCreateLocked(sessionID)
	sh.seq++
	event.Seq = sh.seq
	sh.history = append(sh.history, event)
	if len(sh.history) > h.historySize {
		sh.history = sh.history[len(sh.history)-h.historySize:]
	}
	dropped := 0
	for sub := range sh.subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	h.mu.Unlock()
	if dropped > 0 {
		logx.WithSession(context.Background(), sessionID).Warn("hub event dropped", "type", event.Type, "dropped", dropped)
	}
}

func (h *Hub) getOrCreateLocked(sessionID schema.SessionID) *sessionHub {
	sh := h.sessions[sessionID]
	if sh == nil {
		sh = &sessionHub{
			subs: make(map[chan StreamEvent]struct{}),
		}
		h.sessions[sessionID] = sh
	}
	return sh
}

type sessionHub struct {
	seq     uint64
	history []StreamEvent
	subs    map[chan StreamEvent]struct{}
}
