package eventbus

import (
	"testing"
	"time"

	"github.com/nolindnaidoo/termfolio/schema"
)

func TestSubscribeAndPublish(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe("s1")
	defer cancel()

	event := schema.LineEvent{SessionID: "s1", Line: schema.TerminalLine{ID: "1", Kind: schema.LineOutput, Content: "hi"}}
	bus.OnLine(event)

	select {
	case got := <-ch:
		if got.Type != EventLine {
			t.Fatalf("expected line event, got %v", got.Type)
		}
		if got.Line.SessionID != event.SessionID || got.Line.Line.Content != "hi" {
			t.Fatalf("unexpected payload: %+v", got.Line)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for event")
	}
}

func TestPublishIsScopedToSession(t *testing.T) {
	bus := New(nil)
	mine, cancelMine := bus.Subscribe("s1")
	defer cancelMine()
	other, cancelOther := bus.Subscribe("s2")
	defer cancelOther()

	bus.OnNavigate(schema.NavigateEvent{SessionID: "s1", From: schema.SectionHome, To: schema.SectionAbout})

	select {
	case got := <-mine:
		if got.Type != EventNavigate || got.Navigate.To != schema.SectionAbout {
			t.Fatalf("unexpected event %+v", got)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for event")
	}
	select {
	case got := <-other:
		t.Fatalf("unexpected event for other session: %+v", got)
	default:
	}
}

func TestEventSessionID(t *testing.T) {
	cases := []Event{
		{Type: EventLine, Line: schema.LineEvent{SessionID: "a"}},
		{Type: EventClear, Clear: schema.ClearEvent{SessionID: "a"}},
		{Type: EventNavigate, Navigate: schema.NavigateEvent{SessionID: "a"}},
		{Type: EventState, State: schema.StateEvent{SessionID: "a"}},
	}
	for _, event := range cases {
		if event.SessionID() != "a" {
			t.Fatalf("%s: expected session a, got %q", event.Type, event.SessionID())
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe("s1")
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed")
	}
	if n := bus.Subscribers("s1"); n != 0 {
		t.Fatalf("expected no subscribers, got %d", n)
	}
}

func TestPublishDoesNotBlockWhenFull(t *testing.T) {
	bus := New(nil)
	bus.depth = 1
	_, cancel := bus.Subscribe("s1")
	defer cancel()

	var sendCh chan Event
	bus.mu.Lock()
	for ch := range bus.subs["s1"] {
		sendCh = ch
		break
	}
	bus.mu.Unlock()
	if sendCh == nil {
		t.Fatalf("expected subscriber channel")
	}
	sendCh <- Event{Type: EventLine}
	done := make(chan struct{})
	go func() {
		bus.OnState(schema.StateEvent{SessionID: "s1"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("publish blocked on full channel")
	}
}
