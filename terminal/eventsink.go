package terminal

import "github.com/nolindnaidoo/termfolio/schema"

// EventSink receives line, navigation, and state events from sessions.
// Implementations must not block and must not call back into the session.
type EventSink interface {
	OnLine(event schema.LineEvent)
	OnClear(event schema.ClearEvent)
	OnNavigate(event schema.NavigateEvent)
	OnState(event schema.StateEvent)
}

type nopSink struct{}

func (nopSink) OnLine(schema.LineEvent)         {}
func (nopSink) OnClear(schema.ClearEvent)       {}
func (nopSink) OnNavigate(schema.NavigateEvent) {}
func (nopSink) OnState(schema.StateEvent)       {}
