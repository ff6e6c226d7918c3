package termfolio

import (
	"github.com/nolindnaidoo/termfolio/schema"
	"github.com/nolindnaidoo/termfolio/terminal"
)

type eventFanout struct {
	sinks []terminal.EventSink
}

func (f eventFanout) OnLine(event schema.LineEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnLine(event)
	}
}

func (f eventFanout) OnClear(event schema.ClearEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnClear(event)
	}
}

func (f eventFanout) OnNavigate(event schema.NavigateEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnNavigate(event)
	}
}

func (f eventFanout) OnState(event schema.StateEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnState(event)
	}
}
