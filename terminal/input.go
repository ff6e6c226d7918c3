package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/nolindnaidoo/termfolio/schema"
)

// Key is a keystroke the input controller reacts to.
type Key int

const (
	// KeyEnter submits the current input.
	KeyEnter Key = iota + 1
	// KeyUp recalls an earlier history entry.
	KeyUp
	// KeyDown recalls a later history entry or leaves history mode.
	KeyDown
	// KeyTab completes a unique command prefix.
	KeyTab
)

var keyNames = map[Key]string{
	KeyEnter: "Enter",
	KeyUp:    "ArrowUp",
	KeyDown:  "ArrowDown",
	KeyTab:   "Tab",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// ParseKey maps a DOM-style key name to a Key.
func ParseKey(name string) (Key, error) {
	trimmed := strings.TrimSpace(name)
	for key, keyName := range keyNames {
		if strings.EqualFold(keyName, trimmed) {
			return key, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", schema.ErrUnknownKey, name)
}

// HandleKey applies one keystroke. Every key is a no-op while input is
// disabled. Enter blocks for the processing delay while the command runs.
func (s *Session) HandleKey(ctx context.Context, key Key) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return schema.ErrSessionClosed
	}
	if !s.showInput {
		s.mu.Unlock()
		return nil
	}
	switch key {
	case KeyEnter:
		input := s.input
		s.input = ""
		state := s.stateEventLocked()
		s.mu.Unlock()
		s.sink.OnState(state)
		return s.Submit(ctx, input)
	case KeyUp:
		if entry, ok := s.history.Up(); ok {
			s.input = entry
		}
	case KeyDown:
		if entry, ok := s.history.Down(); ok {
			s.input = entry
		}
	case KeyTab:
		if matches := s.registry.Complete(s.input); len(matches) == 1 {
			s.input = matches[0]
		}
	default:
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", schema.ErrUnknownKey, key)
	}
	state := s.stateEventLocked()
	s.mu.Unlock()
	s.sink.OnState(state)
	return nil
}

// SetInput replaces the edit buffer. It is a no-op while input is disabled.
func (s *Session) SetInput(input string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return schema.ErrSessionClosed
	}
	if !s.showInput || s.input == input {
		s.mu.Unlock()
		return nil
	}
	s.input = input
	state := s.stateEventLocked()
	s.mu.Unlock()
	s.sink.OnState(state)
	return nil
}

// Input returns the current edit buffer.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}
