package terminal

import (
	"fmt"
	"sync"

	"github.com/nolindnaidoo/termfolio/schema"
)

// ContentListener is notified when the active section changes. It is also
// notified when navigation targets the section that is already active.
type ContentListener func(from, to schema.Section)

// Navigator holds the active content section and notifies listeners.
type Navigator struct {
	mu        sync.Mutex
	current   schema.Section
	nextID    int
	listeners map[int]ContentListener
	order     []int
}

// NewNavigator starts at the default section.
func NewNavigator() *Navigator {
	return &Navigator{
		current:   schema.DefaultSection,
		listeners: make(map[int]ContentListener),
	}
}

// Current returns the active section.
func (n *Navigator) Current() schema.Section {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// NavigateTo sets the active section and notifies listeners synchronously,
// outside the navigator lock, in subscription order.
func (n *Navigator) NavigateTo(section schema.Section) error {
	target, ok := schema.ParseSection(string(section))
	if !ok {
		return fmt.Errorf("%w: %q", schema.ErrUnknownSection, section)
	}
	n.mu.Lock()
	from := n.current
	n.current = target
	listeners := make([]ContentListener, 0, len(n.order))
	for _, id := range n.order {
		listeners = append(listeners, n.listeners[id])
	}
	n.mu.Unlock()
	for _, listener := range listeners {
		listener(from, target)
	}
	return nil
}

// Subscribe registers a listener and returns a function that removes it.
func (n *Navigator) Subscribe(listener ContentListener) func() {
	if listener == nil {
		return func() {}
	}
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = listener
	n.order = append(n.order, id)
	n.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.listeners, id)
			for i, existing := range n.order {
				if existing == id {
					n.order = append(n.order[:i], n.order[i+1:]...)
					break
				}
			}
		})
	}
}
