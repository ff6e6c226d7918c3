package terminal

import "strings"

// History is the chronological list of submitted commands plus the
// browsing cursor. Index -1 means the visitor is editing fresh input.
type History struct {
	entries []string
	index   int
}

// NewHistory returns an empty history that is not browsing.
func NewHistory() *History {
	return &History{index: -1}
}

// Append records a submitted command and leaves browsing mode.
// Blank entries are ignored. Repeats are kept, matching shell behaviour.
func (h *History) Append(entry string) bool {
	h.index = -1
	if strings.TrimSpace(entry) == "" {
		return false
	}
	h.entries = append(h.entries, entry)
	return true
}

// Entries returns a copy of the history in submission order.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Index returns the browsing cursor.
func (h *History) Index() int {
	return h.index
}

// Up moves one entry earlier, starting from the most recent entry and
// clamping at the oldest. It reports false when there is no history.
func (h *History) Up() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.index == -1:
		h.index = len(h.entries) - 1
	case h.index > 0:
		h.index--
	}
	return h.entries[h.index], true
}

// Down moves one entry later. Moving past the newest entry leaves browsing
// mode and yields empty input. It reports false when not browsing.
func (h *History) Down() (string, bool) {
	if h.index == -1 {
		return "", false
	}
	next := h.index + 1
	if next >= len(h.entries) {
		h.index = -1
		return "", true
	}
	h.index = next
	return h.entries[h.index], true
}
