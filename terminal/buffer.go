package terminal

import (
	"time"

	"github.com/nolindnaidoo/termfolio/schema"
)

// View is a snapshot of a buffer's visible state.
type View struct {
	Lines        []schema.TerminalLine
	TotalLines   int
	ScrollOffset int
	AtBottom     bool
}

// Buffer is the ordered, append-only log of terminal lines.
// ScrollOffset is the number of lines from the bottom; 0 means at bottom.
// Buffer is not safe for concurrent use; Session serializes access.
type Buffer struct {
	lines        []schema.TerminalLine
	scrollOffset int
	maxLines     int
	ids          idSource
	now          func() time.Time
}

// NewBuffer returns an empty buffer. maxLines <= 0 keeps every line.
func NewBuffer(maxLines int) *Buffer {
	if maxLines < 0 {
		maxLines = 0
	}
	return &Buffer{maxLines: maxLines, now: time.Now}
}

// Append adds a line with a fresh id and timestamp and returns it. If the
// buffer is scrolled up, the scroll offset grows to keep the view anchored.
func (b *Buffer) Append(kind schema.LineKind, content string) schema.TerminalLine {
	now := time.Now
	if b.now != nil {
		now = b.now
	}
	ts := now()
	line := schema.TerminalLine{
		ID:        b.ids.next(ts),
		Kind:      kind,
		Content:   content,
		Timestamp: ts,
	}
	b.lines = append(b.lines, line)
	if b.scrollOffset > 0 {
		b.scrollOffset++
	}
	if b.maxLines > 0 && len(b.lines) > b.maxLines {
		trim := len(b.lines) - b.maxLines
		b.lines = append([]schema.TerminalLine(nil), b.lines[trim:]...)
		if b.scrollOffset > len(b.lines) {
			b.scrollOffset = len(b.lines)
		}
	}
	return line
}

// Clear removes every line and resets scrolling.
func (b *Buffer) Clear() {
	b.lines = nil
	b.scrollOffset = 0
}

// Lines returns a copy of every line in append order.
func (b *Buffer) Lines() []schema.TerminalLine {
	return append([]schema.TerminalLine(nil), b.lines...)
}

// Len returns the number of lines held.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// ResetScroll returns the view to the bottom.
func (b *Buffer) ResetScroll() {
	b.scrollOffset = 0
}

// Scroll adjusts the scroll offset by delta. Positive delta scrolls up (older lines),
// negative delta scrolls down. Limit is the viewport height.
func (b *Buffer) Scroll(delta, limit int) {
	b.scrollOffset = clampScroll(b.scrollOffset+delta, len(b.lines), limit)
}

// Snapshot returns a view of the buffer for the given viewport limit.
func (b *Buffer) Snapshot(limit int) View {
	total := len(b.lines)
	if limit <= 0 || limit > total {
		limit = total
	}
	if max := maxScroll(total, limit); b.scrollOffset > max {
		b.scrollOffset = max
	}
	end := total - b.scrollOffset
	start := end - limit
	if start < 0 {
		start = 0
	}
	lines := make([]schema.TerminalLine, end-start)
	copy(lines, b.lines[start:end])
	return View{
		Lines:        lines,
		TotalLines:   total,
		ScrollOffset: b.scrollOffset,
		AtBottom:     b.scrollOffset == 0,
	}
}

func maxScroll(total, limit int) int {
	if total <= 0 || limit <= 0 || total <= limit {
		return 0
	}
	return total - limit
}

func clampScroll(offset, total, limit int) int {
	max := maxScroll(total, limit)
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}
