package terminal

import (
	"testing"
	"time"

	"github.com/nolindnaidoo/termfolio/schema"
)

func TestBufferAppendPreservesOrderAndUniqueIDs(t *testing.T) {
	b := NewBuffer(0)
	fixed := time.Unix(1700000000, 0)
	b.now = func() time.Time { return fixed }
	seen := make(map[string]bool)
	for i, content := range []string{"one", "two", "three", "four"} {
		line := b.Append(schema.LineOutput, content)
		if seen[line.ID] {
			t.Fatalf("duplicate id %q at %d", line.ID, i)
		}
		seen[line.ID] = true
		if !line.Timestamp.Equal(fixed) {
			t.Fatalf("expected timestamp %v, got %v", fixed, line.Timestamp)
		}
	}
	lines := b.Lines()
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0].Content != "one" || lines[3].Content != "four" {
		t.Fatalf("unexpected order: %+v", lines)
	}
}

func TestBufferLinesReturnsCopy(t *testing.T) {
	b := NewBuffer(0)
	b.Append(schema.LineOutput, "original")
	lines := b.Lines()
	lines[0].Content = "mutated"
	if got := b.Lines()[0].Content; got != "original" {
		t.Fatalf("buffer line mutated through copy: %q", got)
	}
}

func TestBufferClearEmpties(t *testing.T) {
	b := NewBuffer(0)
	b.Append(schema.LineOutput, "one")
	b.Append(schema.LineError, "two")
	b.Scroll(1, 1)
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("expected empty buffer, got %d", b.Len())
	}
	view := b.Snapshot(10)
	if !view.AtBottom || view.TotalLines != 0 {
		t.Fatalf("unexpected view after clear: %+v", view)
	}
}

func TestBufferUnboundedByDefault(t *testing.T) {
	b := NewBuffer(0)
	for i := 0; i < 10000; i++ {
		b.Append(schema.LineOutput, "x")
	}
	if b.Len() != 10000 {
		t.Fatalf("expected 10000 lines, got %d", b.Len())
	}
}

func TestBufferRespectsMaxLines(t *testing.T) {
	b := NewBuffer(3)
	for _, content := range []string{"one", "two", "three", "four", "five"} {
		b.Append(schema.LineOutput, content)
	}
	view := b.Snapshot(10)
	if view.TotalLines != 3 {
		t.Fatalf("expected total lines 3, got %d", view.TotalLines)
	}
	if view.Lines[0].Content != "three" || view.Lines[2].Content != "five" {
		t.Fatalf("unexpected lines: %+v", view.Lines)
	}
}

func TestBufferScrollAnchorsOnAppend(t *testing.T) {
	b := NewBuffer(0)
	for _, content := range []string{"one", "two", "three", "four", "five"} {
		b.Append(schema.LineOutput, content)
	}
	b.Scroll(2, 3)
	if b.scrollOffset != 2 {
		t.Fatalf("expected scroll offset 2, got %d", b.scrollOffset)
	}
	b.Append(schema.LineOutput, "six")
	if b.scrollOffset != 3 {
		t.Fatalf("expected scroll offset 3 after append, got %d", b.scrollOffset)
	}
	view := b.Snapshot(3)
	if view.AtBottom {
		t.Fatalf("expected not at bottom after scroll")
	}
	if len(view.Lines) != 3 || view.Lines[0].Content != "one" {
		t.Fatalf("unexpected view: %+v", view.Lines)
	}
}

func TestBufferScrollClampsToBounds(t *testing.T) {
	b := NewBuffer(0)
	for _, content := range []string{"one", "two", "three", "four", "five"} {
		b.Append(schema.LineOutput, content)
	}
	b.Scroll(10, 3)
	if b.scrollOffset != 2 {
		t.Fatalf("expected scroll offset 2, got %d", b.scrollOffset)
	}
	b.Scroll(-10, 3)
	if b.scrollOffset != 0 {
		t.Fatalf("expected scroll offset 0, got %d", b.scrollOffset)
	}
	b.Scroll(1, 3)
	b.ResetScroll()
	if b.scrollOffset != 0 {
		t.Fatalf("expected reset scroll offset 0, got %d", b.scrollOffset)
	}
}
