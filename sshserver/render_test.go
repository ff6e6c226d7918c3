package sshserver

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/nolindnaidoo/termfolio/internal/content"
	"github.com/nolindnaidoo/termfolio/schema"
	"github.com/nolindnaidoo/termfolio/terminal"
)

func plainStyles() styles {
	return newStyles(themeForName(""), termenv.Ascii)
}

func sampleFrame(width, height int) frame {
	return frame{
		width:  width,
		height: height,
		title:  "Portfolio Terminal",
		panel: content.Panel{
			Section: schema.SectionHome,
			Title:   "Home",
			Lines:   []string{"Nolin Naidoo", "Software • Engineer"},
		},
		view: terminal.View{
			Lines: []schema.TerminalLine{
				{ID: "1", Kind: schema.LineBoot, Content: "Initializing Nolin Naidoo Portfolio Terminal..."},
				{ID: "2", Kind: schema.LineCommand, Content: "$ whoami"},
				{ID: "3", Kind: schema.LineOutput, Content: "visitor"},
			},
			TotalLines: 3,
			AtBottom:   true,
		},
		prompt:    "203.0.113.9@openssh-linux:~$",
		input:     "help",
		cursorCol: 4,
		showInput: true,
	}
}

func TestRenderFrameSplitLayout(t *testing.T) {
	f := sampleFrame(100, 30)
	lines, row, col := renderFrame(f, plainStyles())
	if len(lines) != 30 {
		t.Fatalf("expected 30 lines, got %d", len(lines))
	}
	for i, line := range lines[:len(lines)-1] {
		if w := ansi.StringWidth(line); w != 100 {
			t.Fatalf("line %d: expected width 100, got %d: %q", i, w, ansi.Strip(line))
		}
	}
	screen := ansi.Strip(strings.Join(lines, "\n"))
	for _, want := range []string{"Portfolio Terminal", "Nolin Naidoo", "$ whoami", "visitor", "Press Tab for autocomplete"} {
		if !strings.Contains(screen, want) {
			t.Fatalf("expected %q on screen:\n%s", want, screen)
		}
	}

	promptLine := ansi.Strip(lines[row-1])
	idx := strings.Index(promptLine, "$ help")
	if idx < 0 {
		t.Fatalf("expected prompt on cursor row %d, got %q", row, promptLine)
	}
	want := ansi.StringWidth(promptLine[:idx]) + len("$ help") + 1
	if col != want {
		t.Fatalf("expected cursor column %d, got %d", want, col)
	}
}

func TestRenderFrameNarrowHidesContentPane(t *testing.T) {
	f := sampleFrame(60, 20)
	lines, _, _ := renderFrame(f, plainStyles())
	if len(lines) != 20 {
		t.Fatalf("expected 20 lines, got %d", len(lines))
	}
	screen := ansi.Strip(strings.Join(lines, "\n"))
	if strings.Contains(screen, "Software • Engineer") {
		t.Fatalf("did not expect content pane in narrow layout")
	}
	if !strings.Contains(lines[1], "Home") {
		t.Fatalf("expected section title on terminal pane, got %q", ansi.Strip(lines[1]))
	}
}

func TestRenderFrameHidesCursorWhileBooting(t *testing.T) {
	f := sampleFrame(100, 30)
	f.showInput = false
	lines, row, _ := renderFrame(f, plainStyles())
	if row != 0 {
		t.Fatalf("expected hidden cursor, got row %d", row)
	}
	if strings.Contains(ansi.Strip(strings.Join(lines, "\n")), "$ help") {
		t.Fatalf("did not expect prompt while booting")
	}
}

func TestRenderFrameFooterHints(t *testing.T) {
	f := sampleFrame(100, 30)
	f.view.AtBottom = false
	lines, _, _ := renderFrame(f, plainStyles())
	if !strings.Contains(ansi.Strip(lines[len(lines)-1]), "Scrolled back") {
		t.Fatalf("expected scrolled hint, got %q", lines[len(lines)-1])
	}
	f.failed = true
	lines, _, _ = renderFrame(f, plainStyles())
	if !strings.Contains(ansi.Strip(lines[len(lines)-1]), "Ctrl+R") {
		t.Fatalf("expected retry hint, got %q", lines[len(lines)-1])
	}
}

func TestRenderFrameTooSmall(t *testing.T) {
	lines, row, _ := renderFrame(sampleFrame(10, 3), plainStyles())
	if len(lines) != 3 || row != 0 {
		t.Fatalf("unexpected frame %q row %d", lines, row)
	}
	if !strings.HasPrefix(lines[0], "Window") {
		t.Fatalf("expected too small notice, got %q", lines[0])
	}
}

func TestRenderBoxExactSize(t *testing.T) {
	box := renderBox("About", []string{"short", strings.Repeat("x", 50)}, 20, 6, plainStyles())
	if len(box) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(box))
	}
	for i, line := range box {
		if w := ansi.StringWidth(line); w != 20 {
			t.Fatalf("row %d: expected width 20, got %d: %q", i, w, line)
		}
	}
	if !strings.Contains(box[0], "About") {
		t.Fatalf("expected title in top border, got %q", box[0])
	}
}

func TestRenderLogWrapsAndKeepsTail(t *testing.T) {
	lines := []schema.TerminalLine{
		{Kind: schema.LineOutput, Content: "first"},
		{Kind: schema.LineOutput, Content: strings.Repeat("word ", 6)},
		{Kind: schema.LineOutput, Content: "LAST"},
	}
	got := renderLog(lines, 10, 3, plainStyles())
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if ansi.Strip(got[2]) != "LAST" {
		t.Fatalf("expected tail to end with LAST, got %q", got)
	}
	for _, row := range got {
		if strings.Contains(row, "first") {
			t.Fatalf("expected oldest row to scroll out, got %q", got)
		}
	}
}

func TestRenderLogPadsShortLogToBottom(t *testing.T) {
	got := renderLog([]schema.TerminalLine{{Kind: schema.LineOutput, Content: "only"}}, 20, 4, plainStyles())
	if len(got) != 4 || got[0] != "" || ansi.Strip(got[3]) != "only" {
		t.Fatalf("unexpected rows %q", got)
	}
}

func TestInputWindowKeepsCursorVisible(t *testing.T) {
	visible, col := inputWindow("abcdefghij", 10, 5)
	if visible != "ghij" || col != 4 {
		t.Fatalf("unexpected window %q col %d", visible, col)
	}
	visible, col = inputWindow("abc", 1, 5)
	if visible != "abc" || col != 1 {
		t.Fatalf("unexpected window %q col %d", visible, col)
	}
}

func TestSanitizeLineStripsControls(t *testing.T) {
	if got := sanitizeLine("a\x1b[31mred\x1b[0m b\x07"); got != "ared b" {
		t.Fatalf("unexpected sanitized line %q", got)
	}
}

func TestColorProfile(t *testing.T) {
	cases := map[string]termenv.Profile{
		"":               termenv.Ascii,
		"dumb":           termenv.Ascii,
		"xterm-256color": termenv.ANSI256,
		"xterm-kitty":    termenv.TrueColor,
		"vt100":          termenv.ANSI,
	}
	for term, want := range cases {
		if got := colorProfile(term); got != want {
			t.Fatalf("colorProfile(%q) = %v, want %v", term, got, want)
		}
	}
}
