package sshserver

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nolindnaidoo/termfolio/internal/content"
	"github.com/nolindnaidoo/termfolio/schema"
	"github.com/nolindnaidoo/termfolio/terminal"
)

const (
	minWidth      = 20
	minHeight     = 6
	splitMinWidth = 72
	footerHint    = `Press Tab for autocomplete • Use ↑/↓ for command history • Type "help" for commands`
	scrolledHint  = "Scrolled back • PgDn for newer lines • Enter returns to the latest"
	retryHint     = "Content unavailable • Ctrl+R to try again"
	tooSmall      = "Window too small"
)

// layout is the geometry of one frame. Rows and columns are 0-based.
type layout struct {
	width   int
	height  int
	split   bool
	leftW   int
	rightX  int
	rightW  int
	bodyTop int
	bodyH   int
}

func computeLayout(width, height int) layout {
	l := layout{width: width, height: height, bodyTop: 1, bodyH: height - 2}
	if width >= splitMinWidth {
		l.split = true
		l.leftW = width * 2 / 5
		l.rightX = l.leftW + 1
		l.rightW = width - l.rightX
	} else {
		l.rightW = width
	}
	return l
}

func (l layout) tooSmall() bool {
	return l.width < minWidth || l.height < minHeight
}

// contentWidth is the usable width inside the content pane.
func (l layout) contentWidth() int {
	return max(l.leftW-4, 1)
}

// terminalWidth is the usable width inside the terminal pane.
func (l layout) terminalWidth() int {
	return max(l.rightW-4, 1)
}

// logRows is how many terminal lines fit above the prompt.
func (l layout) logRows(showInput bool) int {
	rows := l.bodyH - 2
	if showInput {
		rows--
	}
	return max(rows, 1)
}

// frame is everything needed to draw one screen.
type frame struct {
	width     int
	height    int
	title     string
	panel     content.Panel
	failed    bool
	view      terminal.View
	prompt    string
	input     string
	cursorCol int
	showInput bool
}

// renderFrame draws f and returns exactly f.height lines plus the 1-based
// cursor position. The cursor row is 0 when input is hidden.
func renderFrame(f frame, st styles) ([]string, int, int) {
	l := computeLayout(f.width, f.height)
	if l.tooSmall() {
		lines := make([]string, max(f.height, 1))
		lines[0] = ansi.Truncate(tooSmall, max(f.width, 1), "")
		return lines, 0, 0
	}

	lines := make([]string, 0, f.height)
	lines = append(lines, renderHeader(f.title, f.panel.Title, f.width, st))

	termTitle := "terminal"
	if !l.split {
		termTitle = f.panel.Title
	}
	logRows := l.logRows(f.showInput)
	body := renderLog(f.view.Lines, l.terminalWidth(), logRows, st)
	var promptCol int
	if f.showInput {
		promptLine, col := renderPrompt(f.prompt, f.input, f.cursorCol, l.terminalWidth(), st)
		body = append(body, promptLine)
		promptCol = col
	}
	right := renderBox(termTitle, body, l.rightW, l.bodyH, st)

	if l.split {
		left := renderBox(f.panel.Title, renderPanel(f.panel, f.failed, st), l.leftW, l.bodyH, st)
		joined := lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(left, "\n"), " ", strings.Join(right, "\n"))
		lines = append(lines, strings.Split(joined, "\n")...)
	} else {
		lines = append(lines, right...)
	}

	hint := footerHint
	switch {
	case f.failed:
		hint = retryHint
	case !f.view.AtBottom:
		hint = scrolledHint
	}
	lines = append(lines, st.meta.Render(ansi.Truncate(hint, f.width, "…")))

	if !f.showInput {
		return lines, 0, 0
	}
	// Box border plus one column of padding precede the prompt.
	row := l.bodyTop + 1 + logRows + 1
	col := l.rightX + 2 + promptCol + 1
	return lines, row, col
}

func renderHeader(title, section string, width int, st styles) string {
	left := " ● ● ●  " + title
	right := ""
	if section != "" {
		right = "~/" + strings.ToLower(section) + " "
	}
	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		right = ""
		gap = width - ansi.StringWidth(left)
	}
	if gap < 0 {
		return st.header.Render(ansi.Truncate(left, width, "…"))
	}
	return st.header.Render(left + strings.Repeat(" ", gap) + right)
}

func renderPanel(panel content.Panel, failed bool, st styles) []string {
	out := make([]string, 0, len(panel.Lines))
	for i, line := range panel.Lines {
		switch {
		case i == 0 && failed:
			out = append(out, st.failure.Render(line))
		case i == 0:
			out = append(out, st.title.Render(line))
		case strings.Contains(line, "://") || strings.HasPrefix(line, "/") || strings.Contains(line, "@"):
			out = append(out, st.accent.Render(line))
		default:
			out = append(out, st.text.Render(line))
		}
	}
	return out
}

// renderLog wraps terminal lines to width and keeps the newest rows.
func renderLog(lines []schema.TerminalLine, width, rows int, st styles) []string {
	var wrapped []string
	for _, line := range lines {
		style := st.line(line.Kind)
		text := sanitizeLine(line.Content)
		if text == "" {
			wrapped = append(wrapped, "")
			continue
		}
		for _, part := range strings.Split(ansi.Wrap(text, width, ""), "\n") {
			wrapped = append(wrapped, style.Render(part))
		}
	}
	if len(wrapped) > rows {
		wrapped = wrapped[len(wrapped)-rows:]
	}
	out := make([]string, rows)
	copy(out[rows-len(wrapped):], wrapped)
	return out
}

// renderPrompt lays out the prompt and input, scrolling the input left so
// the cursor stays visible. It returns the cursor column within the line.
func renderPrompt(prompt, input string, cursorCol, width int, st styles) (string, int) {
	if ansi.StringWidth(prompt)+1 > width*2/3 {
		prompt = "$"
	}
	prefix := prompt + " "
	avail := max(width-ansi.StringWidth(prefix), 1)
	visible, col := inputWindow(input, cursorCol, avail)
	return st.prompt.Render(prompt) + " " + st.text.Render(visible), ansi.StringWidth(prefix) + col
}

func inputWindow(input string, cursorCol, avail int) (string, int) {
	if cursorCol < avail {
		return ansi.Truncate(input, avail, ""), cursorCol
	}
	skip := cursorCol - avail + 1
	dropped := 0
	runes := []rune(input)
	i := 0
	for i < len(runes) && dropped < skip {
		dropped += ansi.StringWidth(string(runes[i]))
		i++
	}
	return ansi.Truncate(string(runes[i:]), avail, ""), cursorCol - dropped
}

// renderBox draws a rounded border of exactly w x h cells around body.
func renderBox(title string, body []string, w, h int, st styles) []string {
	b := lipgloss.RoundedBorder()
	inner := max(w-2, 0)
	textW := max(inner-2, 0)

	var top string
	if title != "" && textW > 2 {
		label := " " + ansi.Truncate(title, textW-2, "…") + " "
		fill := max(inner-1-ansi.StringWidth(label), 0)
		top = st.border.Render(b.TopLeft+b.Top) + st.title.Render(label) + st.border.Render(strings.Repeat(b.Top, fill)+b.TopRight)
	} else {
		top = st.border.Render(b.TopLeft + strings.Repeat(b.Top, inner) + b.TopRight)
	}
	out := make([]string, 0, h)
	out = append(out, top)
	for i := 0; i < h-2; i++ {
		line := ""
		if i < len(body) {
			line = ansi.Truncate(body[i], textW, "…")
		}
		pad := max(textW-ansi.StringWidth(line), 0)
		out = append(out, st.border.Render(b.Left)+" "+line+strings.Repeat(" ", pad)+" "+st.border.Render(b.Right))
	}
	out = append(out, st.border.Render(b.BottomLeft+strings.Repeat(b.Bottom, inner)+b.BottomRight))
	return out
}

// sanitizeLine drops control sequences so visitor input cannot drive the
// remote terminal.
func sanitizeLine(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
