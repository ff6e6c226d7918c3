package sshserver

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/muesli/termenv"
	"pkt.systems/pslog"

	"github.com/nolindnaidoo/termfolio/internal/content"
	"github.com/nolindnaidoo/termfolio/internal/eventbus"
	"github.com/nolindnaidoo/termfolio/schema"
	"github.com/nolindnaidoo/termfolio/terminal"
)

const (
	frameInterval = 40 * time.Millisecond
	submitQueue   = 8
)

// Window is a terminal size change.
type Window struct {
	Width  int
	Height int
}

// AttachOptions configures Attach.
type AttachOptions struct {
	Session *terminal.Session
	Profile content.Profile
	Theme   schema.ThemeName
	// Term is the terminal type, e.g. xterm-256color; it selects the color depth.
	Term   string
	QR     bool
	Events <-chan eventbus.Event
	Width  int
	Height int
}

// Attach runs the two-pane UI for a session on rw until the visitor quits,
// the session closes, or ctx ends. The caller boots the session.
func Attach(ctx context.Context, rw io.ReadWriter, opts AttachOptions, winCh <-chan Window) error {
	if opts.Session == nil {
		return errors.New("terminal session is required")
	}
	ui := newTerminalUI(rw, opts.Session, opts.Profile, themeForName(opts.Theme), colorProfile(opts.Term), opts.QR, opts.Events)
	ui.SetSize(opts.Width, opts.Height)
	return ui.Run(ctx, winCh)
}

// terminalUI drives one SSH visitor: keys in, frames out. Everything except
// the submit worker runs on the Run goroutine.
type terminalUI struct {
	rw      io.ReadWriter
	term    *terminal.Session
	profile content.Profile
	region  *content.Region
	styles  styles
	screen  *screen
	events  <-chan eventbus.Event
	qr      bool
	ctx     context.Context

	width  int
	height int

	started time.Time
	section schema.Section
	panel   content.Result
	editor  lineEditor
	dirty   bool
	submits chan string
}

func newTerminalUI(rw io.ReadWriter, term *terminal.Session, profile content.Profile, theme tuiTheme, colors termenv.Profile, qr bool, events <-chan eventbus.Event) *terminalUI {
	t := &terminalUI{
		rw:      rw,
		term:    term,
		profile: profile,
		styles:  newStyles(theme, colors),
		screen:  newScreen(rw),
		events:  events,
		qr:      qr,
		started: time.Now(),
		section: term.Navigator().Current(),
		submits: make(chan string, submitQueue),
	}
	t.region = content.NewRegion(func(_ context.Context, section schema.Section) (content.Panel, error) {
		return content.Render(t.profile, section, t.contentOptions())
	})
	return t
}

func (t *terminalUI) log() pslog.Logger {
	ctx := t.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return pslog.Ctx(ctx)
}

func (t *terminalUI) SetSize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	t.width = width
	t.height = height
}

func (t *terminalUI) contentOptions() content.Options {
	return content.Options{
		Width:   computeLayout(t.width, t.height).contentWidth(),
		Elapsed: time.Since(t.started),
		QR:      t.qr,
	}
}

// Run blocks until the visitor disconnects, the session closes, or ctx ends.
func (t *terminalUI) Run(ctx context.Context, winCh <-chan Window) error {
	if ctx == nil {
		ctx = context.Background()
	}
	t.ctx = ctx
	t.screen.EnterAltScreen()
	defer t.screen.ExitAltScreen()

	t.refreshPanel()
	t.render()
	t.log().Info("tui session start", "width", t.width, "height", t.height)

	keys := make(chan key, 16)
	go readKeys(t.rw, keys)
	go t.submitLoop(ctx)

	interval := t.profile.RoleInterval
	if interval <= 0 {
		interval = content.DefaultRoleInterval
	}
	roleTicker := time.NewTicker(interval)
	frameTicker := time.NewTicker(frameInterval)
	defer roleTicker.Stop()
	defer frameTicker.Stop()

	events := t.events

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.term.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				return nil
			}
			if t.handleKey(ctx, k) {
				t.log().Info("tui session quit")
				return nil
			}
		case win, ok := <-winCh:
			if !ok {
				winCh = nil
				break
			}
			t.SetSize(win.Width, win.Height)
			t.refreshPanel()
			t.screen.Clear()
			t.dirty = true
			t.log().Debug("tui resize", "width", t.width, "height", t.height)
		case ev, ok := <-events:
			if !ok {
				events = nil
				break
			}
			t.handleEvent(ev)
		case <-roleTicker.C:
			if t.section == schema.SectionHome && t.panel.Failure == nil {
				t.refreshPanel()
				t.dirty = true
			}
		case <-frameTicker.C:
			if t.dirty {
				t.render()
			}
		}
	}
}

func (t *terminalUI) handleEvent(ev eventbus.Event) {
	switch ev.Type {
	case eventbus.EventNavigate:
		t.section = ev.Navigate.To
		t.refreshPanel()
	case eventbus.EventClear:
		t.term.ResetScroll()
	}
	t.dirty = true
}

// handleKey applies one key and reports whether the visitor asked to leave.
func (t *terminalUI) handleKey(ctx context.Context, k key) bool {
	t.dirty = true
	rows := computeLayout(t.width, t.height).logRows(true)
	switch k.kind {
	case keyPageUp:
		t.term.Scroll(max(rows/2, 1), rows)
		return false
	case keyPageDown:
		t.term.Scroll(-max(rows/2, 1), rows)
		return false
	case keyCtrlL:
		t.screen.Clear()
		return false
	case keyCtrlR:
		t.refreshPanel()
		return false
	}

	if t.term.Phase() != schema.BootReady {
		return k.kind == keyCtrlC || k.kind == keyCtrlD
	}

	switch k.kind {
	case keyCtrlC:
		if t.editor.Len() == 0 {
			return true
		}
		t.editor.Clear()
	case keyCtrlD:
		if t.editor.Len() == 0 {
			return true
		}
		t.editor.Delete()
	case keyEnter:
		input := t.editor.String()
		t.editor.Clear()
		t.syncInput()
		t.term.ResetScroll()
		t.enqueue(input)
		return false
	case keyUp:
		t.applySessionKey(ctx, terminal.KeyUp)
		return false
	case keyDown:
		t.applySessionKey(ctx, terminal.KeyDown)
		return false
	case keyTab:
		t.applySessionKey(ctx, terminal.KeyTab)
		return false
	case keyRune:
		t.editor.InsertRune(k.r)
	case keyBackspace:
		t.editor.Backspace()
	case keyDelete:
		t.editor.Delete()
	case keyLeft:
		t.editor.MoveLeft()
	case keyRight:
		t.editor.MoveRight()
	case keyHome, keyCtrlA:
		t.editor.MoveStart()
	case keyEnd, keyCtrlE:
		t.editor.MoveEnd()
	case keyAltB:
		t.editor.MoveWordLeft()
	case keyAltF:
		t.editor.MoveWordRight()
	case keyCtrlW:
		t.editor.DeleteWordBackward()
	case keyCtrlU:
		t.editor.KillLineStart()
	case keyCtrlK:
		t.editor.KillLineEnd()
	default:
		return false
	}
	t.syncInput()
	return false
}

// applySessionKey hands history and completion keys to the session, which
// owns the history, then mirrors the result into the editor.
func (t *terminalUI) applySessionKey(ctx context.Context, k terminal.Key) {
	t.syncInput()
	if err := t.term.HandleKey(ctx, k); err != nil {
		t.log().Debug("tui key failed", "key", k, "err", err)
		return
	}
	t.editor.SetString(t.term.Input())
}

func (t *terminalUI) syncInput() {
	if err := t.term.SetInput(t.editor.String()); err != nil && !errors.Is(err, schema.ErrSessionClosed) {
		t.log().Debug("tui input sync failed", "err", err)
	}
}

func (t *terminalUI) enqueue(input string) {
	select {
	case t.submits <- input:
	default:
		t.log().Warn("tui submit dropped", "reason", "queue full")
	}
}

// submitLoop runs submissions one at a time, in the order they were typed,
// so the processing delay never stalls rendering.
func (t *terminalUI) submitLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.term.Done():
			return
		case input := <-t.submits:
			err := t.term.Submit(ctx, input)
			if err == nil || errors.Is(err, schema.ErrSessionClosed) || errors.Is(err, context.Canceled) {
				continue
			}
			t.log().Warn("tui submit failed", "err", err)
		}
	}
}

func (t *terminalUI) refreshPanel() {
	ctx := t.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	t.panel = t.region.Render(ctx, t.section)
}

func (t *terminalUI) currentFrame() frame {
	phase := t.term.Phase()
	showInput := phase == schema.BootReady
	rows := computeLayout(t.width, t.height).logRows(showInput)
	return frame{
		width:     t.width,
		height:    t.height,
		title:     t.term.Title(),
		panel:     t.panel.Panel,
		failed:    t.panel.Failure != nil,
		view:      t.term.View(rows),
		prompt:    t.term.Prompt(),
		input:     t.editor.String(),
		cursorCol: t.editor.CursorColumn(),
		showInput: showInput,
	}
}

func (t *terminalUI) render() {
	lines, row, col := renderFrame(t.currentFrame(), t.styles)
	if err := t.screen.Render(lines, row, col); err != nil {
		t.log().Debug("tui render failed", "err", err)
	}
	t.dirty = false
}
