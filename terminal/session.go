package terminal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nolindnaidoo/termfolio/internal/logx"
	"github.com/nolindnaidoo/termfolio/schema"
	"pkt.systems/pslog"
)

const component = "terminal"

// Probe resolves visitor details during boot. UserIP must not fail; it
// returns a fallback value instead.
type Probe interface {
	DeviceInfo() schema.DeviceInfo
	UserIP(ctx context.Context) string
}

// SessionOptions configures a Session.
type SessionOptions struct {
	ID       schema.SessionID
	Config   schema.TerminalConfig
	Identity Identity
	// Registry defaults to BuildRegistry(Identity).
	Registry *Registry
	Probe    Probe
	Sink     EventSink
	Logger   pslog.Logger
}

// State is a point-in-time copy of a session.
type State struct {
	ID             schema.SessionID      `json:"id"`
	Lines          []schema.TerminalLine `json:"lines"`
	CurrentInput   string                `json:"current_input"`
	History        []string              `json:"history"`
	HistoryIndex   int                   `json:"history_index"`
	CurrentContent schema.Section        `json:"current_content"`
	DeviceInfo     schema.DeviceInfo     `json:"device_info"`
	UserIP         string                `json:"user_ip"`
	IsBooting      bool                  `json:"is_booting"`
	ShowInput      bool                  `json:"show_input"`
	Phase          schema.BootPhase      `json:"phase"`
	Prompt         string                `json:"prompt"`
	Title          string                `json:"title"`
}

// Session is one visitor's terminal. Submissions are serialized so lines
// appear in the order they were scheduled; state reads never wait on the
// processing delay.
type Session struct {
	id       schema.SessionID
	cfg      schema.TerminalConfig
	identity Identity
	registry *Registry
	nav      *Navigator
	probe    Probe
	sink     EventSink
	log      pslog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	bootOnce   sync.Once
	dispatchMu sync.Mutex

	mu        sync.Mutex
	buffer    *Buffer
	history   *History
	input     string
	device    schema.DeviceInfo
	userIP    string
	phase     schema.BootPhase
	showInput bool
	closed    bool
	unsubNav  func()
}

// NewSession constructs an idle session. Call Boot to enable input.
func NewSession(opts SessionOptions) (*Session, error) {
	cfg, err := schema.NormalizeTerminalConfig(opts.Config)
	if err != nil {
		return nil, err
	}
	identity := opts.Identity.withDefaults()
	reg := opts.Registry
	if reg == nil {
		reg = BuildRegistry(identity)
	}
	var sink EventSink = nopSink{}
	if opts.Sink != nil {
		sink = opts.Sink
	}
	log := opts.Logger
	if log == nil {
		log = pslog.Ctx(context.Background())
	}
	if opts.ID != "" {
		log = log.With("session", opts.ID)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:       opts.ID,
		cfg:      cfg,
		identity: identity,
		registry: reg,
		nav:      NewNavigator(),
		probe:    opts.Probe,
		sink:     sink,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		buffer:   NewBuffer(cfg.BufferMaxLines),
		history:  NewHistory(),
		device:   schema.UnknownDevice(),
		userIP:   schema.DefaultUser,
		phase:    schema.BootIdle,
	}
	s.unsubNav = s.nav.Subscribe(s.onNavigate)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() schema.SessionID {
	return s.id
}

// Navigator exposes the navigation bridge so hosts can follow content changes.
func (s *Session) Navigator() *Navigator {
	return s.nav
}

// Registry returns the command table the session dispatches against.
func (s *Session) Registry() *Registry {
	return s.registry
}

// Submit dispatches one line of input. Empty input is ignored and input is
// refused with ErrInputDisabled until boot reaches ready. The echo is
// appended immediately; output follows after the processing delay.
func (s *Session) Submit(ctx context.Context, input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}
	ctx, stop := s.bind(ctx)
	defer stop()

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return schema.ErrSessionClosed
	}
	if !s.showInput {
		s.mu.Unlock()
		return schema.ErrInputDisabled
	}
	s.history.Append(trimmed)
	echo := s.buffer.Append(schema.LineCommand, "$ "+trimmed)
	state := s.stateEventLocked()
	s.mu.Unlock()
	s.sink.OnLine(schema.LineEvent{SessionID: s.id, Line: echo})
	s.sink.OnState(state)
	s.audit("command_execute", "terminal command", "input", trimmed)

	if err := wait(ctx, s.cfg.ProcessingDelay); err != nil {
		return s.interrupted(err)
	}
	if s.isClosed() {
		return schema.ErrSessionClosed
	}

	outcome := Dispatch(s.registry, CommandContext{Current: s.nav.Current(), Navigate: s.navigate}, trimmed)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return schema.ErrSessionClosed
	}
	if outcome.Clear {
		s.buffer.Clear()
		s.mu.Unlock()
		s.sink.OnClear(schema.ClearEvent{SessionID: s.id})
		s.audit("clear", "terminal cleared")
		return nil
	}
	appended := make([]schema.TerminalLine, 0, len(outcome.Lines))
	for _, line := range outcome.Lines {
		appended = append(appended, s.buffer.Append(line.Kind, line.Content))
	}
	s.mu.Unlock()
	for _, line := range appended {
		s.sink.OnLine(schema.LineEvent{SessionID: s.id, Line: line})
	}

	switch {
	case outcome.Err != nil:
		logx.WithAction(s.log, component, "command_error").Error("terminal command failed", "command", outcome.Command.Name, "err", outcome.Err)
	case !outcome.Found:
		s.audit("command_not_found", "terminal command not found", "input", trimmed)
	default:
		s.audit("command_success", "terminal command ok", "command", outcome.Command.Name, "category", outcome.Command.Category, "lines", len(outcome.Lines))
	}
	return nil
}

// Lines returns a copy of the buffer.
func (s *Session) Lines() []schema.TerminalLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.Lines()
}

// View returns the visible tail of the buffer for a viewport of limit lines.
func (s *Session) View(limit int) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.Snapshot(limit)
}

// Scroll moves the viewport; positive delta shows older lines.
func (s *Session) Scroll(delta, limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer.Scroll(delta, limit)
}

// ResetScroll returns the viewport to the newest line.
func (s *Session) ResetScroll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer.ResetScroll()
}

// State returns a copy of the full session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:             s.id,
		Lines:          s.buffer.Lines(),
		CurrentInput:   s.input,
		History:        s.history.Entries(),
		HistoryIndex:   s.history.Index(),
		CurrentContent: s.nav.Current(),
		DeviceInfo:     s.device,
		UserIP:         s.userIP,
		IsBooting:      s.phase != schema.BootReady,
		ShowInput:      s.showInput,
		Phase:          s.phase,
		Prompt:         s.promptLocked(),
		Title:          titleFor(s.phase),
	}
}

// Prompt returns the shell prompt, e.g. 203.0.113.9@chrome-macos:~$.
func (s *Session) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promptLocked()
}

// Title is the window title for the current boot phase.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return titleFor(s.phase)
}

// Close tears the session down. Pending delays are cancelled and no further
// lines or events are applied. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsub := s.unsubNav
	s.mu.Unlock()
	s.cancel()
	if unsub != nil {
		unsub()
	}
	s.log.Debug("terminal session closed")
}

// Done is closed when the session is torn down.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *Session) navigate(section schema.Section) {
	if err := s.nav.NavigateTo(section); err != nil {
		logx.WithAction(s.log, component, "navigate").Warn("terminal navigate failed", "err", err)
	}
}

func (s *Session) onNavigate(from, to schema.Section) {
	if s.isClosed() {
		return
	}
	s.sink.OnNavigate(schema.NavigateEvent{SessionID: s.id, From: from, To: to})
	logx.WithAction(s.log, "navigation", "navigate").Info("content changed", "from", from, "to", to)
}

func (s *Session) audit(action, msg string, keyvals ...any) {
	if s.cfg.DisableAuditLogging {
		return
	}
	logx.WithAction(s.log, component, action).Debug(msg, keyvals...)
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) interrupted(err error) error {
	if s.isClosed() {
		return schema.ErrSessionClosed
	}
	return err
}

// bind returns a context that is also cancelled when the session closes.
func (s *Session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *Session) promptLocked() string {
	return fmt.Sprintf("%s@%s-%s:~$", s.userIP, s.device.Browser, s.device.Device)
}

func (s *Session) stateEventLocked() schema.StateEvent {
	return schema.StateEvent{
		SessionID: s.id,
		Phase:     s.phase,
		ShowInput: s.showInput,
		Input:     s.input,
		Prompt:    s.promptLocked(),
	}
}

func titleFor(phase schema.BootPhase) string {
	if phase == schema.BootReady {
		return "Portfolio Terminal"
	}
	return "Security Terminal"
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
