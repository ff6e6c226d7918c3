package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nolindnaidoo/termfolio/internal/content"
	"github.com/nolindnaidoo/termfolio/internal/logx"
	"github.com/nolindnaidoo/termfolio/internal/probe"
	"github.com/nolindnaidoo/termfolio/schema"
	"github.com/nolindnaidoo/termfolio/terminal"
)

const (
	defaultSessionCookie = "termfolio_session"
	defaultSessionTTL    = 24 * time.Hour
	reapInterval         = time.Minute
	maxBodySize          = 16 << 10
	maxContentWidth      = 200
)

// Deps are the collaborators the HTTP server needs.
type Deps struct {
	Terminals *terminal.Service
	Profile   content.Profile
	// Hub must be the event sink Terminals publishes to.
	Hub          *Hub
	Resolver     probe.Resolver
	ProbeTimeout time.Duration
}

// Server serves the HTTP API and UI.
type Server struct {
	cfg          Config
	terminals    *terminal.Service
	profile      content.Profile
	resolver     probe.Resolver
	probeTimeout time.Duration
	sessions     *sessionStore
	hub          *Hub
	mount        mount
	index        indexPage
}

// NewServer constructs an HTTP server.
func NewServer(cfg Config, deps Deps) *Server {
	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if strings.TrimSpace(cfg.SessionCookie) == "" {
		cfg.SessionCookie = defaultSessionCookie
	}
	hub := deps.Hub
	if hub == nil {
		hub = NewHub(cfg.HubHistory)
	}
	s := &Server{
		cfg:          cfg,
		terminals:    deps.Terminals,
		profile:      deps.Profile,
		resolver:     deps.Resolver,
		probeTimeout: deps.ProbeTimeout,
		hub:          hub,
		mount:        newMount(cfg.BaseURL, cfg.BasePath),
	}
	s.sessions = newSessionStore(ttl, s.releaseTerminal)
	return s
}

// SetBaseContext sets the parent context for session lifetimes and starts
// reaping expired sessions until ctx ends.
func (s *Server) SetBaseContext(ctx context.Context) {
	if s == nil || ctx == nil {
		return
	}
	s.sessions.setBaseContext(ctx)
	go s.sessions.run(ctx, reapInterval)
}

// Hub returns the server's event hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns an http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(staticFS))))
	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/api/state", s.requireSession(s.handleState))
	mux.HandleFunc("/api/input", s.requireSession(s.handleInput))
	mux.HandleFunc("/api/key", s.requireSession(s.handleKey))
	mux.HandleFunc("/api/command", s.requireSession(s.handleCommand))
	mux.HandleFunc("/api/content", s.requireSession(s.handleContent))
	mux.HandleFunc("/api/stream", s.requireSession(s.handleStream))

	handler := withRequestLogging(withSecurityHeaders(withRecovery(mux, s.profile.Email)), s.lookupSession)
	return s.mount.wrap(handler)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, err := s.index.render(s.profile, s.mount)
	if err != nil {
		logx.Ctx(r.Context()).Error("http index render failed", "err", err)
		http.Error(w, "index not found", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(data))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.terminals.Count(),
	})
}

// handleSession opens and boots the visitor's terminal, or returns the
// existing one when the cookie is still valid.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	remote := clientIP(r)
	log := logx.Ctx(r.Context()).With("remote", remote)
	if token := s.sessionToken(r); token != "" {
		if entry, ok := s.sessions.get(token); ok {
			if term, err := s.terminals.Get(entry.id); err == nil {
				writeJSON(w, http.StatusOK, term.State())
				log.Debug("http session reused", "session", entry.id)
				return
			}
			s.sessions.delete(token)
		}
	}

	var payload struct {
		Platform string `json:"platform"`
	}
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxBodySize), &payload); err != nil && !errors.Is(err, io.EOF) {
		log.Warn("http session decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	platform := payload.Platform
	if platform == "" {
		platform = r.Header.Get("Sec-CH-UA-Platform")
	}
	visitor := probe.NewVisitor(
		probe.Classify(r.UserAgent(), platform),
		probe.RemoteResolver{Remote: remote, Next: s.resolver},
		s.probeTimeout,
	)

	token, entry := s.sessions.create()
	ctx := logx.ContextWithSessionLogger(entry.ctx, log.With("session", entry.id), entry.id)
	term, err := s.terminals.Open(ctx, terminal.OpenRequest{ID: entry.id, Probe: visitor})
	if err != nil {
		s.sessions.delete(token)
		log.Error("http session open failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	go func() {
		if err := term.Boot(ctx); err != nil && !errors.Is(err, schema.ErrSessionClosed) && !errors.Is(err, context.Canceled) {
			logx.Ctx(ctx).Warn("http session boot failed", "err", err)
		}
	}()

	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  entry.expiresAt,
	})
	writeJSON(w, http.StatusOK, term.State())
	log.Info("http session opened", "session", entry.id)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, term *terminal.Session) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, term.State())
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request, term *terminal.Session) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		Input string `json:"input"`
	}
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxBodySize), &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := term.SetInput(payload.Input); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"input": term.Input()})
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request, term *terminal.Session) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	log := logx.Ctx(r.Context())
	var payload struct {
		Key   string  `json:"key"`
		Input *string `json:"input"`
	}
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxBodySize), &payload); err != nil {
		log.Warn("http key decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	key, err := terminal.ParseKey(payload.Key)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if payload.Input != nil {
		if err := term.SetInput(*payload.Input); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
	}
	if err := term.HandleKey(r.Context(), key); err != nil {
		log.Debug("http key failed", "key", key, "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"input": term.Input()})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request, term *terminal.Session) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	log := logx.Ctx(r.Context())
	var payload struct {
		Command string `json:"command"`
	}
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxBodySize), &payload); err != nil {
		log.Warn("http command decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := term.Submit(r.Context(), payload.Command); err != nil {
		log.Debug("http command failed", "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request, term *terminal.Session) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	section := term.Navigator().Current()
	if name := r.URL.Query().Get("section"); name != "" {
		parsed, ok := schema.ParseSection(name)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", schema.ErrUnknownSection, name))
			return
		}
		section = parsed
	}
	width := parseInt(r.URL.Query().Get("width"), 0)
	if width < 0 || width > maxContentWidth {
		width = 0
	}
	var elapsed time.Duration
	if entry, ok := sessionFromContext(r.Context()); ok {
		elapsed = time.Since(entry.createdAt)
	}
	region := content.ProfileRegion(s.profile, content.Options{Width: width, Elapsed: elapsed})
	result := region.Render(r.Context(), section)
	writeJSON(w, http.StatusOK, map[string]any{
		"section":          section,
		"title":            pageTitle(result.Panel.Title, s.profile.Name),
		"panel":            result.Panel,
		"failure":          result.Failure,
		"role_interval_ms": s.profile.RoleInterval.Milliseconds(),
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request, term *terminal.Session) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("stream unsupported"))
		return
	}
	log := logx.Ctx(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Subscribe before reading state so nothing published in between is lost.
	ch, unsubscribe, seq := s.hub.Subscribe(term.ID())
	defer unsubscribe()

	lastID := parseUint(r.Header.Get("Last-Event-ID"))
	replayCount := 0
	if lastID > 0 && lastID <= seq {
		replay := s.hub.Replay(term.ID(), lastID)
		replayCount = len(replay)
		for _, event := range replay {
			if event.Seq > seq {
				break
			}
			_ = writeSSEvent(w, event)
		}
	} else {
		snapshot := term.State()
		_ = writeSSEvent(w, StreamEvent{
			Seq:       seq,
			Type:      "snapshot",
			Snapshot:  &snapshot,
			Timestamp: time.Now(),
		})
	}
	flusher.Flush()

	notify := r.Context().Done()
	log.Info("http stream opened", "last_id", lastID, "replay", replayCount)
	for {
		select {
		case <-notify:
			log.Info("http stream closed")
			return
		case <-term.Done():
			log.Info("http stream closed", "reason", "session closed")
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if event.Seq <= seq {
				continue
			}
			_ = writeSSEvent(w, event)
			flusher.Flush()
		}
	}
}

func (s *Server) releaseTerminal(id schema.SessionID) {
	if err := s.terminals.Close(id); err != nil && !errors.Is(err, schema.ErrSessionNotFound) {
		logx.WithSession(context.Background(), id).Warn("terminal close failed", "err", err)
	}
	s.hub.Forget(id)
}

func (s *Server) requireSession(next func(http.ResponseWriter, *http.Request, *terminal.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logx.Ctx(r.Context()).With("remote", clientIP(r))
		token := s.sessionToken(r)
		if token == "" {
			log.Debug("http session missing")
			writeError(w, http.StatusUnauthorized, errors.New("missing session"))
			return
		}
		entry, ok := s.sessions.get(token)
		if !ok {
			log.Debug("http session invalid")
			writeError(w, http.StatusUnauthorized, errors.New("invalid session"))
			return
		}
		term, err := s.terminals.Get(entry.id)
		if err != nil {
			s.sessions.delete(token)
			writeError(w, http.StatusUnauthorized, err)
			return
		}
		log = log.With("session", entry.id)
		ctx := logx.ContextWithSessionLogger(r.Context(), log, entry.id)
		ctx = withSessionContext(ctx, entry)
		next(w, r.WithContext(ctx), term)
	}
}

type sessionContextKey struct{}

func withSessionContext(ctx context.Context, sess session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

func sessionFromContext(ctx context.Context) (session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(session)
	return sess, ok
}

func (s *Server) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(s.cfg.SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) lookupSession(r *http.Request) schema.SessionID {
	if s == nil || r == nil {
		return ""
	}
	token := s.sessionToken(r)
	if token == "" {
		return ""
	}
	entry, ok := s.sessions.get(token)
	if !ok {
		return ""
	}
	return entry.id
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, schema.ErrSessionClosed), errors.Is(err, schema.ErrSessionNotFound):
		return http.StatusGone
	case errors.Is(err, schema.ErrInvalidRequest), errors.Is(err, schema.ErrUnknownKey),
		errors.Is(err, schema.ErrUnknownSection), errors.Is(err, schema.ErrInputDisabled):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func decodeJSON(body io.Reader, target any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeSSEvent(w http.ResponseWriter, event StreamEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if event.Seq > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", event.Seq)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", event.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", strings.TrimSpace(string(data)))
	return nil
}

func parseUint(value string) uint64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
