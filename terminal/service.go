package terminal

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nolindnaidoo/termfolio/internal/logx"
	"github.com/nolindnaidoo/termfolio/schema"
)

// OpenRequest describes a new visitor session.
type OpenRequest struct {
	// ID is optional; a random UUID is assigned when empty.
	ID    schema.SessionID
	Probe Probe
}

// Service owns the live sessions of every surface. The command registry is
// built once and shared, since it holds no per-session state.
type Service struct {
	cfg      schema.TerminalConfig
	identity Identity
	registry *Registry
	sink     EventSink

	mu       sync.Mutex
	sessions map[schema.SessionID]*Session
}

// NewService validates cfg and constructs a Service.
func NewService(cfg schema.TerminalConfig, identity Identity, sink EventSink) (*Service, error) {
	normalized, err := schema.NormalizeTerminalConfig(cfg)
	if err != nil {
		return nil, err
	}
	identity = identity.withDefaults()
	return &Service{
		cfg:      normalized,
		identity: identity,
		registry: BuildRegistry(identity),
		sink:     sink,
		sessions: make(map[schema.SessionID]*Session),
	}, nil
}

// Identity returns the persona sessions report.
func (s *Service) Identity() Identity {
	return s.identity
}

// Open creates and registers an idle session. The caller starts Boot.
func (s *Service) Open(ctx context.Context, req OpenRequest) (*Session, error) {
	id := req.ID
	if id == "" {
		id = schema.SessionID(uuid.NewString())
	}
	log := logx.WithSession(ctx, id)
	sess, err := NewSession(SessionOptions{
		ID:       id,
		Config:   s.cfg,
		Identity: s.identity,
		Registry: s.registry,
		Probe:    req.Probe,
		Sink:     s.sink,
		Logger:   logx.Ctx(ctx),
	})
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if _, exists := s.sessions[id]; exists {
		s.mu.Unlock()
		sess.Close()
		return nil, fmt.Errorf("%w: session %s already open", schema.ErrInvalidRequest, id)
	}
	s.sessions[id] = sess
	count := len(s.sessions)
	s.mu.Unlock()
	log.Info("terminal session opened", "sessions", count)
	return sess, nil
}

// Get returns a live session.
func (s *Service) Get(id schema.SessionID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, schema.ErrSessionNotFound
	}
	return sess, nil
}

// Close tears down and forgets a session.
func (s *Service) Close(id schema.SessionID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return schema.ErrSessionNotFound
	}
	sess.Close()
	logx.WithSession(context.Background(), id).Info("terminal session closed", "sessions", count)
	return nil
}

// CloseAll tears down every session.
func (s *Service) CloseAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[schema.SessionID]*Session)
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.Close()
	}
}

// Count returns the number of live sessions.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
