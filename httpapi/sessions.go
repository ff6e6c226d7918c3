package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nolindnaidoo/termfolio/internal/logx"
	"github.com/nolindnaidoo/termfolio/schema"
)

// session binds a visitor cookie to a terminal session.
type session struct {
	id        schema.SessionID
	createdAt time.Time
	expiresAt time.Time
	ctx       context.Context
	cancel    context.CancelFunc
}

type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	baseCtx  context.Context
	items    map[string]session
	onExpire func(schema.SessionID)
	now      func() time.Time
}

func newSessionStore(ttl time.Duration, onExpire func(schema.SessionID)) *sessionStore {
	return &sessionStore{
		ttl:      ttl,
		baseCtx:  context.TODO(),
		items:    make(map[string]session),
		onExpire: onExpire,
		now:      time.Now,
	}
}

func (s *sessionStore) create() (string, session) {
	token := randomToken(32)
	now := s.now()
	parent := s.baseContext()
	ctx, cancel := context.WithCancel(parent)
	entry := session{
		id:        schema.SessionID(uuid.NewString()),
		createdAt: now,
		expiresAt: now.Add(s.ttl),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.mu.Lock()
	s.items[token] = entry
	s.mu.Unlock()
	logx.WithSession(context.Background(), entry.id).Info("visitor session created", "expires", entry.expiresAt.Format(time.RFC3339))
	return token, entry
}

func (s *sessionStore) get(token string) (session, bool) {
	s.mu.Lock()
	entry, ok := s.items[token]
	if !ok {
		s.mu.Unlock()
		return session{}, false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.items, token)
		s.mu.Unlock()
		s.release(entry, "visitor session expired")
		return session{}, false
	}
	s.mu.Unlock()
	return entry, true
}

func (s *sessionStore) delete(token string) {
	s.mu.Lock()
	entry, ok := s.items[token]
	if ok {
		delete(s.items, token)
	}
	s.mu.Unlock()
	if ok {
		s.release(entry, "visitor session deleted")
	}
}

// reap drops every expired session and returns how many were removed.
func (s *sessionStore) reap() int {
	now := s.now()
	var expired []session
	s.mu.Lock()
	for token, entry := range s.items {
		if now.After(entry.expiresAt) {
			delete(s.items, token)
			expired = append(expired, entry)
		}
	}
	s.mu.Unlock()
	for _, entry := range expired {
		s.release(entry, "visitor session expired")
	}
	return len(expired)
}

// run reaps expired sessions every interval until ctx ends, then releases
// the remaining sessions.
func (s *sessionStore) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			if n := s.reap(); n > 0 {
				logx.Ctx(ctx).Debug("visitor sessions reaped", "count", n)
			}
		}
	}
}

func (s *sessionStore) closeAll() {
	s.mu.Lock()
	items := s.items
	s.items = make(map[string]session)
	s.mu.Unlock()
	for _, entry := range items {
		s.release(entry, "visitor session closed")
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *sessionStore) release(entry session, msg string) {
	if entry.cancel != nil {
		entry.cancel()
	}
	if s.onExpire != nil {
		s.onExpire(entry.id)
	}
	logx.WithSession(context.Background(), entry.id).Info(msg)
}

func (s *sessionStore) setBaseContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()
	logx.Ctx(context.Background()).Debug("session base context set")
}

func (s *sessionStore) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseCtx != nil {
		return s.baseCtx
	}
	return context.TODO()
}

func randomToken(size int) string {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
