package httpapi

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nolindnaidoo/termfolio/schema"
)

type sessionTestKey struct{}

type expiryRecorder struct {
	mu  sync.Mutex
	ids []schema.SessionID
}

func (r *expiryRecorder) record(id schema.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *expiryRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

func TestSessionStoreCreateGetDelete(t *testing.T) {
	expired := &expiryRecorder{}
	store := newSessionStore(time.Hour, expired.record)
	token, sess := store.create()
	if token == "" {
		t.Fatalf("expected token")
	}
	if _, err := schema.NormalizeSessionID(string(sess.id)); err != nil {
		t.Fatalf("expected valid session id, got %q: %v", sess.id, err)
	}
	if _, ok := store.get(token); !ok {
		t.Fatalf("expected session to be found")
	}
	store.delete(token)
	if _, ok := store.get(token); ok {
		t.Fatalf("expected session to be deleted")
	}
	select {
	case <-sess.ctx.Done():
	default:
		t.Fatalf("expected session context to be canceled")
	}
	if expired.count() != 1 || expired.ids[0] != sess.id {
		t.Fatalf("expected expiry callback for %s, got %v", sess.id, expired.ids)
	}
}

func TestSessionStoreExpiration(t *testing.T) {
	expired := &expiryRecorder{}
	store := newSessionStore(time.Minute, expired.record)
	now := time.Now()
	store.now = func() time.Time { return now }
	token, sess := store.create()
	now = now.Add(2 * time.Minute)
	if _, ok := store.get(token); ok {
		t.Fatalf("expected expired session")
	}
	select {
	case <-sess.ctx.Done():
	default:
		t.Fatalf("expected session context to be canceled")
	}
	if expired.count() != 1 {
		t.Fatalf("expected one expiry, got %d", expired.count())
	}
}

func TestSessionStoreReap(t *testing.T) {
	expired := &expiryRecorder{}
	store := newSessionStore(time.Minute, expired.record)
	now := time.Now()
	store.now = func() time.Time { return now }
	store.create()
	store.create()
	now = now.Add(30 * time.Second)
	fresh, _ := store.create()
	now = now.Add(45 * time.Second)
	if n := store.reap(); n != 2 {
		t.Fatalf("expected 2 reaped, got %d", n)
	}
	if _, ok := store.get(fresh); !ok {
		t.Fatalf("expected fresh session to survive")
	}
	if store.len() != 1 || expired.count() != 2 {
		t.Fatalf("unexpected store state: len=%d expired=%d", store.len(), expired.count())
	}
}

func TestSessionStoreRunReleasesOnShutdown(t *testing.T) {
	expired := &expiryRecorder{}
	store := newSessionStore(time.Hour, expired.record)
	store.create()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.run(ctx, time.Hour)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected run to return")
	}
	if store.len() != 0 || expired.count() != 1 {
		t.Fatalf("expected sessions released, len=%d expired=%d", store.len(), expired.count())
	}
}

func TestSessionStoreBaseContext(t *testing.T) {
	store := newSessionStore(time.Hour, nil)
	base := context.WithValue(context.Background(), sessionTestKey{}, "value")
	store.setBaseContext(base)
	_, sess := store.create()
	if got := sess.ctx.Value(sessionTestKey{}); got != "value" {
		t.Fatalf("expected base context value, got %v", got)
	}
}
