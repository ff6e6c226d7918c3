package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/nolindnaidoo/termfolio/schema"
)

var fallbackPattern = regexp.MustCompile(`^192\.168\.1\.(\d+)$`)

func TestLookupResolverParsesIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"ip":"203.0.113.7"}`)
	}))
	defer srv.Close()

	ip, err := (&LookupResolver{Endpoint: srv.URL, Client: srv.Client()}).ResolveIP(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ip != "203.0.113.7" {
		t.Fatalf("expected 203.0.113.7, got %q", ip)
	}
}

func TestLookupResolverMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"address":"203.0.113.7"}`)
	}))
	defer srv.Close()

	_, err := (&LookupResolver{Endpoint: srv.URL}).ResolveIP(context.Background())
	if !errors.Is(err, ErrMissingIP) {
		t.Fatalf("expected ErrMissingIP, got %v", err)
	}
}

func TestLookupResolverMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html>`)
	}))
	defer srv.Close()

	if _, err := (&LookupResolver{Endpoint: srv.URL}).ResolveIP(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLookupResolverRequiresEndpoint(t *testing.T) {
	if _, err := (&LookupResolver{}).ResolveIP(context.Background()); !errors.Is(err, schema.ErrNoLookupEndpoint) {
		t.Fatalf("expected ErrNoLookupEndpoint, got %v", err)
	}
}

func TestRemoteResolverPrefersPublicAddress(t *testing.T) {
	called := false
	next := ResolverFunc(func(context.Context) (string, error) {
		called = true
		return "198.51.100.1", nil
	})
	ip, err := RemoteResolver{Remote: "203.0.113.9:51234", Next: next}.ResolveIP(context.Background())
	if err != nil || ip != "203.0.113.9" {
		t.Fatalf("expected remote address, got %q err=%v", ip, err)
	}
	if called {
		t.Fatalf("next resolver should not be consulted for public remotes")
	}

	ip, err = RemoteResolver{Remote: "127.0.0.1:51234", Next: next}.ResolveIP(context.Background())
	if err != nil || ip != "198.51.100.1" {
		t.Fatalf("expected next resolver for loopback, got %q err=%v", ip, err)
	}
	if _, err := (RemoteResolver{Remote: "10.0.0.2"}).ResolveIP(context.Background()); err == nil {
		t.Fatalf("expected error without next resolver")
	}
}

func TestPublicIP(t *testing.T) {
	cases := map[string]string{
		"203.0.113.9:22":   "203.0.113.9",
		"[2001:db8::1]:22": "2001:db8::1",
		"192.168.1.5:22":   "",
		"[::1]:22":         "",
		"fe80::1":          "",
		"not-an-address":   "",
		" 198.51.100.20 ":  "198.51.100.20",
	}
	for in, want := range cases {
		if got := PublicIP(in); got != want {
			t.Fatalf("PublicIP(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestVisitorUserIPFallsBackOnFailure(t *testing.T) {
	v := NewVisitor(schema.UnknownDevice(), ResolverFunc(func(context.Context) (string, error) {
		return "", errors.New("network down")
	}), time.Second)
	assertFallback(t, v.UserIP(context.Background()))
}

func TestVisitorUserIPUnknownOnMissingField(t *testing.T) {
	v := NewVisitor(schema.UnknownDevice(), ResolverFunc(func(context.Context) (string, error) {
		return "", ErrMissingIP
	}), time.Second)
	if got := v.UserIP(context.Background()); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}

func TestVisitorUserIPHonoursTimeout(t *testing.T) {
	v := NewVisitor(schema.UnknownDevice(), ResolverFunc(func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), 20*time.Millisecond)
	start := time.Now()
	assertFallback(t, v.UserIP(context.Background()))
	if time.Since(start) > 2*time.Second {
		t.Fatalf("lookup was not bounded by timeout")
	}
}

func TestFallbackIPRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		assertFallback(t, FallbackIP())
	}
}

func assertFallback(t *testing.T, ip string) {
	t.Helper()
	m := fallbackPattern.FindStringSubmatch(ip)
	if m == nil {
		t.Fatalf("expected fallback address, got %q", ip)
	}
	n, _ := strconv.Atoi(m[1])
	if n < 1 || n > 254 {
		t.Fatalf("fallback octet out of range: %d", n)
	}
}
