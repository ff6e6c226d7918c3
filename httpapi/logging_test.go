package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pkt.systems/pslog"

	"github.com/nolindnaidoo/termfolio/schema"
)

func TestRequestLoggingLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := pslog.NewWithOptions(&buf, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.InfoLevel,
	})
	h := withRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), func(*http.Request) schema.SessionID { return "visitor-1" })

	serve := func(path string) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req = req.WithContext(pslog.ContextWithLogger(req.Context(), logger))
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	serve("/healthz")
	serve("/assets/app.js")
	if buf.Len() != 0 {
		t.Fatalf("expected quiet paths below info, got %s", buf.String())
	}

	serve("/api/content?section=About")
	out := buf.String()
	for _, want := range []string{"/api/content", "visitor-1", "section", "about", "204"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in request log, got %s", want, out)
		}
	}
}

func TestClientIPPrefersFirstForwardedHop(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	if got := clientIP(req); got != "10.0.0.2:5555" {
		t.Fatalf("expected remote addr, got %q", got)
	}
	req.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.9" {
		t.Fatalf("expected first hop, got %q", got)
	}
	req.Header.Set("X-Forwarded-For", " ,10.0.0.1")
	if got := clientIP(req); got != "10.0.0.2:5555" {
		t.Fatalf("expected remote addr for empty first hop, got %q", got)
	}
}
