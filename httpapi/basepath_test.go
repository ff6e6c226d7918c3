package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCleanPrefix(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{" // ", ""},
		{"folio", "/folio"},
		{"/folio", "/folio"},
		{"/folio/", "/folio"},
		{"/nolin/folio/", "/nolin/folio"},
	}
	for _, tc := range cases {
		if got := cleanPrefix(tc.in); got != tc.want {
			t.Fatalf("cleanPrefix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewMount(t *testing.T) {
	cases := []struct {
		baseURL   string
		basePath  string
		href      string
		canonical string
	}{
		{"", "", "", ""},
		{"", "/folio", "/folio/", ""},
		{"", "folio", "/folio/", ""},
		{"https://nolindnaidoo.com", "", "https://nolindnaidoo.com/", "https://nolindnaidoo.com/"},
		{"https://nolindnaidoo.com/", "folio", "https://nolindnaidoo.com/folio/", "https://nolindnaidoo.com/folio/"},
		{"https://nolindnaidoo.com/base", "/x", "https://nolindnaidoo.com/base/x/", "https://nolindnaidoo.com/base/x/"},
	}
	for _, tc := range cases {
		m := newMount(tc.baseURL, tc.basePath)
		if m.href != tc.href || m.canonical != tc.canonical {
			t.Fatalf("newMount(%q, %q) = href %q canonical %q, want %q %q", tc.baseURL, tc.basePath, m.href, m.canonical, tc.href, tc.canonical)
		}
	}
}

func TestMountWrap(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	})
	root := newMount("", "")
	if h := root.wrap(inner); h == nil {
		t.Fatalf("expected handler for root mount")
	}

	h := newMount("", "/folio").wrap(inner)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/folio/api/state", nil))
	if rec.Body.String() != "/api/state" {
		t.Fatalf("expected stripped path, got %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/folio", nil))
	if rec.Code != http.StatusTemporaryRedirect || rec.Header().Get("Location") != "/folio/" {
		t.Fatalf("expected redirect to /folio/, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 outside the prefix, got %d", rec.Code)
	}
}
