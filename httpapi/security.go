package httpapi

import (
	"bytes"
	"fmt"
	"html"
	"io/fs"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/nolindnaidoo/termfolio/internal/logx"
)

var cspDirectives = []string{
	"default-src 'self'",
	"script-src 'self' 'unsafe-inline' 'unsafe-eval'",
	"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com",
	"img-src 'self' data: https: blob:",
	"font-src 'self' https://fonts.gstatic.com data:",
	"connect-src 'self' https://vitals.vercel-insights.com",
	"media-src 'self'",
	"object-src 'none'",
	"base-uri 'self'",
	"form-action 'self'",
	"frame-ancestors 'none'",
}

// HSTS and the upgrade directives are only sent on TLS requests.
var (
	contentSecurityPolicy       = strings.Join(cspDirectives, "; ")
	secureContentSecurityPolicy = strings.Join(append(append([]string{}, cspDirectives...), "block-all-mixed-content", "upgrade-insecure-requests"), "; ")
)

var securityHeaders = [][2]string{
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "origin-when-cross-origin"},
	{"X-XSS-Protection", "1; mode=block"},
	{"Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=(), payment=(), usb=()"},
	{"Cross-Origin-Embedder-Policy", "unsafe-none"},
	{"Cross-Origin-Opener-Policy", "same-origin-allow-popups"},
	{"Cross-Origin-Resource-Policy", "cross-origin"},
	{"X-DNS-Prefetch-Control", "on"},
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		for _, kv := range securityHeaders {
			header.Set(kv[0], kv[1])
		}
		if isSecure(r) {
			header.Set("Content-Security-Policy", secureContentSecurityPolicy)
			header.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		} else {
			header.Set("Content-Security-Policy", contentSecurityPolicy)
		}
		next.ServeHTTP(w, r)
	})
}

// withRecovery turns a handler panic into the critical error page.
func withRecovery(next http.Handler, contactEmail string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logx.WithAction(logx.Ctx(r.Context()), "http", "recover").Error("http handler panic", "panic", fmt.Sprint(rec), "path", r.URL.Path, "stack", string(debug.Stack()))
			writeErrorPage(w, contactEmail)
		}()
		next.ServeHTTP(w, r)
	})
}

const contactPlaceholder = "CONTACT_HREF"

func writeErrorPage(w http.ResponseWriter, contactEmail string) {
	data, err := fs.ReadFile(staticFS, "error.html")
	if err != nil {
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	href := "/"
	if contactEmail != "" {
		href = "mailto:" + contactEmail
	}
	data = bytes.ReplaceAll(data, []byte(contactPlaceholder), []byte(html.EscapeString(href)))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(data)
}
