package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/nolindnaidoo/termfolio/internal/logx"
	"github.com/nolindnaidoo/termfolio/schema"
)

// statusWriter records what a handler sent. Flush is forwarded so the SSE
// stream keeps working through the logging middleware.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += int64(n)
	return n, err
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

type sessionLookupFunc func(*http.Request) schema.SessionID

// withRequestLogging writes one record per request carrying the visitor's
// terminal session when the cookie resolves to one. Health probes and
// asset fetches are logged at debug so the info log reads as visitor
// activity.
func withRequestLogging(next http.Handler, lookup sessionLookupFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		var sessionID schema.SessionID
		if lookup != nil {
			sessionID = lookup(r)
		}
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		if sw.status == 0 {
			sw.status = http.StatusOK
		}

		log := logx.WithSessionRemote(r.Context(), sessionID, clientIP(r))
		if section, ok := schema.ParseSection(r.URL.Query().Get("section")); ok {
			log = logx.WithSection(log, section)
		}
		fields := []any{"method", r.Method, "path", r.URL.Path, "status", sw.status, "bytes", sw.bytes, "duration_ms", time.Since(start).Milliseconds()}
		switch {
		case sw.status >= http.StatusInternalServerError:
			log.Warn("http request", fields...)
		case quietPath(r.URL.Path):
			log.Debug("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
		log.Debug("http request details", "ua", r.UserAgent(), "query", r.URL.RawQuery)
	})
}

func quietPath(path string) bool {
	return path == "/healthz" || strings.HasPrefix(path, "/assets/")
}

// clientIP returns the visitor address: the first X-Forwarded-For hop when
// behind a proxy, else the connection's remote address (port included).
func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if hop := strings.TrimSpace(first); hop != "" {
			return hop
		}
	}
	return r.RemoteAddr
}
