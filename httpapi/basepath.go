package httpapi

import (
	"net/http"
	"strings"
)

// mount describes where the portfolio is published: the path prefix the
// server is reached under behind a proxy, the <base href> the page needs
// so relative asset and API URLs resolve, and the canonical page URL.
type mount struct {
	prefix    string
	href      string
	canonical string
}

func newMount(baseURL, basePath string) mount {
	m := mount{prefix: cleanPrefix(basePath)}
	origin := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	switch {
	case origin != "":
		m.canonical = withSlash(origin + m.prefix)
		m.href = m.canonical
	case m.prefix != "":
		m.href = withSlash(m.prefix)
	}
	return m
}

// cleanPrefix turns "folio", "/folio/" and "/folio" into "/folio"; the root
// is the empty prefix.
func cleanPrefix(value string) string {
	prefix := strings.Trim(strings.TrimSpace(value), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

func withSlash(value string) string {
	if value == "" || strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}

// wrap serves h below the prefix. The bare prefix redirects to its
// slash form so the page's relative URLs resolve.
func (m mount) wrap(h http.Handler) http.Handler {
	if m.prefix == "" {
		return h
	}
	root := http.NewServeMux()
	root.Handle(m.prefix+"/", http.StripPrefix(m.prefix, h))
	root.HandleFunc(m.prefix, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != m.prefix {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, m.prefix+"/", http.StatusTemporaryRedirect)
	})
	return root
}
