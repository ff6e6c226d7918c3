package httpapi

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/nolindnaidoo/termfolio/internal/content"
)

//go:embed assets
var embeddedAssets embed.FS

// staticFS holds the browser client: the page templates, app.js and app.css.
var staticFS = mustSub(embeddedAssets, "assets")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(fmt.Sprintf("httpapi: embedded %s: %v", dir, err))
	}
	return sub
}

// indexPage is the index template filled in for one profile and mount. The
// inputs never change for a server, so it is rendered once.
type indexPage struct {
	once sync.Once
	data []byte
	err  error
}

func (p *indexPage) render(profile content.Profile, m mount) ([]byte, error) {
	p.once.Do(func() {
		data, err := fs.ReadFile(staticFS, "index.html")
		if err != nil {
			p.err = fmt.Errorf("read index template: %w", err)
			return
		}
		data = applyBaseHref(data, m.href)
		data = applyHeadMeta(data, profile, m.canonical)
		p.data = applyFooterName(data, profile.Name)
	})
	return p.data, p.err
}
