package httpapi

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/nolindnaidoo/termfolio/internal/content"
)

const (
	baseHrefPlaceholder = "<!-- BASE_HREF -->"
	headMetaPlaceholder = "<!-- HEAD_META -->"
	footerPlaceholder   = "<!-- FOOTER_NAME -->"
)

func applyBaseHref(data []byte, baseHref string) []byte {
	replacement := ""
	if strings.TrimSpace(baseHref) != "" {
		replacement = fmt.Sprintf(`<base href="%s" />`, html.EscapeString(baseHref))
	}
	return bytes.ReplaceAll(data, []byte(baseHrefPlaceholder), []byte(replacement))
}

func applyHeadMeta(data []byte, profile content.Profile, canonical string) []byte {
	return bytes.ReplaceAll(data, []byte(headMetaPlaceholder), []byte(headMeta(profile, canonical)))
}

func applyFooterName(data []byte, name string) []byte {
	return bytes.ReplaceAll(data, []byte(footerPlaceholder), []byte(html.EscapeString(name)))
}

// headMeta renders the title, description, Open Graph and Twitter tags.
func headMeta(profile content.Profile, canonical string) string {
	meta := profile.Metadata
	if meta.Canonical != "" {
		canonical = meta.Canonical
	}
	var b strings.Builder
	tag := func(attr, key, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		fmt.Fprintf(&b, "    <meta %s=\"%s\" content=\"%s\" />\n", attr, html.EscapeString(key), html.EscapeString(value))
	}
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(meta.Title))
	tag("name", "description", meta.Description)
	tag("name", "keywords", strings.Join(meta.Keywords, ", "))
	tag("name", "author", meta.Author)
	tag("name", "creator", meta.Author)
	tag("name", "robots", "index, follow")
	tag("property", "og:type", "website")
	tag("property", "og:locale", "en_US")
	tag("property", "og:title", meta.Title)
	tag("property", "og:description", meta.Description)
	tag("property", "og:site_name", meta.Title)
	tag("property", "og:url", canonical)
	if meta.OGImage != "" {
		tag("property", "og:image", meta.OGImage)
		if meta.OGImageWidth > 0 && meta.OGImageHeight > 0 {
			tag("property", "og:image:width", strconv.Itoa(meta.OGImageWidth))
			tag("property", "og:image:height", strconv.Itoa(meta.OGImageHeight))
		}
		tag("property", "og:image:alt", meta.Title)
	}
	tag("name", "twitter:card", meta.TwitterCard)
	tag("name", "twitter:title", meta.Title)
	tag("name", "twitter:description", meta.Description)
	tag("name", "twitter:image", meta.OGImage)
	if canonical != "" {
		fmt.Fprintf(&b, "    <link rel=\"canonical\" href=\"%s\" />\n", html.EscapeString(canonical))
	}
	return strings.TrimRight(b.String(), "\n")
}

// pageTitle formats a section page title, e.g. "Projects | Nolin Naidoo".
func pageTitle(section, name string) string {
	if section == "" {
		return name
	}
	return section + " | " + name
}
