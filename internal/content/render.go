package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/mdp/qrterminal/v3"
	"github.com/nolindnaidoo/termfolio/schema"
)

const linkLabelWidth = 9

// Panel is a rendered content section.
type Panel struct {
	Section schema.Section `json:"section"`
	Title   string         `json:"title"`
	Lines   []string       `json:"lines"`
}

// Options controls panel rendering.
type Options struct {
	// Width wraps text to this many cells; <= 0 disables wrapping.
	Width int
	// Elapsed selects the rotating headline role.
	Elapsed time.Duration
	// QR appends a scannable code to the contact panel when it fits.
	QR bool
}

// Render lays out one section as text lines.
func Render(p Profile, section schema.Section, opts Options) (Panel, error) {
	if !section.Valid() {
		return Panel{}, fmt.Errorf("%w: %q", schema.ErrUnknownSection, section)
	}
	panel := Panel{Section: section, Title: Title(section)}
	switch section {
	case schema.SectionHome:
		panel.Lines = renderHome(p, opts)
	case schema.SectionContact:
		panel.Lines = renderContact(p, opts)
	default:
		panel.Lines = renderText(p, section, opts)
	}
	return panel, nil
}

func renderHome(p Profile, opts Options) []string {
	lines := []string{p.Name}
	if role, ok := p.RoleAt(opts.Elapsed); ok {
		lines = append(lines, role.String())
	} else if p.Headline != "" {
		lines = append(lines, p.Headline)
	}
	if len(p.Links) > 0 {
		lines = append(lines, "")
		for _, link := range p.Links {
			lines = append(lines, formatLink(link.Label, link.Href))
		}
	}
	if p.Description != "" {
		lines = append(lines, "")
		lines = append(lines, wrap(p.Description, opts.Width)...)
	}
	return lines
}

func renderText(p Profile, section schema.Section, opts Options) []string {
	text := p.Sections[section]
	heading := text.Title
	if heading == "" {
		heading = Title(section)
	}
	lines := []string{heading, ""}
	for i, paragraph := range text.Body {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, wrap(paragraph, opts.Width)...)
	}
	return lines
}

func renderContact(p Profile, opts Options) []string {
	lines := renderText(p, schema.SectionContact, opts)
	lines = append(lines, "")
	if p.Email != "" {
		lines = append(lines, formatLink("Email", p.Email))
	}
	for _, link := range p.Links {
		if link.External() {
			lines = append(lines, formatLink(link.Label, link.Href))
		}
	}
	if opts.QR {
		if code := qrLines(contactTarget(p)); len(code) > 0 && fits(code, opts.Width) {
			lines = append(lines, "")
			lines = append(lines, code...)
		}
	}
	return lines
}

func contactTarget(p Profile) string {
	if p.Email != "" {
		return "mailto:" + p.Email
	}
	for _, link := range p.Links {
		if link.External() {
			return link.Href
		}
	}
	return ""
}

func qrLines(target string) []string {
	if target == "" {
		return nil
	}
	var buf bytes.Buffer
	qrterminal.GenerateHalfBlock(target, qrterminal.L, &buf)
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func fits(lines []string, width int) bool {
	if width <= 0 {
		return true
	}
	for _, line := range lines {
		if ansi.StringWidth(line) > width {
			return false
		}
	}
	return true
}

func formatLink(label, href string) string {
	return fmt.Sprintf("%-*s %s", linkLabelWidth, label, href)
}

func wrap(text string, width int) []string {
	text = strings.TrimSpace(text)
	if width <= 0 {
		return []string{text}
	}
	return strings.Split(ansi.Wrap(text, width, ""), "\n")
}
