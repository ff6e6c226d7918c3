package sshserver

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/nolindnaidoo/termfolio/schema"
)

type rgb struct {
	r int
	g int
	b int
}

func (c rgb) color() lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b))
}

type tuiTheme struct {
	Name      schema.ThemeName
	HeaderBG  rgb
	HeaderFG  rgb
	BorderFG  rgb
	TitleFG   rgb
	TextFG    rgb
	AccentFG  rgb
	PromptFG  rgb
	CommandFG rgb
	ErrorFG   rgb
	WarningFG rgb
	SuccessFG rgb
	BootFG    rgb
	MetaFG    rgb
}

var tuiThemes = map[schema.ThemeName]tuiTheme{
	"emerald": {
		Name:      "emerald",
		HeaderBG:  rgb{r: 17, g: 24, b: 39},
		HeaderFG:  rgb{r: 209, g: 213, b: 219},
		BorderFG:  rgb{r: 55, g: 65, b: 81},
		TitleFG:   rgb{r: 255, g: 255, b: 255},
		TextFG:    rgb{r: 209, g: 213, b: 219},
		AccentFG:  rgb{r: 52, g: 211, b: 153},
		PromptFG:  rgb{r: 52, g: 211, b: 153},
		CommandFG: rgb{r: 110, g: 231, b: 183},
		ErrorFG:   rgb{r: 248, g: 113, b: 113},
		WarningFG: rgb{r: 251, g: 191, b: 36},
		SuccessFG: rgb{r: 74, g: 222, b: 128},
		BootFG:    rgb{r: 96, g: 165, b: 250},
		MetaFG:    rgb{r: 107, g: 114, b: 128},
	},
	"outrun": {
		Name:      "outrun",
		HeaderBG:  rgb{r: 32, g: 8, b: 56},
		HeaderFG:  rgb{r: 240, g: 241, b: 255},
		BorderFG:  rgb{r: 60, g: 79, b: 184},
		TitleFG:   rgb{r: 0, g: 229, b: 255},
		TextFG:    rgb{r: 240, g: 241, b: 255},
		AccentFG:  rgb{r: 112, g: 214, b: 255},
		PromptFG:  rgb{r: 255, g: 91, b: 189},
		CommandFG: rgb{r: 255, g: 255, b: 255},
		ErrorFG:   rgb{r: 255, g: 107, b: 107},
		WarningFG: rgb{r: 255, g: 200, b: 87},
		SuccessFG: rgb{r: 0, g: 229, b: 255},
		BootFG:    rgb{r: 110, g: 136, b: 255},
		MetaFG:    rgb{r: 154, g: 163, b: 178},
	},
	"gruvbox": {
		Name:      "gruvbox",
		HeaderBG:  rgb{r: 60, g: 56, b: 54},
		HeaderFG:  rgb{r: 235, g: 219, b: 178},
		BorderFG:  rgb{r: 102, g: 92, b: 84},
		TitleFG:   rgb{r: 250, g: 189, b: 47},
		TextFG:    rgb{r: 235, g: 219, b: 178},
		AccentFG:  rgb{r: 131, g: 165, b: 152},
		PromptFG:  rgb{r: 184, g: 187, b: 38},
		CommandFG: rgb{r: 250, g: 189, b: 47},
		ErrorFG:   rgb{r: 251, g: 73, b: 52},
		WarningFG: rgb{r: 254, g: 128, b: 25},
		SuccessFG: rgb{r: 184, g: 187, b: 38},
		BootFG:    rgb{r: 131, g: 165, b: 152},
		MetaFG:    rgb{r: 146, g: 131, b: 116},
	},
	"tokyo-midnight": {
		Name:      "tokyo-midnight",
		HeaderBG:  rgb{r: 26, g: 27, b: 38},
		HeaderFG:  rgb{r: 192, g: 202, b: 245},
		BorderFG:  rgb{r: 59, g: 79, b: 159},
		TitleFG:   rgb{r: 122, g: 162, b: 247},
		TextFG:    rgb{r: 192, g: 202, b: 245},
		AccentFG:  rgb{r: 125, g: 207, b: 255},
		PromptFG:  rgb{r: 158, g: 206, b: 106},
		CommandFG: rgb{r: 187, g: 154, b: 247},
		ErrorFG:   rgb{r: 247, g: 118, b: 142},
		WarningFG: rgb{r: 224, g: 175, b: 104},
		SuccessFG: rgb{r: 158, g: 206, b: 106},
		BootFG:    rgb{r: 122, g: 162, b: 247},
		MetaFG:    rgb{r: 127, g: 133, b: 163},
	},
}

func themeForName(name schema.ThemeName) tuiTheme {
	if normalized, ok := schema.NormalizeThemeName(string(name)); ok {
		if theme, ok := tuiThemes[normalized]; ok {
			return theme
		}
	}
	return tuiThemes[schema.DefaultTheme]
}

// colorProfile picks the color depth for a PTY terminal type.
func colorProfile(term string) termenv.Profile {
	term = strings.ToLower(term)
	switch {
	case term == "" || term == "dumb":
		return termenv.Ascii
	case strings.Contains(term, "truecolor"), strings.Contains(term, "direct"),
		strings.HasPrefix(term, "xterm-kitty"), strings.HasPrefix(term, "alacritty"),
		strings.HasPrefix(term, "wezterm"), strings.HasPrefix(term, "foot"):
		return termenv.TrueColor
	case strings.Contains(term, "256color"):
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}

// styles are the lipgloss styles for one theme and color profile.
type styles struct {
	header  lipgloss.Style
	dots    lipgloss.Style
	border  lipgloss.Style
	title   lipgloss.Style
	text    lipgloss.Style
	accent  lipgloss.Style
	prompt  lipgloss.Style
	meta    lipgloss.Style
	failure lipgloss.Style
	kinds   map[schema.LineKind]lipgloss.Style
}

func newStyles(theme tuiTheme, profile termenv.Profile) styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	fg := func(c rgb) lipgloss.Style {
		return r.NewStyle().Foreground(c.color())
	}
	return styles{
		header:  r.NewStyle().Background(theme.HeaderBG.color()).Foreground(theme.HeaderFG.color()),
		dots:    r.NewStyle().Background(theme.HeaderBG.color()).Foreground(theme.ErrorFG.color()),
		border:  fg(theme.BorderFG),
		title:   fg(theme.TitleFG).Bold(true),
		text:    fg(theme.TextFG),
		accent:  fg(theme.AccentFG),
		prompt:  fg(theme.PromptFG).Bold(true),
		meta:    fg(theme.MetaFG),
		failure: fg(theme.ErrorFG).Bold(true),
		kinds: map[schema.LineKind]lipgloss.Style{
			schema.LineCommand: fg(theme.CommandFG),
			schema.LineOutput:  fg(theme.TextFG),
			schema.LineError:   fg(theme.ErrorFG),
			schema.LineBoot:    fg(theme.BootFG),
			schema.LineWarning: fg(theme.WarningFG),
			schema.LineSuccess: fg(theme.SuccessFG),
		},
	}
}

func (s styles) line(kind schema.LineKind) lipgloss.Style {
	if style, ok := s.kinds[kind]; ok {
		return style
	}
	return s.text
}
