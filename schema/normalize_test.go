package schema

import (
	"strings"
	"testing"
)

func TestNormalizeSessionID(t *testing.T) {
	cases := []struct {
		name  string
		id    string
		valid bool
	}{
		{"uuid", "2f1c8a4e-5b7d-4c1e-9a3f-0d6e8b2c4a1f", true},
		{"underscore", "abc_def", true},
		{"padded", "  abc  ", true},
		{"empty", "", false},
		{"space", "abc def", false},
		{"unicode", "Ã¥bc", false},
		{"symbol", "abc@", false},
		{"too-long", strings.Repeat("a", 65), false},
	}

	for _, tc := range cases {
		got, err := NormalizeSessionID(tc.id)
		if tc.valid && err != nil {
			t.Fatalf("case %q expected valid, got error: %v", tc.name, err)
		}
		if !tc.valid && err == nil {
			t.Fatalf("case %q expected error", tc.name)
		}
		if tc.valid && string(got) != strings.TrimSpace(tc.id) {
			t.Fatalf("case %q expected trimmed id, got %q", tc.name, got)
		}
	}
}

func TestParseSection(t *testing.T) {
	got, ok := ParseSection(" About ")
	if !ok || got != SectionAbout {
		t.Fatalf("expected about, got %q ok=%v", got, ok)
	}
	if _, ok := ParseSection("blog"); ok {
		t.Fatalf("expected blog to be rejected")
	}
	if len(Sections()) != 5 {
		t.Fatalf("expected five sections, got %d", len(Sections()))
	}
}

func TestNormalizeTerminalConfig(t *testing.T) {
	cfg, err := NormalizeTerminalConfig(TerminalConfig{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.ProbeTimeout != DefaultProbeTimeout {
		t.Fatalf("expected default probe timeout, got %v", cfg.ProbeTimeout)
	}
	if cfg.ProcessingDelay != 0 {
		t.Fatalf("expected zero delay to be preserved, got %v", cfg.ProcessingDelay)
	}
	if _, err := NormalizeTerminalConfig(TerminalConfig{BootLineDelay: -1}); err == nil {
		t.Fatalf("expected negative delay to be rejected")
	}
}

func TestNormalizeThemeName(t *testing.T) {
	cases := map[string]ThemeName{
		"":            "emerald",
		"Green":       "emerald",
		"tokyo_night": "",
		"TOKYO":       "tokyo-midnight",
		" gruvbox ":   "gruvbox",
	}
	for input, want := range cases {
		got, ok := NormalizeThemeName(input)
		if got != want || ok != (want != "") {
			t.Fatalf("NormalizeThemeName(%q) = %q, %v", input, got, ok)
		}
	}
	if themes := AvailableThemes(); len(themes) != 4 || themes[0] != DefaultTheme {
		t.Fatalf("unexpected themes %v", themes)
	}
}
