package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/nolindnaidoo/termfolio/schema"
)

func TestRenderHome(t *testing.T) {
	panel, err := Render(DefaultProfile(), schema.SectionHome, Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if panel.Title != "Home" {
		t.Fatalf("unexpected title %q", panel.Title)
	}
	if panel.Lines[0] != "Nolin Naidoo" || panel.Lines[1] != "Software • Engineer" {
		t.Fatalf("unexpected heading %+v", panel.Lines[:2])
	}
	joined := strings.Join(panel.Lines, "\n")
	for _, want := range []string{"https://github.com/nolindnaidoo", "/resume.pdf", "Crafting exceptional digital experiences"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in home panel:\n%s", want, joined)
		}
	}
}

func TestRenderWrapsToWidth(t *testing.T) {
	panel, err := Render(DefaultProfile(), schema.SectionHome, Options{Width: 30})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, line := range panel.Lines {
		if strings.Contains(line, "://") {
			continue
		}
		if w := ansi.StringWidth(line); w > 30 {
			t.Fatalf("line exceeds width (%d): %q", w, line)
		}
	}
}

func TestRenderSections(t *testing.T) {
	for _, section := range []schema.Section{schema.SectionAbout, schema.SectionProjects, schema.SectionSkills} {
		panel, err := Render(DefaultProfile(), section, Options{})
		if err != nil {
			t.Fatalf("%s: %v", section, err)
		}
		if len(panel.Lines) < 3 || !strings.HasSuffix(panel.Lines[2], "coming soon...") {
			t.Fatalf("%s: unexpected lines %+v", section, panel.Lines)
		}
	}
	about, _ := Render(DefaultProfile(), schema.SectionAbout, Options{})
	if about.Lines[0] != "About Me" || about.Title != "About" {
		t.Fatalf("unexpected about panel %+v", about)
	}
}

func TestRenderContactWithQR(t *testing.T) {
	plain, err := Render(DefaultProfile(), schema.SectionContact, Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	withQR, err := Render(DefaultProfile(), schema.SectionContact, Options{QR: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(withQR.Lines) <= len(plain.Lines)+5 {
		t.Fatalf("expected QR code lines, got %d vs %d", len(withQR.Lines), len(plain.Lines))
	}
	narrowPlain, _ := Render(DefaultProfile(), schema.SectionContact, Options{Width: 10})
	narrow, _ := Render(DefaultProfile(), schema.SectionContact, Options{QR: true, Width: 10})
	if len(narrow.Lines) != len(narrowPlain.Lines) {
		t.Fatalf("QR code should be skipped when it does not fit")
	}
	if !strings.Contains(strings.Join(plain.Lines, "\n"), "nolin@nolindnaidoo.com") {
		t.Fatalf("expected email in contact panel")
	}
}

func TestRenderUnknownSection(t *testing.T) {
	if _, err := Render(DefaultProfile(), "blog", Options{}); !errors.Is(err, schema.ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}

func TestRegionRecoversErrorAndPanic(t *testing.T) {
	failing := NewRegion(func(context.Context, schema.Section) (Panel, error) {
		return Panel{}, errors.New("broken")
	})
	result := failing.Render(context.Background(), schema.SectionSkills)
	if result.Failure == nil || result.Failure.Section != schema.SectionSkills {
		t.Fatalf("expected failure info, got %+v", result)
	}
	if result.Panel.Title != "Skills - Error" || result.Panel.Lines[0] != "Content Unavailable" {
		t.Fatalf("unexpected fallback panel %+v", result.Panel)
	}

	panicking := NewRegion(func(context.Context, schema.Section) (Panel, error) {
		panic("render exploded")
	})
	result = panicking.Render(context.Background(), schema.SectionAbout)
	if result.Failure == nil || result.Failure.Message != "Something went wrong displaying About." {
		t.Fatalf("expected recovered failure, got %+v", result.Failure)
	}
}

func TestRegionRetrySucceeds(t *testing.T) {
	calls := 0
	region := NewRegion(func(_ context.Context, section schema.Section) (Panel, error) {
		calls++
		if calls == 1 {
			return Panel{}, errors.New("transient")
		}
		return Render(DefaultProfile(), section, Options{})
	})
	if first := region.Render(context.Background(), schema.SectionHome); first.Failure == nil {
		t.Fatalf("expected first render to fail")
	}
	if second := region.Render(context.Background(), schema.SectionHome); second.Failure != nil {
		t.Fatalf("expected retry to succeed, got %+v", second.Failure)
	}
}

func TestProfileRegion(t *testing.T) {
	result := ProfileRegion(DefaultProfile(), Options{}).Render(context.Background(), schema.SectionProjects)
	if result.Failure != nil || result.Panel.Title != "Projects" {
		t.Fatalf("unexpected result %+v", result)
	}
}
