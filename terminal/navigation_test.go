package terminal

import (
	"errors"
	"testing"

	"github.com/nolindnaidoo/termfolio/schema"
)

func TestNavigatorNotifiesListeners(t *testing.T) {
	nav := NewNavigator()
	var got []schema.Section
	unsubscribe := nav.Subscribe(func(_, to schema.Section) { got = append(got, to) })

	if err := nav.NavigateTo(schema.SectionAbout); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if nav.Current() != schema.SectionAbout {
		t.Fatalf("expected about, got %q", nav.Current())
	}
	if err := nav.NavigateTo(schema.SectionAbout); err != nil {
		t.Fatalf("re-navigate: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected re-navigation to notify again, got %+v", got)
	}

	unsubscribe()
	unsubscribe()
	_ = nav.NavigateTo(schema.SectionHome)
	if len(got) != 2 {
		t.Fatalf("expected no notification after unsubscribe, got %+v", got)
	}
}

func TestNavigatorRejectsUnknownSection(t *testing.T) {
	nav := NewNavigator()
	err := nav.NavigateTo("blog")
	if !errors.Is(err, schema.ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
	if nav.Current() != schema.SectionHome {
		t.Fatalf("expected current to stay home, got %q", nav.Current())
	}
}

func TestNavigatorListenerMayReadCurrent(t *testing.T) {
	nav := NewNavigator()
	var seen schema.Section
	nav.Subscribe(func(from, to schema.Section) {
		seen = nav.Current()
		if from != schema.SectionHome {
			t.Errorf("expected from home, got %q", from)
		}
	})
	_ = nav.NavigateTo(schema.SectionContact)
	if seen != schema.SectionContact {
		t.Fatalf("expected listener to observe contact, got %q", seen)
	}
}
