package terminal

import (
	"testing"

	"github.com/nolindnaidoo/termfolio/schema"
)

func TestDispatchEmptyInput(t *testing.T) {
	out := Dispatch(BuildRegistry(DefaultIdentity()), CommandContext{}, "   ")
	if out.Input != "" || out.Found || out.Clear || len(out.Lines) != 0 {
		t.Fatalf("expected zero outcome, got %+v", out)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	navigated := false
	out := Dispatch(BuildRegistry(DefaultIdentity()), CommandContext{Navigate: func(schema.Section) { navigated = true }}, "  frobnicate ")
	if out.Found {
		t.Fatalf("expected not found")
	}
	if len(out.Lines) != 1 || out.Lines[0].Kind != schema.LineError {
		t.Fatalf("expected one error line, got %+v", out.Lines)
	}
	want := `Command not found: frobnicate. Type "help" for available commands.`
	if out.Lines[0].Content != want {
		t.Fatalf("unexpected message %q", out.Lines[0].Content)
	}
	if navigated {
		t.Fatalf("unknown command must not navigate")
	}
}

func TestDispatchClearIsSpecialCased(t *testing.T) {
	out := Dispatch(BuildRegistry(DefaultIdentity()), CommandContext{}, "CLEAR")
	if !out.Clear {
		t.Fatalf("expected clear outcome")
	}
	if len(out.Lines) != 0 {
		t.Fatalf("clear must not produce lines, got %+v", out.Lines)
	}
}

func TestDispatchCaseInsensitive(t *testing.T) {
	reg := BuildRegistry(DefaultIdentity())
	base := Dispatch(reg, CommandContext{}, "help")
	for _, input := range []string{"HELP", "Help"} {
		out := Dispatch(reg, CommandContext{}, input)
		if len(out.Lines) != len(base.Lines) {
			t.Fatalf("%q: expected %d lines, got %d", input, len(base.Lines), len(out.Lines))
		}
		for i := range out.Lines {
			if out.Lines[i] != base.Lines[i] {
				t.Fatalf("%q: line %d differs: %+v vs %+v", input, i, out.Lines[i], base.Lines[i])
			}
		}
	}
}

func TestDispatchRecoversPanickingCommand(t *testing.T) {
	reg := newRegistry(Command{
		Name:     "boom",
		Category: schema.CategorySystem,
		Execute:  func(CommandContext) []string { panic("kaboom") },
	})
	out := Dispatch(reg, CommandContext{}, "boom")
	if out.Err == nil {
		t.Fatalf("expected recovered error")
	}
	if len(out.Lines) != 1 || out.Lines[0].Kind != schema.LineError || out.Lines[0].Content != "boom: command failed" {
		t.Fatalf("unexpected lines %+v", out.Lines)
	}
}

func TestDispatchLooksUpWholeLine(t *testing.T) {
	out := Dispatch(BuildRegistry(DefaultIdentity()), CommandContext{}, "cd projects")
	if out.Found {
		t.Fatalf("expected whole-line lookup to miss")
	}
}
