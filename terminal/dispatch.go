package terminal

import (
	"fmt"
	"strings"

	"github.com/nolindnaidoo/termfolio/schema"
)

// Outcome is the result of dispatching one submitted line.
type Outcome struct {
	// Input is the trimmed submission.
	Input string
	// Clear asks the caller to empty the line buffer.
	Clear bool
	// Command is the matched command, zero when nothing matched.
	Command Command
	// Found reports whether Input named a registered command.
	Found bool
	// Lines are the lines to append, in order.
	Lines []OutputLine
	// Err is set when the command panicked.
	Err error
}

// OutputLine is a line produced by dispatch, not yet appended.
type OutputLine struct {
	Kind    schema.LineKind
	Content string
}

// NotFoundMessage is the error line for unknown input.
func NotFoundMessage(input string) string {
	return fmt.Sprintf("Command not found: %s. Type \"help\" for available commands.", input)
}

// Dispatch resolves input against reg and executes it with ctx. It never
// touches a buffer: the caller applies the outcome. Empty input yields a zero
// Outcome. A panicking command is demoted to a single error line.
func Dispatch(reg *Registry, ctx CommandContext, input string) Outcome {
	trimmed := strings.TrimSpace(input)
	out := Outcome{Input: trimmed}
	if trimmed == "" {
		return out
	}
	key := strings.ToLower(trimmed)
	if key == ClearCommand {
		out.Clear = true
		out.Command, out.Found = reg.Lookup(ClearCommand)
		return out
	}
	cmd, ok := reg.Lookup(key)
	if !ok {
		out.Lines = []OutputLine{{Kind: schema.LineError, Content: NotFoundMessage(trimmed)}}
		return out
	}
	out.Command = cmd
	out.Found = true
	lines, err := runCommand(cmd, ctx)
	if err != nil {
		out.Err = err
		out.Lines = []OutputLine{{Kind: schema.LineError, Content: cmd.Name + ": command failed"}}
		return out
	}
	for _, line := range lines {
		out.Lines = append(out.Lines, OutputLine{Kind: schema.LineOutput, Content: line})
	}
	return out
}

func runCommand(cmd Command, ctx CommandContext) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command %s panicked: %v", cmd.Name, r)
		}
	}()
	if cmd.Execute == nil {
		return nil, nil
	}
	return cmd.Execute(ctx), nil
}
