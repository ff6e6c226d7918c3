package schema

import "time"

// LineKind tags a terminal line with its semantic role.
type LineKind string

const (
	// LineCommand echoes a submitted command.
	LineCommand LineKind = "command"
	// LineOutput is regular command output.
	LineOutput LineKind = "output"
	// LineError reports a failed or unknown command.
	LineError LineKind = "error"
	// LineBoot is emitted by the boot sequence.
	LineBoot LineKind = "boot"
	// LineWarning is an advisory message.
	LineWarning LineKind = "warning"
	// LineSuccess reports a successful operation.
	LineSuccess LineKind = "success"
)

// TerminalLine is one emitted line. It is never mutated after it is appended.
type TerminalLine struct {
	ID        string    `json:"id"`
	Kind      LineKind  `json:"kind"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
