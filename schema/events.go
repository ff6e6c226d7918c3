package schema

// BootPhase is the boot sequence state.
type BootPhase string

const (
	// BootIdle means the sequence has not started.
	BootIdle BootPhase = "idle"
	// BootBooting means boot lines are still playing.
	BootBooting BootPhase = "booting"
	// BootReady means input is enabled.
	BootReady BootPhase = "ready"
)

// LineEvent reports a line appended to a session buffer.
type LineEvent struct {
	SessionID SessionID
	Line      TerminalLine
}

// ClearEvent reports that a session buffer was cleared.
type ClearEvent struct {
	SessionID SessionID
}

// NavigateEvent reports a navigation, including re-navigation to the current section.
type NavigateEvent struct {
	SessionID SessionID
	From      Section
	To        Section
}

// StateEvent reports a change to the session's boot phase, prompt, or input.
type StateEvent struct {
	SessionID SessionID
	Phase     BootPhase
	ShowInput bool
	Input     string
	Prompt    string
}
