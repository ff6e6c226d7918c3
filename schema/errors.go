package schema

import "errors"

var (
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownSection indicates a navigation target that does not exist.
	ErrUnknownSection = errors.New("unknown section")
	// ErrUnknownKey indicates a key name the input controller does not handle.
	ErrUnknownKey = errors.New("unknown key")
	// ErrSessionClosed indicates the session was torn down.
	ErrSessionClosed = errors.New("session closed")
	// ErrSessionNotFound indicates a requested session could not be found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInputDisabled indicates input arrived before boot completed.
	ErrInputDisabled = errors.New("input disabled")
	// ErrNoLookupEndpoint indicates the IP lookup endpoint is not configured.
	ErrNoLookupEndpoint = errors.New("ip lookup endpoint not configured")
)
