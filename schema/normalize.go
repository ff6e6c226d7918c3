package schema

import (
	"strings"
	"unicode"
)

// NormalizeSessionID validates a session identifier received from a client.
// Allowed characters: A-Z, a-z, 0-9, '-', '_'.
func NormalizeSessionID(id string) (SessionID, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" || len(trimmed) > 64 {
		return "", ErrInvalidRequest
	}
	for _, r := range trimmed {
		if r == '-' || r == '_' {
			continue
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		return "", ErrInvalidRequest
	}
	return SessionID(trimmed), nil
}
