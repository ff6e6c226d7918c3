package terminal

import "strings"

// Identity is the persona the simulated shell reports.
type Identity struct {
	// Owner is the portfolio owner's display name used in the boot banner.
	Owner string
	// User is reported by whoami.
	User string
	// AccessLevel is reported by whoami.
	AccessLevel string
	// SessionName is reported by whoami.
	SessionName string
	// Location is the synthetic home directory, e.g. /nolindnaidoo.
	Location string
}

// DefaultIdentity returns the built-in persona.
func DefaultIdentity() Identity {
	return Identity{
		Owner:       "Nolin Naidoo",
		User:        "visitor",
		AccessLevel: "guest",
		SessionName: "portfolio-terminal",
		Location:    "/nolindnaidoo",
	}
}

func (id Identity) withDefaults() Identity {
	def := DefaultIdentity()
	if strings.TrimSpace(id.Owner) == "" {
		id.Owner = def.Owner
	}
	if strings.TrimSpace(id.User) == "" {
		id.User = def.User
	}
	if strings.TrimSpace(id.AccessLevel) == "" {
		id.AccessLevel = def.AccessLevel
	}
	if strings.TrimSpace(id.SessionName) == "" {
		id.SessionName = def.SessionName
	}
	id.Location = "/" + strings.Trim(strings.TrimSpace(id.Location), "/")
	if id.Location == "/" {
		id.Location = def.Location
	}
	return id
}
