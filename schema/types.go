package schema

import "strings"

// SessionID identifies a terminal session.
type SessionID string

// ThemeName identifies a UI theme.
type ThemeName string

// Section is a navigable content panel.
type Section string

const (
	// SectionHome is the landing panel and the default navigation target.
	SectionHome Section = "home"
	// SectionAbout shows background and story.
	SectionAbout Section = "about"
	// SectionProjects shows featured work.
	SectionProjects Section = "projects"
	// SectionSkills shows technical expertise.
	SectionSkills Section = "skills"
	// SectionContact shows contact links.
	SectionContact Section = "contact"
)

// DefaultSection is shown when a session starts.
const DefaultSection = SectionHome

var sections = []Section{
	SectionHome,
	SectionAbout,
	SectionProjects,
	SectionSkills,
	SectionContact,
}

// Sections returns every navigable section in display order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// ParseSection returns the canonical section for name.
func ParseSection(name string) (Section, bool) {
	normalized := Section(strings.ToLower(strings.TrimSpace(name)))
	for _, section := range sections {
		if section == normalized {
			return section, true
		}
	}
	return "", false
}

// Valid reports whether s names a known section.
func (s Section) Valid() bool {
	_, ok := ParseSection(string(s))
	return ok
}

// Category controls where a command is listed.
type Category string

const (
	// CategorySystem commands appear under "System Commands".
	CategorySystem Category = "system"
	// CategoryNavigation commands switch the content panel.
	CategoryNavigation Category = "navigation"
	// CategoryHidden commands execute but are never listed.
	CategoryHidden Category = "hidden"
)
