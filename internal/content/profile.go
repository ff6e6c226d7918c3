// Package content holds the portfolio profile and renders the left-hand
// content panels as plain text.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nolindnaidoo/termfolio/schema"
	"github.com/nolindnaidoo/termfolio/terminal"
	"gopkg.in/yaml.v3"
)

//go:embed profile.yaml
var defaultProfileYAML []byte

// DefaultRoleInterval is how long each headline role is shown.
const DefaultRoleInterval = 2800 * time.Millisecond

// Role is one rotating headline, rendered "<first> • <second>".
type Role struct {
	First  string `yaml:"first"`
	Second string `yaml:"second"`
}

func (r Role) String() string {
	return r.First + " • " + r.Second
}

// Link is an outbound profile link.
type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// External reports whether the link leaves the site.
func (l Link) External() bool {
	return strings.HasPrefix(l.Href, "http://") || strings.HasPrefix(l.Href, "https://")
}

// SectionText is the authored copy of one non-home panel.
type SectionText struct {
	Title string   `yaml:"title"`
	Body  []string `yaml:"body"`
}

// Metadata drives the HTML head of the web surface.
type Metadata struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Keywords      []string `yaml:"keywords"`
	Author        string   `yaml:"author"`
	OGImage       string   `yaml:"og_image"`
	OGImageWidth  int      `yaml:"og_image_width"`
	OGImageHeight int      `yaml:"og_image_height"`
	TwitterCard   string   `yaml:"twitter_card"`
	Canonical     string   `yaml:"canonical"`
}

// Profile is everything the panels and page head display.
type Profile struct {
	Name         string                         `yaml:"name"`
	Headline     string                         `yaml:"headline"`
	Location     string                         `yaml:"location"`
	Email        string                         `yaml:"email"`
	Description  string                         `yaml:"description"`
	RoleInterval time.Duration                  `yaml:"role_interval"`
	Roles        []Role                         `yaml:"roles"`
	Links        []Link                         `yaml:"links"`
	Sections     map[schema.Section]SectionText `yaml:"sections"`
	Metadata     Metadata                       `yaml:"metadata"`
}

// DefaultProfile returns the embedded profile.
func DefaultProfile() Profile {
	profile, err := Parse(defaultProfileYAML)
	if err != nil {
		panic(fmt.Sprintf("content: embedded profile: %v", err))
	}
	return profile
}

// Load reads a profile from path, or returns the embedded profile when path
// is empty.
func Load(path string) (Profile, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	profile, err := Parse(data)
	if err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return profile, nil
}

// Parse decodes and validates a YAML profile.
func Parse(data []byte) (Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	if err := profile.normalize(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (p *Profile) normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	for section := range p.Sections {
		if !section.Valid() || section == schema.SectionHome {
			return fmt.Errorf("%w: %q", schema.ErrUnknownSection, section)
		}
	}
	if p.RoleInterval <= 0 {
		p.RoleInterval = DefaultRoleInterval
	}
	if p.Metadata.Title == "" {
		p.Metadata.Title = p.Name
	}
	if p.Metadata.Author == "" {
		p.Metadata.Author = p.Name
	}
	if p.Metadata.TwitterCard == "" {
		p.Metadata.TwitterCard = "summary_large_image"
	}
	return nil
}

// Identity is the terminal persona derived from the profile.
func (p Profile) Identity() terminal.Identity {
	id := terminal.DefaultIdentity()
	id.Owner = p.Name
	if p.Location != "" {
		id.Location = p.Location
	}
	return id
}

// RoleAt returns the headline role shown after elapsed time.
func (p Profile) RoleAt(elapsed time.Duration) (Role, bool) {
	if len(p.Roles) == 0 {
		return Role{}, false
	}
	interval := p.RoleInterval
	if interval <= 0 {
		interval = DefaultRoleInterval
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return p.Roles[int(elapsed/interval)%len(p.Roles)], true
}

// Title is the panel header for a section, e.g. "Projects".
func Title(section schema.Section) string {
	name := string(section)
	if name == "" {
		return "Content"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
