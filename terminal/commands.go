package terminal

import (
	"fmt"

	"github.com/nolindnaidoo/termfolio/schema"
)

const helpNameWidth = 12

// ClearCommand is handled by the dispatcher, which clears the buffer.
const ClearCommand = "clear"

type sectionEntry struct {
	section schema.Section
	loading string
}

var navigationEntries = []sectionEntry{
	{schema.SectionHome, "Loading main interface..."},
	{schema.SectionAbout, "Loading personal background..."},
	{schema.SectionProjects, "Loading featured work..."},
	{schema.SectionSkills, "Loading technical expertise..."},
	{schema.SectionContact, "Loading contact information..."},
}

var sectionSummaries = map[schema.Section]string{
	schema.SectionHome:     "Main portfolio interface",
	schema.SectionAbout:    "Personal background and story",
	schema.SectionProjects: "Featured work and case studies",
	schema.SectionSkills:   "Technical expertise and tools",
	schema.SectionContact:  "Get in touch and connect",
}

// BuildRegistry returns the command table for identity. The registry holds no
// navigation state; commands read and change it through CommandContext.
func BuildRegistry(identity Identity) *Registry {
	id := identity.withDefaults()
	var reg *Registry
	cmds := []Command{
		{
			Name:        "help",
			Description: "Show available commands",
			Category:    schema.CategorySystem,
			Execute: func(CommandContext) []string {
				return helpLines(reg)
			},
		},
		{
			Name:        ClearCommand,
			Description: "Clear the terminal screen",
			Category:    schema.CategorySystem,
			Execute:     func(CommandContext) []string { return nil },
		},
		{
			Name:        "whoami",
			Description: "Display current user information",
			Category:    schema.CategorySystem,
			Execute: func(CommandContext) []string {
				return []string{
					"Current user: " + id.User,
					"Access level: " + id.AccessLevel,
					"Session: " + id.SessionName,
					"Location: " + id.Location,
				}
			},
		},
		{
			Name:        "status",
			Description: "Show system status",
			Category:    schema.CategorySystem,
			Execute: func(CommandContext) []string {
				return []string{
					"System Status Report:",
					"├─ Portfolio System: ✅ ONLINE",
					"├─ Security Protocols: ✅ ACTIVE",
					"├─ Charm Modules: ✅ LOADED",
					"├─ Skills Database: ✅ READY",
					"└─ Contact Systems: ✅ OPERATIONAL",
					"",
					"All systems nominal. Ready for collaboration.",
				}
			},
		},
		{
			Name:        "ls",
			Description: "List available sections",
			Category:    schema.CategorySystem,
			Execute: func(ctx CommandContext) []string {
				out := []string{
					"Current location: " + sectionPath(id, ctx.current()),
					"",
					"Available sections:",
				}
				for _, entry := range navigationEntries {
					out = append(out, fmt.Sprintf("%-*s - %s", helpNameWidth, string(entry.section)+"/", sectionSummaries[entry.section]))
				}
				return append(out, "", "Use section names as commands to navigate.")
			},
		},
		{
			Name:        "pwd",
			Description: "Print current working directory",
			Category:    schema.CategorySystem,
			Execute: func(ctx CommandContext) []string {
				return []string{sectionPath(id, ctx.current())}
			},
		},
	}
	for _, entry := range navigationEntries {
		cmds = append(cmds, navigationCommand(entry))
	}
	cmds = append(cmds,
		Command{
			Name:        "back",
			Description: "Go back to home section",
			Category:    schema.CategoryNavigation,
			Execute: func(ctx CommandContext) []string {
				ctx.navigate(schema.SectionHome)
				return []string{"Navigating back to home section..."}
			},
		},
		fixedCommand("cd ..", "Go up one directory", `cd: use "back" to return home`),
		fixedCommand("cd", "Change directory", "Usage: cd [directory]"),
		fixedCommand("exit", "Exit terminal", "exit: permission denied"),
		fixedCommand("sudo", "Execute as superuser", "sudo: permission denied"),
	)
	reg = newRegistry(cmds...)
	return reg
}

func navigationCommand(entry sectionEntry) Command {
	section := entry.section
	loading := entry.loading
	return Command{
		Name:        string(section),
		Description: fmt.Sprintf("Navigate to %s section", section),
		Category:    schema.CategoryNavigation,
		Execute: func(ctx CommandContext) []string {
			ctx.navigate(section)
			return []string{fmt.Sprintf("Navigating to %s section...", section), loading}
		},
	}
}

func fixedCommand(name, description, reply string) Command {
	return Command{
		Name:        name,
		Description: description,
		Category:    schema.CategoryHidden,
		Execute:     func(CommandContext) []string { return []string{reply} },
	}
}

func helpLines(reg *Registry) []string {
	out := []string{"", "System Commands:"}
	for _, cmd := range reg.Category(schema.CategorySystem) {
		out = append(out, formatHelpLine(cmd))
	}
	out = append(out, "", "Navigation Commands:")
	for _, cmd := range reg.Category(schema.CategoryNavigation) {
		out = append(out, formatHelpLine(cmd))
	}
	return append(out, "", "Use Tab for autocomplete, ↑/↓ for command history")
}

func formatHelpLine(cmd Command) string {
	return fmt.Sprintf("  %-*s - %s", helpNameWidth, cmd.Name, cmd.Description)
}

func sectionPath(id Identity, section schema.Section) string {
	return id.Location + "/" + string(section)
}
