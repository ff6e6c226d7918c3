package terminal

import (
	"strings"

	"github.com/nolindnaidoo/termfolio/schema"
)

// CommandContext is the navigation state a command executes against.
type CommandContext struct {
	Current  schema.Section
	Navigate func(schema.Section)
}

func (c CommandContext) current() schema.Section {
	if c.Current == "" {
		return schema.DefaultSection
	}
	return c.Current
}

func (c CommandContext) navigate(section schema.Section) {
	if c.Navigate != nil {
		c.Navigate(section)
	}
}

// Command is one registry entry.
type Command struct {
	Name        string
	Description string
	Category    schema.Category
	Execute     func(CommandContext) []string
}

// Registry maps lowercase command names to commands and remembers
// registration order for help output. A Registry is immutable once built.
type Registry struct {
	order    []string
	commands map[string]Command
}

func newRegistry(cmds ...Command) *Registry {
	r := &Registry{commands: make(map[string]Command, len(cmds))}
	for _, cmd := range cmds {
		key := strings.ToLower(cmd.Name)
		if _, exists := r.commands[key]; exists {
			panic("terminal: duplicate command " + key)
		}
		cmd.Name = key
		r.order = append(r.order, key)
		r.commands[key] = cmd
	}
	return r
}

// Lookup finds a command by name, ignoring case.
func (r *Registry) Lookup(name string) (Command, bool) {
	if r == nil {
		return Command{}, false
	}
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// Names returns every command name in registration order, hidden ones included.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Category returns the commands of one category in registration order.
func (r *Registry) Category(category schema.Category) []Command {
	if r == nil {
		return nil
	}
	var out []Command
	for _, name := range r.order {
		if cmd := r.commands[name]; cmd.Category == category {
			out = append(out, cmd)
		}
	}
	return out
}

// Complete returns the command names that start with prefix, ignoring case.
func (r *Registry) Complete(prefix string) []string {
	if r == nil {
		return nil
	}
	lower := strings.ToLower(prefix)
	var out []string
	for _, name := range r.order {
		if strings.HasPrefix(name, lower) {
			out = append(out, name)
		}
	}
	return out
}
