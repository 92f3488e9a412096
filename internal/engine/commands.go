package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mattn/go-shellwords"
)

var ErrUnknownCommand = errors.New("engine: unknown command")

// CommandFunc runs a registered command with its parsed arguments.
type CommandFunc func(args []string) error

// Commands is a registry of named commands invoked from command strings
// such as trigger callbacks ("spawn crate --count 3").
type Commands struct {
	funcs map[string]CommandFunc
}

func NewCommands() *Commands {
	return &Commands{funcs: map[string]CommandFunc{}}
}

// Register adds a named command. Registering the same name twice panics.
func (c *Commands) Register(name string, fn CommandFunc) {
	if _, exists := c.funcs[name]; exists {
		panic(fmt.Sprintf("command %q already registered", name))
	}
	c.funcs[name] = fn
}

func (c *Commands) Has(name string) bool {
	_, ok := c.funcs[name]
	return ok
}

// Names returns the registered command names in sorted order.
func (c *Commands) Names() []string {
	names := make([]string, 0, len(c.funcs))
	for name := range c.funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Execute splits line with shell quoting rules and runs the named command.
// An empty line is a no-op.
func (c *Commands) Execute(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		return fmt.Errorf("parse command %q: %w", line, err)
	}
	if len(args) == 0 {
		return nil
	}
	fn, ok := c.funcs[args[0]]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
	return fn(args[1:])
}
