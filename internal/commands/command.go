// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"techlead/internal/config"
	"techlead/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a signed-in session.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings, logger).
	// sess is nil if NeedsAuth() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int
}

// Interspersed is implemented by commands whose flags may follow
// positional arguments (e.g. "edit 3 --status done").
type Interspersed interface {
	InterspersedFlags() bool
}
