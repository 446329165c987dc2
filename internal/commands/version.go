package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"techlead/internal/config"
	"techlead/internal/exitcode"
	"techlead/internal/service"
)

// Version is the release version, overridden with
// -ldflags "-X techlead/internal/commands.Version=...".
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd prints the release version. With -v it also reports the build
// revision and the backends the current configuration points at.
type VersionCmd struct {
	verbose bool
}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version and backend settings" }
func (c *VersionCmd) Usage() string     { return "techlead version [-v]" }
func (c *VersionCmd) NeedsAuth() bool   { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "")
}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "techlead %s\n", Version)
	if !c.verbose {
		return exitcode.Success
	}

	s := cfg.Settings
	project := s.ProjectID
	if project == "" {
		project = "(unset)"
	}
	fmt.Fprintf(out, "  revision:  %s\n", buildRevision())
	fmt.Fprintf(out, "  go:        %s\n", runtime.Version())
	fmt.Fprintf(out, "  firestore: %s/%s\n", project, s.Database)
	fmt.Fprintf(out, "  model:     %s\n", s.Model)
	return exitcode.Success
}

func buildRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	rev, dirty := "", false
	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			rev = kv.Value
		case "vcs.modified":
			dirty = kv.Value == "true"
		}
	}
	if rev == "" {
		return "unknown"
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if dirty {
		rev += "-dirty"
	}
	return rev
}
