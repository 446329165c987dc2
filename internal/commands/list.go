package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"techlead/internal/config"
	"techlead/internal/exitcode"
	"techlead/internal/output"
	"techlead/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `techlead` (no args) and `techlead list`.
type ListCmd struct {
	sortField string
	asc       bool
	json      bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "techlead list [--sort <field>] [--asc] [--json]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.sortField, c.asc, c.json = "", false, false
	fs.StringVar(&c.sortField, "sort", "", "")
	fs.BoolVar(&c.asc, "asc", false, "")
	fs.BoolVar(&c.json, "json", false, "")
}

// InterspersedFlags lets flags follow other arguments.
func (c *ListCmd) InterspersedFlags() bool { return true }

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	tasks, err := sess.Store.ListTasks(ctx, sess.UserID)
	if err != nil {
		return readError(errOut, err)
	}

	if err := service.SortTasks(tasks, c.sortField, c.asc); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if c.json {
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if tasks == nil {
			tasks = []service.Task{}
		}
		if err := enc.Encode(tasks); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		return exitcode.Success
	}

	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	output.FormatTaskList(out, output.NewStyler(out), tasks)
	return exitcode.Success
}
