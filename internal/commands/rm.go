package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"techlead/internal/config"
	"techlead/internal/exitcode"
	"techlead/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "techlead rm <ref>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	task, code := resolveTask(ctx, sess, ref, errOut)
	if code != exitcode.Success {
		return code
	}

	errW := &syncWriter{w: errOut}
	_, unsubscribe := reportFailures(sess.Bus, errW)
	defer unsubscribe()

	a := newAdapter(cfg, sess)
	w := a.DeleteTask(ctx, sess.UserID, task.ID)
	if code := finishWrite(ctx, cfg, a, w, errW); code != exitcode.Success {
		return code
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
