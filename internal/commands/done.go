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
	Register(&DoneCmd{})
}

// DoneCmd implements the done command: mark a task completed without
// asking the assistant.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "techlead done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
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
	w := a.UpdateTaskStatus(ctx, sess.UserID, task.ID, service.StatusCompleted)
	if code := finishWrite(ctx, cfg, a, w, errW); code != exitcode.Success {
		return code
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
