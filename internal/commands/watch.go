package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"techlead/internal/config"
	"techlead/internal/exitcode"
	"techlead/internal/output"
	"techlead/internal/service"
	"techlead/internal/store"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd implements the watch command: print the task list every time
// it changes.
type WatchCmd struct {
	count int
}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "Print the task list whenever it changes" }
func (c *WatchCmd) Usage() string     { return "techlead watch [--count <n>]" }
func (c *WatchCmd) NeedsAuth() bool   { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {
	c.count = 0
	fs.IntVar(&c.count, "count", 0, "")
}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	if c.count < 0 {
		fmt.Fprintf(errOut, "error: invalid count: %d\n", c.count)
		return exitcode.UserError
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errW := &syncWriter{w: errOut}
	_, unsubscribe := reportFailures(sess.Bus, errW)
	defer unsubscribe()

	st := output.NewStyler(out)
	seen := 0
	watcher := store.NewWatcher(sess.Store, sess.Bus, cfg.Log, cfg.Settings.PollInterval)
	err := watcher.Run(ctx, sess.UserID, func(tasks []service.Task) {
		if seen > 0 {
			fmt.Fprintln(out)
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "-- %s --\n", time.Now().In(output.Location).Format(time.TimeOnly))
		}
		output.FormatTaskList(out, st, tasks)
		seen++
		if c.count > 0 && seen >= c.count {
			cancel()
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
