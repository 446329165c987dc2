package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"techlead/internal/config"
	"techlead/internal/exitcode"
	"techlead/internal/output"
	"techlead/internal/prompt"
	"techlead/internal/service"
	"techlead/internal/store"
)

// firstSnapshotTimeout bounds how long chat waits for the initial task list.
const firstSnapshotTimeout = 10 * time.Second

func init() {
	Register(&ChatCmd{})
}

// ChatCmd implements the chat command: an interactive prompt loop over a
// live task list.
type ChatCmd struct {
	in io.Reader
}

// SetInput sets the prompt source (for testing). Defaults to stdin.
func (c *ChatCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *ChatCmd) Name() string      { return "chat" }
func (c *ChatCmd) Aliases() []string { return nil }
func (c *ChatCmd) Synopsis() string  { return "Talk to the assistant with a live task list" }
func (c *ChatCmd) Usage() string     { return "techlead chat" }
func (c *ChatCmd) NeedsAuth() bool   { return true }

func (c *ChatCmd) RegisterFlags(fs *flag.FlagSet) {}

const chatHelp = `Type a request for the assistant, for example:
  nova tarefa: revisar o PR do Bruno até sexta
  atualize status de revisar o PR para concluído
  gere um mapa mental das tarefas
Commands: /list shows the tasks, /quit exits.
`

func (c *ChatCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	st := output.NewStyler(out)
	outW := &syncWriter{w: out}
	errW := &syncWriter{w: errOut}

	failures, unsubscribe := reportFailures(sess.Bus, errW)
	defer unsubscribe()

	// Keep a live view of the task list.
	snap := &store.Snapshot{}
	ready := make(chan struct{})
	var readyOnce sync.Once

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	watcher := store.NewWatcher(sess.Store, sess.Bus, cfg.Log, cfg.Settings.PollInterval)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		watcher.Run(watchCtx, sess.UserID, func(tasks []service.Task) {
			snap.Replace(tasks)
			readyOnce.Do(func() { close(ready) })
		})
	}()

	select {
	case <-ready:
	case <-time.After(firstSnapshotTimeout):
		cfg.Log.Warn().Msg("task list not loaded yet")
	case <-ctx.Done():
	}

	if !cfg.Quiet {
		fmt.Fprint(outW, chatHelp)
	}

	handler := prompt.NewHandler(sess.Assistant, cfg.Log)
	a := newAdapter(cfg, sess)
	tty := output.IsTerminal(out)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-watchCtx.Done():
				return
			}
		}
	}()

loop:
	for {
		if tty {
			fmt.Fprint(outW, st.Bold("> "))
		}

		var line string
		select {
		case l, ok := <-lines:
			if !ok {
				break loop
			}
			line = strings.TrimSpace(l)
		case <-ctx.Done():
			break loop
		}

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			break loop
		case "/list":
			output.FormatTaskList(outW, st, snap.Tasks())
			continue
		case "/help":
			fmt.Fprint(outW, chatHelp)
			continue
		}

		res := handler.HandlePrompt(ctx, line, snap.Tasks(), sess.UserID)
		if err := output.WriteMessage(outW, res.Content, false); err != nil {
			fmt.Fprintln(outW, res.Content)
		}
		prompt.Apply(ctx, a, sess.UserID, res)
	}

	// Closing the input ends the reader goroutine. Stdin cannot be
	// unblocked this way, so its reader lingers until the process exits.
	if rc, ok := in.(io.Closer); ok && in != io.Reader(os.Stdin) {
		rc.Close()
	}

	flush(ctx, cfg, a)
	stopWatch()
	wg.Wait()

	if failures.Failed() {
		return exitcode.AuthError
	}
	return exitcode.Success
}
