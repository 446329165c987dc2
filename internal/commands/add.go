package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"techlead/internal/config"
	"techlead/internal/exitcode"
	"techlead/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command: create a task from flags, without
// the assistant.
type AddCmd struct {
	task service.NewTask
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "techlead add [--projeto <p>] [--responsavel <r>] [--prazo <d>] [--status <s>] [--observacoes <o>] <tarefa...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.task = service.NewTask{}
	fs.StringVar(&c.task.Project, "projeto", "", "")
	fs.StringVar(&c.task.Assignee, "responsavel", "", "")
	fs.StringVar(&c.task.Deadline, "prazo", "", "")
	fs.StringVar(&c.task.Status, "status", service.DefaultStatus, "")
	fs.StringVar(&c.task.Notes, "observacoes", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	// Join args to form the description
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		fmt.Fprintln(errOut, "error: task description required")
		return exitcode.UserError
	}

	task := c.task
	task.Description = description
	if strings.TrimSpace(task.Status) == "" {
		task.Status = service.DefaultStatus
	}

	errW := &syncWriter{w: errOut}
	_, unsubscribe := reportFailures(sess.Bus, errW)
	defer unsubscribe()

	a := newAdapter(cfg, sess)
	w := a.AddTask(ctx, sess.UserID, task)
	if code := finishWrite(ctx, cfg, a, w, errW); code != exitcode.Success {
		return code
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
