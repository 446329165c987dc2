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
	Register(&EditCmd{})
}

// editableFields maps flag names to stored field names.
var editableFields = []struct{ flag, field string }{
	{"projeto", service.FieldProject},
	{"tarefa", service.FieldDescription},
	{"responsavel", service.FieldAssignee},
	{"status", service.FieldStatus},
	{"prazo", service.FieldDeadline},
	{"observacoes", service.FieldNotes},
}

// fieldFlag sets one field of a patch.
type fieldFlag struct {
	field string
	patch *service.TaskPatch
}

func (f fieldFlag) String() string { return "" }

func (f fieldFlag) Set(v string) error {
	if !f.patch.Set(f.field, v) {
		return fmt.Errorf("not an editable field: %s", f.field)
	}
	return nil
}

// EditCmd implements the edit command.
type EditCmd struct {
	patch service.TaskPatch
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change fields of a task" }
func (c *EditCmd) Usage() string {
	return "techlead edit <ref> [--projeto <v>] [--tarefa <v>] [--responsavel <v>] [--status <v>] [--prazo <v>] [--observacoes <v>]"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.patch = service.TaskPatch{}
	for _, f := range editableFields {
		fs.Var(fieldFlag{field: f.field, patch: &c.patch}, f.flag, "")
	}
}

// InterspersedFlags lets flags follow the task reference.
func (c *EditCmd) InterspersedFlags() bool { return true }

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if c.patch.IsEmpty() {
		fmt.Fprintln(errOut, "error: nothing to change (use --status, --prazo, ...)")
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
	w := a.UpdateTask(ctx, sess.UserID, task.ID, c.patch)
	if code := finishWrite(ctx, cfg, a, w, errW); code != exitcode.Success {
		return code
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// resolveTask reads the task list and finds ref in it.
func resolveTask(ctx context.Context, sess *service.Session, ref TaskRef, errOut io.Writer) (service.Task, int) {
	tasks, err := sess.Store.ListTasks(ctx, sess.UserID)
	if err != nil {
		return service.Task{}, readError(errOut, err)
	}
	task, err := ref.Resolve(tasks)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}
	return task, exitcode.Success
}
