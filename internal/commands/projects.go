package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"techlead/internal/config"
	"techlead/internal/exitcode"
	"techlead/internal/service"
)

func init() {
	Register(&ProjectsCmd{})
}

// ProjectsCmd implements the projects command.
type ProjectsCmd struct{}

func (c *ProjectsCmd) Name() string      { return "projects" }
func (c *ProjectsCmd) Aliases() []string { return nil }
func (c *ProjectsCmd) Synopsis() string  { return "Print projects with open and total task counts" }
func (c *ProjectsCmd) Usage() string     { return "techlead projects [common flags]" }
func (c *ProjectsCmd) NeedsAuth() bool   { return true }

func (c *ProjectsCmd) RegisterFlags(fs *flag.FlagSet) {}

type projectCount struct {
	name        string
	open, total int
}

func (c *ProjectsCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	tasks, err := sess.Store.ListTasks(ctx, sess.UserID)
	if err != nil {
		return readError(errOut, err)
	}

	counts := make(map[string]*projectCount)
	for _, t := range tasks {
		name := strings.TrimSpace(t.Project)
		if name == "" {
			name = "(no project)"
		}
		pc, ok := counts[name]
		if !ok {
			pc = &projectCount{name: name}
			counts[name] = pc
		}
		pc.total++
		if service.StatusKindOf(t.Status) != service.KindCompleted {
			pc.open++
		}
	}

	projects := make([]*projectCount, 0, len(counts))
	for _, pc := range counts {
		projects = append(projects, pc)
	}
	sort.Slice(projects, func(i, j int) bool {
		a, b := strings.ToLower(projects[i].name), strings.ToLower(projects[j].name)
		if a != b {
			return a < b
		}
		return projects[i].name < projects[j].name
	})

	for _, pc := range projects {
		fmt.Fprintf(out, "%s  %d/%d\n", pc.name, pc.open, pc.total)
	}
	if len(projects) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
