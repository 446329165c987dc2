package commands

import (
	"context"
	"flag"
	"io"
	"testing"

	"techlead/internal/config"
	"techlead/internal/service"
)

type stubCmd struct {
	name    string
	aliases []string
}

func (c stubCmd) Name() string                   { return c.name }
func (c stubCmd) Aliases() []string              { return c.aliases }
func (c stubCmd) Synopsis() string               { return "" }
func (c stubCmd) Usage() string                  { return "" }
func (c stubCmd) NeedsAuth() bool                { return false }
func (c stubCmd) RegisterFlags(fs *flag.FlagSet) {}
func (c stubCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	return 0
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(stubCmd{name: "list", aliases: []string{"ls"}}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(stubCmd{name: "add"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, name := range []string{"list", "ls", "LS"} {
		cmd, ok := r.Find(name)
		if !ok || cmd.Name() != "list" {
			t.Errorf("Find(%q) = %v, %v", name, cmd, ok)
		}
	}
	if _, ok := r.Find("rm"); ok {
		t.Error("Find should miss unregistered names")
	}

	all := r.All()
	if len(all) != 2 || all[0].Name() != "add" || all[1].Name() != "list" {
		t.Errorf("All() returned %v", all)
	}
}

func TestRegistry_Clashes(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(stubCmd{name: "rm", aliases: []string{"delete"}}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	err := r.Register(stubCmd{name: "RM"})
	if err == nil || err.Error() != "command already registered: rm" {
		t.Errorf("expected name clash, got %v", err)
	}
	err = r.Register(stubCmd{name: "remove", aliases: []string{"delete"}})
	if err == nil || err.Error() != "command alias already registered: delete" {
		t.Errorf("expected alias clash, got %v", err)
	}
	if _, ok := r.Find("remove"); ok {
		t.Error("a rejected command must not be partly registered")
	}
	if len(r.All()) != 1 {
		t.Errorf("expected 1 command, got %d", len(r.All()))
	}
}
