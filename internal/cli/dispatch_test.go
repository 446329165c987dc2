package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"techlead/internal/cli"
	"techlead/internal/commands"
	"techlead/internal/config"
	"techlead/internal/exitcode"
	"techlead/internal/output"
	"techlead/internal/service"
	"techlead/internal/testutil"
)

func init() {
	output.Location = time.UTC
}

// testFactory creates a session factory that returns a session over st.
func testFactory(st *testutil.FakeStore) cli.SessionFactory {
	return func(ctx context.Context, cfg *config.Config) (*service.Session, error) {
		return testutil.NewSession(st, nil), nil
	}
}

func failingFactory(err error) cli.SessionFactory {
	return func(ctx context.Context, cfg *config.Config) (*service.Session, error) {
		return nil, err
	}
}

// run dispatches args with an isolated config directory placed right after
// the command name.
func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		args = append([]string{args[0], "--config", t.TempDir()}, args[1:]...)
	}
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	_, stderr, code := run(t, dispatcher, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	_, stderr, code := run(t, dispatcher, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	stdout, stderr, code := run(t, dispatcher, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	stdout, stderr, code := run(t, dispatcher, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "techlead 0.1.0\n" {
		t.Errorf("expected 'techlead 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	_, stderr, code := run(t, dispatcher, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	var outBuf, errBuf bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--config", t.TempDir(), "--sort"}, &outBuf, &errBuf)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -sort\n"
	if errBuf.String() != expected {
		t.Errorf("expected %q, got %q", expected, errBuf.String())
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	st := testutil.NewFakeStore()
	st.AddTask(testutil.TestUserID, service.NewTask{Description: "Write report", Status: service.StatusPending})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(st))

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var outBuf, errBuf bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	if !strings.Contains(outBuf.String(), "Write report") {
		t.Errorf("expected task list, got %q", outBuf.String())
	}
}

func TestDispatcher_InterspersedFlags(t *testing.T) {
	st := testutil.NewFakeStore()
	id := st.AddTask(testutil.TestUserID, service.NewTask{Description: "Write report", Status: service.StatusPending})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(st))

	stdout, stderr, code := run(t, dispatcher, "edit", "1", "--status", service.StatusInProgress, "--quiet")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
	task, _ := st.Task(testutil.TestUserID, id)
	if task.Status != service.StatusInProgress {
		t.Errorf("expected status %q, got %q", service.StatusInProgress, task.Status)
	}
}

func TestDispatcher_AliasResolves(t *testing.T) {
	st := testutil.NewFakeStore()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(st))

	_, stderr, code := run(t, dispatcher, "create", "Write", "docs")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if st.Len(testutil.TestUserID) != 1 {
		t.Errorf("expected 1 task, got %d", st.Len(testutil.TestUserID))
	}
}

func TestDispatcher_SessionErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		prefix string
	}{
		{"not logged in", config.ErrNotLoggedIn, exitcode.AuthError, "error: auth error: "},
		{"not configured", errors.Join(config.ErrNotConfigured, errors.New("no project")), exitcode.AuthError, "error: auth error: "},
		{"backend", errors.New("dial tcp: connection refused"), exitcode.BackendError, "error: backend error: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := cli.NewDispatcher(commands.DefaultRegistry, failingFactory(tt.err))

			stdout, stderr, code := run(t, dispatcher, "list")

			if code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if !strings.HasPrefix(stderr, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, stderr)
			}
		})
	}
}

func TestDispatcher_NoFactory(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	_, stderr, code := run(t, dispatcher, "list")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: oauth_client.json not found") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
