package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"techlead/internal/config"
	"techlead/internal/exitcode"
	"techlead/internal/output"
	"techlead/internal/prompt"
	"techlead/internal/service"
)

func init() {
	Register(&AskCmd{})
}

// AskCmd implements the ask command: one prompt, one answer.
type AskCmd struct {
	raw     bool
	diagram string
}

func (c *AskCmd) Name() string      { return "ask" }
func (c *AskCmd) Aliases() []string { return []string{"prompt"} }
func (c *AskCmd) Synopsis() string  { return "Send a request to the assistant" }
func (c *AskCmd) Usage() string {
	return "techlead ask [--raw] [--diagram <file>] <prompt...>"
}
func (c *AskCmd) NeedsAuth() bool { return true }

func (c *AskCmd) RegisterFlags(fs *flag.FlagSet) {
	c.raw, c.diagram = false, ""
	fs.BoolVar(&c.raw, "raw", false, "")
	fs.StringVar(&c.diagram, "diagram", "", "")
}

func (c *AskCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: prompt required")
		return exitcode.UserError
	}

	tasks, err := sess.Store.ListTasks(ctx, sess.UserID)
	if err != nil {
		return readError(errOut, err)
	}

	errW := &syncWriter{w: errOut}
	_, unsubscribe := reportFailures(sess.Bus, errW)
	defer unsubscribe()

	res := prompt.NewHandler(sess.Assistant, cfg.Log).HandlePrompt(ctx, text, tasks, sess.UserID)
	if res.Type == prompt.ResultError {
		fmt.Fprintf(errW, "error: %s\n", res.Content)
		if res.AssistantFailed() {
			return exitcode.AssistantError
		}
		return exitcode.UserError
	}

	if res.Type == prompt.ResultAnalysis || !cfg.Quiet {
		if err := output.WriteMessage(out, res.Content, c.raw); err != nil {
			cfg.Log.Warn().Err(err).Msg("markdown rendering failed")
			fmt.Fprintln(out, res.Content)
		}
	}

	if c.diagram != "" {
		if code := c.saveDiagram(cfg, res, out, errW); code != exitcode.Success {
			return code
		}
	}

	a := newAdapter(cfg, sess)
	w := prompt.Apply(ctx, a, sess.UserID, res)
	return finishWrite(ctx, cfg, a, w, errW)
}

func (c *AskCmd) saveDiagram(cfg *config.Config, res prompt.Result, out, errOut io.Writer) int {
	diagram, ok := prompt.ExtractDiagram(res.Content)
	if res.Type != prompt.ResultAnalysis || !ok {
		fmt.Fprintln(errOut, "error: answer contains no mermaid diagram")
		return exitcode.UserError
	}
	if err := os.WriteFile(c.diagram, []byte(diagram), 0644); err != nil {
		fmt.Fprintf(errOut, "error: failed to write diagram: %v\n", err)
		return exitcode.UserError
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "diagram saved to %s\n", c.diagram)
	}
	return exitcode.Success
}
