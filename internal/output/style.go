package output

import (
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"techlead/internal/service"
)

// Markdown styles accepted by RenderMarkdown.
const (
	MarkdownAuto  = "auto"
	MarkdownPlain = "notty"
)

// WrapWidth is the column at which rendered markdown wraps.
const WrapWidth = 80

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Styler colours status labels. The zero value prints plain text.
type Styler struct {
	r *lipgloss.Renderer
}

// NewStyler returns a Styler that colours output only when w is a terminal.
func NewStyler(w io.Writer) Styler {
	if !IsTerminal(w) {
		return Styler{}
	}
	return Styler{r: lipgloss.NewRenderer(w)}
}

var statusColors = map[service.StatusKind]lipgloss.AdaptiveColor{
	service.KindPending:    {Light: "#6B7280", Dark: "#9CA3AF"},
	service.KindInProgress: {Light: "#1D4ED8", Dark: "#60A5FA"},
	service.KindCompleted:  {Light: "#15803D", Dark: "#4ADE80"},
	service.KindOverdue:    {Light: "#B91C1C", Dark: "#F87171"},
}

// Status renders a status label coloured by its kind.
func (s Styler) Status(status string) string {
	if s.r == nil {
		return status
	}
	style := s.r.NewStyle().Foreground(statusColors[service.StatusKindOf(status)])
	if service.StatusKindOf(status) == service.KindOverdue {
		style = style.Bold(true)
	}
	return style.Render(status)
}

// Faint renders secondary text.
func (s Styler) Faint(text string) string {
	if s.r == nil {
		return text
	}
	return s.r.NewStyle().Faint(true).Render(text)
}

// Bold renders emphasised text.
func (s Styler) Bold(text string) string {
	if s.r == nil {
		return text
	}
	return s.r.NewStyle().Bold(true).Render(text)
}

// RenderMarkdown writes md rendered for the terminal in the given style.
func RenderMarkdown(w io.Writer, md, style string) error {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(WrapWidth)}
	if style == MarkdownAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, strings.TrimRight(out, "\n")+"\n")
	return err
}

// WriteMessage prints an assistant message. On a terminal it is rendered
// as markdown; otherwise, or when raw is set, it is printed verbatim.
func WriteMessage(w io.Writer, content string, raw bool) error {
	if raw || !IsTerminal(w) {
		_, err := io.WriteString(w, strings.TrimRight(content, "\n")+"\n")
		return err
	}
	return RenderMarkdown(w, content, MarkdownAuto)
}
