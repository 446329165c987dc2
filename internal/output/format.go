// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"techlead/internal/events"
	"techlead/internal/service"
)

// TimeLayout is how update times are shown.
const TimeLayout = "02/01/2006 15:04"

// Location is the zone update times are shown in.
var Location = time.Local

// FormatTask formats a task as two lines: number, status and description,
// then an indented detail line.
// Format: "{N:>4}  {STATUS}  {TAREFA}\n      {DETAILS}\n"
func FormatTask(w io.Writer, st Styler, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s  %s\n", num, st.Status(normalizeStatus(task.Status)), normalizeTitle(task.Description))
	if details := taskDetails(task); details != "" {
		fmt.Fprintf(w, "      %s\n", st.Faint(details))
	}
	if notes := normalizeText(task.Notes); notes != "" {
		fmt.Fprintf(w, "      obs: %s\n", notes)
	}
}

// FormatTaskList formats tasks numbered from 1, or "(no tasks)".
func FormatTaskList(w io.Writer, st Styler, tasks []service.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "(no tasks)")
		return
	}
	for i, t := range tasks {
		FormatTask(w, st, i+1, t)
	}
}

// FormatPermissionError prints an asynchronous store rejection.
func FormatPermissionError(w io.Writer, e *events.PermissionError) {
	fmt.Fprintf(w, "error: %s\n", e.Error())
}

// FormatTime formats an update time, or "-" if unset.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(Location).Format(TimeLayout)
}

func taskDetails(t service.Task) string {
	var parts []string
	if p := normalizeText(t.Project); p != "" {
		parts = append(parts, p)
	}
	if a := normalizeText(t.Assignee); a != "" {
		parts = append(parts, a)
	}
	if d := normalizeText(t.Deadline); d != "" {
		parts = append(parts, "prazo "+d)
	}
	if !t.LastUpdated.IsZero() {
		parts = append(parts, "atualizado "+FormatTime(t.LastUpdated))
	}
	return strings.Join(parts, " | ")
}

// normalizeTitle normalizes a task description for display.
// - Empty or whitespace-only descriptions become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = normalizeText(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

// normalizeStatus shows a missing status as "-".
func normalizeStatus(status string) string {
	status = normalizeText(status)
	if status == "" {
		return "-"
	}
	return status
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
