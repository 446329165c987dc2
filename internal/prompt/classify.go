// Package prompt turns a free-text command into a task operation or an
// analysis, using the assistant for the parts that need language
// understanding.
package prompt

import (
	"regexp"
	"strings"
)

// CreatePrefix starts a task creation command. Matched case-insensitively.
const CreatePrefix = "nova tarefa:"

// updateStatusPattern is matched against the lowercased prompt.
var updateStatusPattern = regexp.MustCompile(`^atualize status de (.+?) para (.+)$`)

// Intent is the classified purpose of a command.
type Intent int

const (
	IntentAnalyze Intent = iota
	IntentCreate
	IntentUpdateStatus
)

func (i Intent) String() string {
	switch i {
	case IntentCreate:
		return "create"
	case IntentUpdateStatus:
		return "update-status"
	default:
		return "analyze"
	}
}

// Command is a classified prompt.
type Command struct {
	Intent Intent

	// Prompt is the original text, case preserved.
	Prompt string

	// TaskQuery and NewStatus are set for IntentUpdateStatus. Both are
	// lowercased and trimmed.
	TaskQuery string
	NewStatus string
}

// Classify decides what a prompt asks for. Creation is checked first, then
// status update; anything else is an analysis request.
func Classify(text string) Command {
	lower := strings.ToLower(text)

	if strings.HasPrefix(lower, CreatePrefix) {
		return Command{Intent: IntentCreate, Prompt: text}
	}

	if m := updateStatusPattern.FindStringSubmatch(lower); m != nil {
		return Command{
			Intent:    IntentUpdateStatus,
			Prompt:    text,
			TaskQuery: strings.TrimSpace(m[1]),
			NewStatus: strings.TrimSpace(m[2]),
		}
	}

	return Command{Intent: IntentAnalyze, Prompt: text}
}
