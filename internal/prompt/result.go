package prompt

import (
	"strings"

	"techlead/internal/service"
)

// ResultType tells the caller what a handled prompt produced.
type ResultType string

const (
	ResultCreate   ResultType = "create"
	ResultUpdate   ResultType = "update"
	ResultAnalysis ResultType = "analysis"
	ResultError    ResultType = "error"
)

// StatusChange is the payload of an update result.
type StatusChange struct {
	TaskID    string `json:"taskId"`
	NewStatus string `json:"newStatus"`
}

// Result is the outcome of HandlePrompt. Content is always a human-readable
// message. Task is set for create results, Status for update results.
type Result struct {
	Type    ResultType       `json:"type"`
	Content string           `json:"content"`
	Task    *service.NewTask `json:"task,omitempty"`
	Status  *StatusChange    `json:"status,omitempty"`
}

// AssistantFailed reports whether r is an error caused by the assistant
// rather than by the prompt.
func (r Result) AssistantFailed() bool {
	return r.Type == ResultError && strings.HasPrefix(r.Content, failurePrefix)
}

func errorResult(content string) Result {
	return Result{Type: ResultError, Content: content}
}
