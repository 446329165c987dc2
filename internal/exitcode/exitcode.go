// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, empty prompt).
	UserError = 1

	// AuthError indicates an auth/config error, including a store write
	// rejected by security rules.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3

	// AssistantError indicates the assistant failed to process a prompt.
	AssistantError = 4
)
