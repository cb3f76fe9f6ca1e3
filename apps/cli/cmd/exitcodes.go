package cmd

import "errors"

// Exit codes for hitbase CLI
const (
	// ExitSuccess indicates the target resolved (and passed its checks)
	ExitSuccess = 0

	// ExitFailure indicates an unexpected error
	ExitFailure = 1

	// ExitConfigError indicates a missing or invalid property or config file
	ExitConfigError = 3

	// ExitNetworkError indicates the target was not ready or failed its checks
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// ExitError carries the exit code for a failed command
type ExitError struct {
	Code int
	Err  error
	// Reported is set when the error was already written by a formatter
	Reported bool
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsageError, Err: err}
}
