package cli

import "fmt"

// Error codes reported in CLI responses.
const (
	ErrCodeGeneric     = "E001" // unclassified failure
	ErrCodeNotFound    = "E002" // input file or directory missing
	ErrCodeBadArgument = "E003" // flag or argument rejected
	ErrCodeWriteFailed = "E004" // output could not be written
	ErrCodeDatabase    = "E005" // cache database failure
)

// outputCommandError reports a command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
