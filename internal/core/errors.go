package core

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mikey-austin/media_federation/internal/adapters/api"
)

// Exit codes for the mf CLI.
const (
	ExitOK       = 0
	ExitRuntime  = 1
	ExitUsage    = 2
	ExitHTTP     = 3
	ExitNotFound = 4
	ExitOffline  = 5
)

// CLIError carries a user-visible message and exit code.
type CLIError struct {
	Code int
	Msg  string
	Err  error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// WrapError creates a CLIError with an underlying error.
func WrapError(code int, msg string, err error) *CLIError {
	return &CLIError{Code: code, Msg: msg, Err: err}
}

// ErrorForFetch maps a top-level fetch failure to a CLI error.
func ErrorForFetch(msg string, err error) *CLIError {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Code == http.StatusNotFound {
			return WrapError(ExitNotFound, msg, err)
		}
		return WrapError(ExitHTTP, msg, err)
	}
	return WrapError(ExitRuntime, msg, err)
}

// ExitCode returns the CLI exit code from error.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitRuntime
}
