package app

import (
	"errors"
	"fmt"
)

// Exit codes for the readtable CLI. Every failure maps to 1.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

var (
	// ErrNoTablesFound is returned when extraction, or the table selection
	// applied to it, yields nothing to write.
	ErrNoTablesFound = errors.New("no tables found")
	// ErrUsage wraps argument and configuration problems.
	ErrUsage = errors.New("usage")
)

// ExitCode maps a run error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}

// UserMessage returns the short line printed to the user for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoTablesFound):
		return "No tables found."
	case errors.Is(err, ErrUsage):
		return fmt.Sprintf("Invalid usage: %v", err)
	}
	return fmt.Sprintf("Error: %v", err)
}
