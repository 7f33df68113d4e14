// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/chatpdf/internal/chat"
	"github.com/jeranaias/chatpdf/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNotFoundError indicates a missing export or directory
	ExitNotFoundError = 7
	// ExitInputError indicates an export that cannot be converted
	ExitInputError = 9
	// ExitInterrupted indicates Ctrl-C
	ExitInterrupted = 130
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "convert", "watch")
	Action  string // Action being performed (e.g., "open", "list")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string // Type of resource (e.g., "export", "directory")
	ID       string // Identifier that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// =============================================================================
// ERROR CONSTRUCTION HELPERS
// =============================================================================

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{
		Command: command,
		Action:  action,
		Reason:  reason,
		Err:     err,
	}
}

// ErrMissingArgument creates an error for missing required arguments.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{
		Field:   argName,
		Reason:  "required argument missing",
		Example: usage,
	}
}

// ErrInvalidFormat creates an error for invalid format.
func ErrInvalidFormat(field, value, expected string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Reason:  "invalid format",
		Example: expected,
	}
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError writes err to w in the CLI's error format.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}
	const prefix = "[ERROR] "
	msg := WrapText(err.Error(), GetTerminalWidth()-len(prefix))
	msg = strings.ReplaceAll(msg, "\n", "\n"+strings.Repeat(" ", len(prefix)))
	fmt.Fprintf(w, "%s %s\n", RenderConditional(ErrorStyle, "[ERROR]"), msg)
}

// ExitCode determines the exit code for an error.
//   - ExitUsageError (2): ValidationError, TTYRequiredError
//   - ExitConfigError (3): invalid configuration
//   - ExitNotFoundError (7): missing files and directories
//   - ExitInputError (9): malformed, unsupported or empty exports
//   - ExitInterrupted (130): Ctrl-C
//   - ExitGeneralError (1): all other errors
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *ValidationError
	var ttyErr *TTYRequiredError
	if errors.As(err, &validationErr) || errors.As(err, &ttyErr) {
		return ExitUsageError
	}

	var configErrs config.ValidateErrors
	if errors.As(err, &configErrs) {
		return ExitConfigError
	}

	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) || errors.Is(err, os.ErrNotExist) {
		return ExitNotFoundError
	}

	switch {
	case errors.Is(err, chat.ErrMalformedExport),
		errors.Is(err, chat.ErrUnsupportedKind),
		errors.Is(err, chat.ErrEmptyConversation):
		return ExitInputError
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	}

	return ExitGeneralError
}
