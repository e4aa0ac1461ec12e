package errors

import (
	"fmt"
	"strings"
)

// ParseError represents a manifest parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration and command line validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DependencyError records a selected module that depends on an unregistered module.
type DependencyError struct {
	Module     string
	Dependency string
}

func (e DependencyError) Error() string {
	return fmt.Sprintf("Module %s depends on module %s but this module is not registered.", e.Module, e.Dependency)
}

// DependencyErrors is the full set of violations found in one validation pass.
type DependencyErrors []DependencyError

func (e DependencyErrors) Error() string {
	lines := make([]string, len(e))
	for i, dep := range e {
		lines[i] = dep.Error()
	}
	return strings.Join(lines, "\n")
}

// DuplicateModuleError reports a module name registered more than once.
type DuplicateModuleError struct {
	Module string
	Count  int
}

func (e *DuplicateModuleError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("Module %s is registered %d times.", e.Module, e.Count)
}

// ExecutionError represents a failed command or file operation.
//
// For a command that ran and exited non-zero the message is its captured stderr.
type ExecutionError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

// NewExecutionError constructs an ExecutionError for an operation that failed before or
// without producing an exit status.
func NewExecutionError(command string, err error) error {
	return &ExecutionError{Command: command, ExitCode: -1, Err: err}
}

// NewExitError constructs an ExecutionError for a command that exited non-zero.
func NewExitError(command string, code int, stderr string) error {
	return &ExecutionError{Command: command, ExitCode: code, Stderr: stderr}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		if e.Command != "" {
			return fmt.Sprintf("%s: %v", e.Command, e.Err)
		}
		return e.Err.Error()
	}
	if e.Stderr != "" {
		return e.Stderr
	}
	return fmt.Sprintf("command %q exited with code %d", e.Command, e.ExitCode)
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ModuleError attributes an action failure to the module (or hook) that raised it.
type ModuleError struct {
	Module string
	Err    error
}

// NewModuleError constructs a ModuleError.
func NewModuleError(module string, err error) error {
	return &ModuleError{Module: module, Err: err}
}

func (e *ModuleError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("module %s: %v", e.Module, e.Err)
}

// Unwrap exposes the action error.
func (e *ModuleError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
