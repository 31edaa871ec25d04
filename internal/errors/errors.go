package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// BuildFailed indicates the bundle could not be compiled
	BuildFailed ErrorCode = "BUILD_FAILED"
	// FileNotFound indicates no serving rule matched the request path
	FileNotFound ErrorCode = "FILE_NOT_FOUND"
	// MalformedRequest indicates the request target could not be used as a path
	MalformedRequest ErrorCode = "MALFORMED_REQUEST"
	// FilesystemError indicates a file could not be read after it was found
	FilesystemError ErrorCode = "FILESYSTEM_ERROR"
	// ConfigInvalid indicates the project configuration is unusable
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditFile suggests editing a project file
	EditFile FixActionType = "edit-file"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Path        string        `json:"path,omitempty"`
	Description string        `json:"description,omitempty"`
}

// JahError represents an error with a stable code, message, and suggestions
type JahError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// NewJahError creates a new JahError
func NewJahError(code ErrorCode, message string, cause error, suggestedFixes []FixAction) *JahError {
	return &JahError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes,
	}
}

// Error implements the error interface
func (e *JahError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *JahError) Unwrap() error {
	return e.cause
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	BuildFailed: {
		{
			Type:        RunCommand,
			Command:     "jah make",
			Description: "Run a one-shot build to see the full diagnostics",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "jah init",
			Description: "Write a default project configuration",
		},
		{
			Type:        EditFile,
			Path:        "jah.json",
			Description: "Fix the reported field in the project configuration",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}

// Hint renders the fix as a single line for terminals and plain-text bodies
func (f FixAction) Hint() string {
	target := f.Command
	if f.Type == EditFile {
		target = "edit " + f.Path
	}
	if f.Description == "" {
		return "hint: " + target
	}
	return "hint: " + target + " (" + f.Description + ")"
}

// Hints returns one line per suggested fix of the first JahError in
// err's chain.
func Hints(err error) []string {
	var jerr *JahError
	if !errors.As(err, &jerr) {
		return nil
	}
	hints := make([]string, 0, len(jerr.SuggestedFixes))
	for _, f := range jerr.SuggestedFixes {
		hints = append(hints, f.Hint())
	}
	return hints
}

// CodeOf returns the code of the first JahError in err's chain,
// or InternalError when there is none.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if jerr, ok := err.(*JahError); ok {
			return jerr.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return InternalError
}
