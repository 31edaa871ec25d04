package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewJahError(t *testing.T) {
	cause := errors.New("underlying error")
	fixes := []FixAction{{Type: RunCommand, Command: "jah make"}}

	err := NewJahError(BuildFailed, "bundle failed", cause, fixes)

	if err.Code != BuildFailed {
		t.Errorf("Code = %v, want %v", err.Code, BuildFailed)
	}
	if err.Message != "bundle failed" {
		t.Errorf("Message = %q, want %q", err.Message, "bundle failed")
	}
	if len(err.SuggestedFixes) != 1 {
		t.Errorf("len(SuggestedFixes) = %d, want 1", len(err.SuggestedFixes))
	}
}

func TestJahError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      FilesystemError,
			message:   "cannot read public/app.css",
			cause:     errors.New("permission denied"),
			wantParts: []string{"FILESYSTEM_ERROR", "cannot read public/app.css", "permission denied"},
		},
		{
			name:      "without cause",
			code:      FileNotFound,
			message:   "File not found",
			cause:     nil,
			wantParts: []string{"FILE_NOT_FOUND", "File not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewJahError(tt.code, tt.message, tt.cause, nil)
			got := err.Error()

			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestJahError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewJahError(BuildFailed, "build", cause, nil)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	noCause := NewJahError(BuildFailed, "build", nil, nil)
	if noCause.Unwrap() != nil {
		t.Error("Unwrap() should be nil without a cause")
	}
}

func TestHints(t *testing.T) {
	build := NewJahError(BuildFailed, "cannot bundle src/main.js", nil, GetSuggestedFixes(BuildFailed))
	config := NewJahError(ConfigInvalid, "invalid jah.json", nil, GetSuggestedFixes(ConfigInvalid))

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"plain error", errors.New("boom"), nil},
		{"no fixes", NewJahError(FilesystemError, "cannot read", nil, nil), []string{}},
		{"build", build, []string{"hint: jah make (Run a one-shot build to see the full diagnostics)"}},
		{"wrapped", fmt.Errorf("serving bundle: %w", build), []string{"hint: jah make (Run a one-shot build to see the full diagnostics)"}},
		{"edit file", config, []string{
			"hint: jah init (Write a default project configuration)",
			"hint: edit jah.json (Fix the reported field in the project configuration)",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hints(tt.err)
			if len(got) != len(tt.want) {
				t.Fatalf("Hints() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Hints()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFixAction_HintWithoutDescription(t *testing.T) {
	f := FixAction{Type: RunCommand, Command: "jah make"}
	if got := f.Hint(); got != "hint: jah make" {
		t.Errorf("Hint() = %q, want %q", got, "hint: jah make")
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	if fixes := GetSuggestedFixes(BuildFailed); len(fixes) == 0 {
		t.Error("BuildFailed should have suggested fixes")
	}
	if fixes := GetSuggestedFixes(ConfigInvalid); len(fixes) != 2 {
		t.Errorf("ConfigInvalid fixes = %d, want 2", len(fixes))
	}
	if fixes := GetSuggestedFixes(FileNotFound); fixes != nil {
		t.Errorf("FileNotFound fixes = %v, want nil", fixes)
	}
}

func TestCodeOf(t *testing.T) {
	jerr := NewJahError(BuildFailed, "build", nil, nil)

	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, InternalError},
		{"plain", errors.New("boom"), InternalError},
		{"direct", jerr, BuildFailed},
		{"wrapped", fmt.Errorf("serving bundle: %w", jerr), BuildFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}
