package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestNewFormatsMessage(t *testing.T) {
	err := New(ErrCodeVertexNotFound, "root vertex %d not in graph", 805080)

	if err.Code != ErrCodeVertexNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeVertexNotFound)
	}
	if want := "VERTEX_NOT_FOUND: root vertex 805080 not in graph"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Unwrap() != nil {
		t.Errorf("Unwrap() = %v, want nil", err.Unwrap())
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "open %s", "candidates.json")

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is(err, fs.ErrNotExist) = false, want true")
	}
	if want := "FILE_NOT_FOUND: open candidates.json: file does not exist"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var target *Error
	if !errors.As(fmt.Errorf("load: %w", err), &target) || target.Code != ErrCodeFileNotFound {
		t.Errorf("errors.As through fmt wrap = %v, want FILE_NOT_FOUND", target)
	}
}

func TestIs(t *testing.T) {
	cycle := Wrap(ErrCodeCycle, errors.New("vertex 3 revisited"), "topological order from %d", 1)

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"same code", cycle, ErrCodeCycle, true},
		{"other code", cycle, ErrCodeInvalidInput, false},
		{"fmt wrapped", fmt.Errorf("synth: %w", cycle), ErrCodeCycle, true},
		{"outermost code wins", Wrap(ErrCodeInternal, cycle, "run"), ErrCodeCycle, false},
		{"plain error", errors.New("cycle"), ErrCodeCycle, false},
		{"nil", nil, ErrCodeCycle, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"strategy", New(ErrCodeInvalidStrategy, "unknown strategy %q", "random"), ErrCodeInvalidStrategy},
		{"defect", fmt.Errorf("edge 9: %w", New(ErrCodeDataDefect, "missing exclusive set")), ErrCodeDataDefect},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "single",
			err:  New(ErrCodeInvalidFormat, "unknown format %q", "nexus"),
			want: `unknown format "nexus"`,
		},
		{
			name: "nested codes dropped",
			err:  Wrap(ErrCodeInvalidInput, New(ErrCodeVertexNotFound, "vertex 4"), "edge 12 target"),
			want: "edge 12 target: vertex 4",
		},
		{
			name: "plain cause",
			err:  Wrap(ErrCodeInvalidConfig, errors.New("line 3: expected '='"), "parse treesynth.toml"),
			want: "parse treesynth.toml: line 3: expected '='",
		},
		{
			name: "plain error",
			err:  errors.New("disk full"),
			want: "disk full",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"invalid input", New(ErrCodeInvalidInput, "bad"), 2},
		{"invalid config", New(ErrCodeInvalidConfig, "bad"), 2},
		{"invalid format", New(ErrCodeInvalidFormat, "bad"), 2},
		{"invalid strategy", New(ErrCodeInvalidStrategy, "bad"), 2},
		{"invalid path", New(ErrCodeInvalidPath, "bad"), 2},
		{"cycle", Wrap(ErrCodeCycle, errors.New("loop"), "synthesis"), 3},
		{"cycle behind fmt", fmt.Errorf("run: %w", New(ErrCodeCycle, "loop")), 3},
		{"vertex not found", New(ErrCodeVertexNotFound, "7"), 1},
		{"internal", New(ErrCodeInternal, "oops"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
