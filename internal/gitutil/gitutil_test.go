package gitutil_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"

	"linemod/internal/gitutil"
)

// MockRunner for testing command execution.
type MockRunner struct {
	output string
	err    error
	args   *[]string
}

func (m MockRunner) Output(ctx context.Context, name string, arg ...string) ([]byte, error) {
	if m.args != nil {
		*m.args = append([]string{name}, arg...)
	}
	return []byte(m.output), m.err
}

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(root, filepath.FromSlash(n))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "lib/a.dart", "lib/src/b.dart", "lib/ünï cödé.dart")

	tests := []struct {
		name       string
		mockOutput string
		mockError  error
		wantFiles  []string
		wantErr    error
	}{
		{
			name:       "tracked and untracked files",
			mockOutput: "lib/a.dart\x00lib/src/b.dart\x00",
			wantFiles:  []string{filepath.Join(dir, "lib", "a.dart"), filepath.Join(dir, "lib", "src", "b.dart")},
		},
		{
			name:       "non-ascii names are taken verbatim",
			mockOutput: "lib/ünï cödé.dart\x00",
			wantFiles:  []string{filepath.Join(dir, "lib", "ünï cödé.dart")},
		},
		{
			name:       "tracked file deleted from the work tree",
			mockOutput: "lib/a.dart\x00lib/gone.dart\x00",
			wantFiles:  []string{filepath.Join(dir, "lib", "a.dart")},
		},
		{
			name:       "no files",
			mockOutput: "",
			wantFiles:  nil,
		},
		{
			name:      "not a git repository",
			mockError: &exec.ExitError{Stderr: []byte("fatal: not a git repository (or any of the parent directories): .git\n")},
			wantErr:   gitutil.ErrNotGitRepo,
		},
		{
			name:      "git not installed",
			mockError: &exec.Error{Name: "git", Err: exec.ErrNotFound},
			wantErr:   gitutil.ErrNotGitRepo,
		},
		{
			name:      "other git error",
			mockError: &exec.ExitError{Stderr: []byte("error: something went wrong")},
			wantErr:   errAny,
		},
		{
			name:      "other runner error",
			mockError: &mockExecError{output: "exit status 1"},
			wantErr:   errAny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args []string
			gitutil.SetRunner(MockRunner{output: tt.mockOutput, err: tt.mockError, args: &args})
			defer gitutil.SetRunner(gitutil.DefaultRunner{}) // Reset after test

			got, err := gitutil.ListFiles(context.Background(), dir)
			switch {
			case tt.wantErr == nil && err != nil:
				t.Fatalf("ListFiles() unexpected error = %v", err)
			case tt.wantErr == errAny && err == nil:
				t.Fatal("ListFiles() expected an error")
			case tt.wantErr == errAny && errors.Is(err, gitutil.ErrNotGitRepo):
				t.Fatalf("ListFiles() error = %v, should not be ErrNotGitRepo", err)
			case tt.wantErr != nil && tt.wantErr != errAny && !errors.Is(err, tt.wantErr):
				t.Fatalf("ListFiles() error = %v, want %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.wantFiles) {
				t.Errorf("ListFiles() = %v, want %v", got, tt.wantFiles)
			}
			wantArgs := []string{"git", "-C", dir, "ls-files", "-z", "--cached", "--others", "--exclude-standard", "--deduplicate"}
			if !reflect.DeepEqual(args, wantArgs) {
				t.Errorf("ListFiles() ran %v, want %v", args, wantArgs)
			}
		})
	}
}

// shellRunner runs a shell script in place of git, through DefaultRunner.
type shellRunner struct{ script string }

func (r shellRunner) Output(ctx context.Context, name string, arg ...string) ([]byte, error) {
	return gitutil.DefaultRunner{}.Output(ctx, "sh", "-c", r.script)
}

func TestListFilesRealCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	touch(t, dir, "lib/a.dart")
	defer gitutil.SetRunner(gitutil.DefaultRunner{})

	gitutil.SetRunner(shellRunner{script: `printf 'lib/a.dart\0'; echo 'warning: noise' >&2`})
	got, err := gitutil.ListFiles(context.Background(), dir)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if want := []string{filepath.Join(dir, "lib", "a.dart")}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListFiles() = %q, want %q", got, want)
	}

	gitutil.SetRunner(shellRunner{script: `echo 'fatal: not a git repository' >&2; exit 128`})
	if _, err := gitutil.ListFiles(context.Background(), dir); !errors.Is(err, gitutil.ErrNotGitRepo) {
		t.Errorf("ListFiles() error = %v, want ErrNotGitRepo", err)
	}
}

func TestMissingBinary(t *testing.T) {
	_, err := gitutil.DefaultRunner{}.Output(context.Background(), "linemod-no-such-binary")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("Output() error = %v, want exec.ErrNotFound", err)
	}
}

var errAny = errors.New("any error")

// Mock error to simulate exec command errors
type mockExecError struct {
	output string
}

func (e *mockExecError) Error() string {
	return "mock exec error: " + e.output
}
