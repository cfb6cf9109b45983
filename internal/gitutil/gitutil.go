package gitutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotGitRepo is returned when the directory is not inside a git work tree,
// or when no git binary is available.
var ErrNotGitRepo = errors.New("not a git repository")

// CommandRunner is an interface for running external commands.
type CommandRunner interface {
	// Output runs the command and returns its standard output. A failed
	// command reports its standard error through *exec.ExitError.
	Output(ctx context.Context, name string, arg ...string) ([]byte, error)
}

// DefaultRunner implements CommandRunner using os/exec.Command.
type DefaultRunner struct{}

func (r DefaultRunner) Output(ctx context.Context, name string, arg ...string) ([]byte, error) {
	cmd := commandContext(ctx, name, arg...)
	return cmd.Output()
}

// commandContext is a helper to create a *exec.Cmd with context.
func commandContext(ctx context.Context, name string, arg ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, arg...)
	return cmd
}

// We'll use a package-level variable for the runner
var runner CommandRunner = DefaultRunner{}

// ListFiles returns the files git tracks under dir, plus untracked files that
// are not ignored. Tracked files missing from the work tree are left out.
// Paths are joined onto dir.
func ListFiles(ctx context.Context, dir string) ([]string, error) {
	output, err := runner.Output(ctx, "git", "-C", dir, "ls-files", "-z", "--cached", "--others", "--exclude-standard", "--deduplicate")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrNotGitRepo, err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if strings.Contains(strings.ToLower(stderr), "not a git repository") {
				return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, stderr)
			}
			return nil, fmt.Errorf("error running git ls-files: %w, stderr: %s", err, stderr)
		}
		return nil, fmt.Errorf("error running git ls-files: %w", err)
	}

	var files []string
	for _, name := range bytes.Split(output, []byte{0}) {
		if len(name) == 0 {
			continue
		}
		p := filepath.Join(dir, filepath.FromSlash(string(name)))
		if _, err := os.Stat(p); err != nil {
			continue
		}
		files = append(files, p)
	}
	return files, nil
}

// SetRunner replaces the command runner, for tests.
func SetRunner(r CommandRunner) {
	runner = r
}
