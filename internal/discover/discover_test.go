package discover

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"linemod/internal/gitutil"
)

func makeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFilesWalk(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root,
		"lib/a.dart",
		"lib/src/b.dart",
		"lib/src/b.g.dart",
		"lib/readme.txt",
		"build/out.dart",
		".dart_tool/cache.dart",
		"README.md",
	)

	got, err := Files(context.Background(), Options{
		Paths:      []string{root},
		Extensions: []string{".dart", ".md"},
		Exclude:    []string{"build", "*.g.dart"},
	})
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	want := []string{
		filepath.Join(root, "README.md"),
		filepath.Join(root, "lib", "a.dart"),
		filepath.Join(root, "lib", "src", "b.dart"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Files() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilesExplicitAndDuplicates(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "a.txt", "b.dart")
	a := filepath.Join(root, "a.txt")

	got, err := Files(context.Background(), Options{
		Paths:      []string{a, root, a},
		Extensions: []string{".dart"},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{a, filepath.Join(root, "b.dart")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Files() mismatch (-want +got):\n%s", diff)
	}
}

type notRepoRunner struct{}

func (notRepoRunner) Output(ctx context.Context, name string, arg ...string) ([]byte, error) {
	return nil, &exec.ExitError{Stderr: []byte("fatal: not a git repository")}
}

type noGitRunner struct{}

func (noGitRunner) Output(ctx context.Context, name string, arg ...string) ([]byte, error) {
	return nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
}

type listRunner struct{ out string }

func (r listRunner) Output(ctx context.Context, name string, arg ...string) ([]byte, error) {
	return []byte(r.out), nil
}

func TestFilesGit(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "lib/a.dart", "lib/ignored.dart")
	defer gitutil.SetRunner(gitutil.DefaultRunner{})

	gitutil.SetRunner(listRunner{out: "lib/a.dart\x00lib/deleted.dart\x00"})
	got, err := Files(context.Background(), Options{Paths: []string{root}, UseGit: true})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{filepath.Join(root, "lib", "a.dart")}, got); diff != "" {
		t.Errorf("git listing mismatch (-want +got):\n%s", diff)
	}

	for _, r := range []gitutil.CommandRunner{notRepoRunner{}, noGitRunner{}} {
		gitutil.SetRunner(r)
		got, err = Files(context.Background(), Options{Paths: []string{root}, UseGit: true})
		if err != nil {
			t.Fatalf("%T: %v", r, err)
		}
		if len(got) != 2 {
			t.Errorf("%T: expected walk fallback to find 2 files, got %v", r, got)
		}
	}
}

func TestFilesMissingPath(t *testing.T) {
	if _, err := Files(context.Background(), Options{Paths: []string{filepath.Join(t.TempDir(), "nope")}}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		path  string
		globs []string
		want  bool
	}{
		{"lib/a.dart", nil, false},
		{"lib/a.g.dart", []string{"*.g.dart"}, true},
		{"build/lib/a.dart", []string{"build"}, true},
		{"lib/generated/a.dart", []string{"lib/generated/*"}, true},
		{"lib/a.dart", []string{"test"}, false},
	}
	for _, tt := range tests {
		if got := Excluded(tt.path, tt.globs); got != tt.want {
			t.Errorf("Excluded(%q, %v) = %v, want %v", tt.path, tt.globs, got, tt.want)
		}
	}
}
