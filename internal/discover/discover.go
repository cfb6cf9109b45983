// Package discover enumerates the files a run should scan.
package discover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"linemod/internal/gitutil"
)

// Options controls file enumeration.
type Options struct {
	Paths      []string // files or directories; defaults to "."
	Extensions []string // e.g. ".dart"; empty keeps every file
	Exclude    []string // path.Match globs against the slash path, base name, or any directory name
	UseGit     bool     // list directories through git when possible
	Logger     *slog.Logger
}

// Files returns the sorted, de-duplicated files selected by opts.
// Explicitly named files are always kept, whatever their extension.
func Files(ctx context.Context, opts Options) ([]string, error) {
	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("discover: %w", err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		var candidates []string
		if opts.UseGit {
			candidates, err = gitutil.ListFiles(ctx, root)
			if errors.Is(err, gitutil.ErrNotGitRepo) {
				logger.Debug("git listing unavailable, walking directory", "dir", root, "err", err)
				candidates, err = walk(ctx, root)
			}
		} else {
			candidates, err = walk(ctx, root)
		}
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
		for _, c := range candidates {
			if opts.selected(c) {
				add(c)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func (o Options) selected(p string) bool {
	if len(o.Extensions) > 0 && !slices.Contains(o.Extensions, filepath.Ext(p)) {
		return false
	}
	return !Excluded(p, o.Exclude)
}

// Excluded reports whether p matches any of the globs.
func Excluded(p string, globs []string) bool {
	slashed := filepath.ToSlash(filepath.Clean(p))
	parts := strings.Split(slashed, "/")
	for _, g := range globs {
		if ok, _ := path.Match(g, slashed); ok {
			return true
		}
		for _, part := range parts {
			if ok, _ := path.Match(g, part); ok {
				return true
			}
		}
	}
	return false
}

// walk lists regular files under root, skipping hidden directories.
func walk(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}
