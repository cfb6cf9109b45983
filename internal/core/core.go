// Package core drives a linemod run: it finds files, asks the selected rules
// for patches, optionally has them reviewed, and applies them.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"linemod/internal/clock"
	"linemod/internal/diff"
	"linemod/internal/discover"
	"linemod/internal/mdblocks"
	"linemod/internal/rewrite"
	"linemod/internal/rules"
	"linemod/internal/source"
	"linemod/internal/state"
	"linemod/internal/suggest"
	"linemod/pkg/patch"
)

// Options configures Run.
type Options struct {
	Paths         []string
	Rules         []string // rule names; empty selects every rule in the catalog
	Extensions    []string
	Exclude       []string
	MarkdownLangs []string // fenced block languages rewritten inside markdown files
	UseGit        bool
	Jobs          int // defaults to GOMAXPROCS
	DryRun        bool
	Color         bool // colorize dry-run diffs
	Incremental   bool

	Store    StateStore // required for Incremental
	Reviewer Reviewer   // when set, every patch is reviewed before it is applied
	Clock    clock.Clock
	Logger   *slog.Logger
}

// Item is one suggested patch handed to a Reviewer.
type Item struct {
	Path  string
	Rule  string
	Patch patch.Patch
	Old   []string // the lines the patch replaces
}

// Reviewer decides which patches to apply. It returns one verdict per item.
type Reviewer interface {
	Review(items []Item) ([]bool, error)
}

// FileResult is what happened to one file.
type FileResult struct {
	Path     string
	Patches  []patch.Patch // suggested by the rules
	Applied  []patch.Patch
	Skipped  []rewrite.Skipped
	Rejected int    // patches declined in review
	Cached   bool   // unchanged since the last incremental run
	Diff     string // dry runs only
	Err      error
}

// Changed reports whether the file was, or in a dry run would be, rewritten.
func (r FileResult) Changed() bool {
	return len(r.Applied) > 0
}

// Report collects the per-file results in path order.
type Report struct {
	Files []FileResult
}

// Summary totals a Report.
type Summary struct {
	Files    int
	Changed  int
	Cached   int
	Failed   int
	Patches  int
	Applied  int
	Skipped  int
	Rejected int
}

func (r *Report) Summary() Summary {
	var s Summary
	for _, f := range r.Files {
		s.Files++
		s.Patches += len(f.Patches)
		s.Applied += len(f.Applied)
		s.Skipped += len(f.Skipped)
		s.Rejected += f.Rejected
		switch {
		case f.Err != nil:
			s.Failed++
		case f.Cached:
			s.Cached++
		case f.Changed():
			s.Changed++
		}
	}
	return s
}

// Err joins the errors of every failed file.
func (r *Report) Err() error {
	var errs []error
	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
		}
	}
	return errors.Join(errs...)
}

type ruledPatch struct {
	rule  string
	patch patch.Patch
}

// pending is a file between scanning and applying.
type pending struct {
	file    *source.File
	patches []ruledPatch
}

// Run processes every selected file. Failures scoped to one file are recorded
// in its FileResult; the returned error is reserved for setup problems,
// cancellation, and review or state persistence failures.
func Run(ctx context.Context, opts Options, catalog *rules.Catalog) (*Report, error) {
	opts = opts.withDefaults()
	if opts.Incremental && opts.Store == nil {
		return nil, fmt.Errorf("incremental run requires a state store")
	}

	selected, err := catalog.Select(opts.Rules)
	if err != nil {
		return nil, err
	}
	fingerprint := rules.Fingerprint(selected)

	files, err := discover.Files(ctx, discover.Options{
		Paths:      opts.Paths,
		Extensions: opts.Extensions,
		Exclude:    opts.Exclude,
		UseGit:     opts.UseGit,
		Logger:     opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("discovered files", "count", len(files), "rules", len(selected))

	var states []state.FileState
	if opts.Store != nil {
		if states, err = opts.Store.Load(); err != nil {
			return nil, fmt.Errorf("failed to load state: %w", err)
		}
	}

	report := &Report{Files: make([]FileResult, len(files))}
	work := make([]*pending, len(files))
	if len(files) == 0 {
		return report, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			report.Files[i], work[i] = scanFile(path, selected, fingerprint, states, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Reviewer != nil {
		if err := review(opts.Reviewer, report, work); err != nil {
			return nil, err
		}
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(files)))
	for i := range files {
		if work[i] == nil {
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			applyFile(&report.Files[i], work[i], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Store != nil && !opts.DryRun {
		if err := saveStates(opts, states, report, work, fingerprint); err != nil {
			return report, fmt.Errorf("failed to save state: %w", err)
		}
	}
	return report, nil
}

func (o Options) withDefaults() Options {
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	if o.Clock == nil {
		o.Clock = clock.RealClock{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// scanFile loads path and collects every rule's patches. A nil pending means
// there is nothing left to do for the file.
func scanFile(path string, selected []*rules.Rule, fingerprint string, states []state.FileState, opts Options) (FileResult, *pending) {
	res := FileResult{Path: path}
	f, err := source.Load(path)
	if err != nil {
		res.Err = err
		return res, nil
	}
	if opts.Incremental {
		if s, ok := state.Find(states, path); ok && s.Current(f.Hash(), fingerprint) {
			opts.Logger.Debug("unchanged since last run", "path", path)
			res.Cached = true
			return res, nil
		}
	}

	regions := []mdblocks.Block{{StartLine: 0, EndLine: len(f.Lines)}}
	if isMarkdown(path) {
		regions = mdblocks.CodeBlocks(f.Content, opts.MarkdownLangs...)
	}

	var patches []ruledPatch
	for _, r := range selected {
		suggestor := r.Suggestor()
		for _, region := range regions {
			found, err := suggest.Collect(suggestor(f.Lines[region.StartLine:region.EndLine], path))
			if err != nil {
				opts.Logger.Warn("rule failed", "path", path, "rule", r.Name, "err", err)
				res.Err = fmt.Errorf("rule %s: %w", r.Name, err)
				return res, nil
			}
			for _, p := range found {
				patches = append(patches, ruledPatch{rule: r.Name, patch: p.Shift(region.StartLine)})
			}
		}
	}
	for _, p := range patches {
		res.Patches = append(res.Patches, p.patch)
	}
	opts.Logger.Debug("scanned", "path", path, "patches", len(patches))
	return res, &pending{file: f, patches: patches}
}

func isMarkdown(path string) bool {
	switch filepath.Ext(path) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// review hands every pending patch to r in one batch and drops the rejected ones.
func review(r Reviewer, report *Report, work []*pending) error {
	var items []Item
	for _, w := range work {
		if w == nil {
			continue
		}
		for _, p := range w.patches {
			items = append(items, Item{
				Path:  w.file.Path,
				Rule:  p.rule,
				Patch: p.patch,
				Old:   oldLines(w.file.Lines, p.patch),
			})
		}
	}
	if len(items) == 0 {
		return nil
	}

	verdicts, err := r.Review(items)
	if err != nil {
		return fmt.Errorf("review: %w", err)
	}
	if len(verdicts) != len(items) {
		return fmt.Errorf("review: got %d verdicts for %d patches", len(verdicts), len(items))
	}

	k := 0
	for i, w := range work {
		if w == nil {
			continue
		}
		kept := w.patches[:0]
		for _, p := range w.patches {
			if verdicts[k] {
				kept = append(kept, p)
			} else {
				report.Files[i].Rejected++
			}
			k++
		}
		w.patches = kept
	}
	return nil
}

func oldLines(lines []string, p patch.Patch) []string {
	start := min(max(p.StartLine, 0), len(lines))
	end := min(max(p.EndLine, start), len(lines))
	return slices.Clone(lines[start:end])
}

// applyFile rewrites one file, or renders its diff in a dry run.
func applyFile(res *FileResult, w *pending, opts Options) {
	patches := make([]patch.Patch, len(w.patches))
	for i, p := range w.patches {
		patches[i] = p.patch
	}

	out, err := rewrite.Apply(w.file.Content, patches)
	if err != nil {
		res.Err = err
		return
	}
	res.Applied, res.Skipped = out.Applied, out.Skipped
	for _, s := range out.Skipped {
		opts.Logger.Debug("patch skipped", "path", res.Path, "patch", s.Patch.String(), "reason", s.Reason)
	}
	if !out.Changed() {
		return
	}

	if opts.DryRun {
		res.Diff = diff.Lines("a/"+filepath.ToSlash(res.Path), w.file.Content, "b/"+filepath.ToSlash(res.Path), out.Content)
		if opts.Color {
			res.Diff = diff.Colorize(res.Diff)
		}
		return
	}
	if err := os.WriteFile(res.Path, out.Content, w.file.Mode.Perm()); err != nil {
		res.Err = fmt.Errorf("failed to write file: %w", err)
		return
	}
	w.file.Content = out.Content
	opts.Logger.Info("rewrote file", "path", res.Path, "applied", len(out.Applied))
}

func saveStates(opts Options, states []state.FileState, report *Report, work []*pending, fingerprint string) error {
	now := opts.Clock.Now()
	for i, res := range report.Files {
		if res.Err != nil || res.Cached || work[i] == nil {
			continue
		}
		states = state.Upsert(states, state.FileState{
			Path:            res.Path,
			ContentHash:     source.Hash(work[i].file.Content),
			RuleFingerprint: fingerprint,
			Patches:         len(res.Applied),
			UpdatedAt:       now,
		})
	}
	return opts.Store.Save(states)
}
