package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"sort"

	"linemod/internal/source"
	"linemod/pkg/patch"
)

var (
	// ErrPatchRange is returned when a patch addresses lines outside the input.
	ErrPatchRange = errors.New("patch range out of bounds")
	// ErrPatchConflict is returned when two patches touch the same lines.
	ErrPatchConflict = errors.New("conflicting patches")
)

// Skipped records a patch that was not applied and why.
type Skipped struct {
	Patch  patch.Patch
	Reason string
}

// Result is the outcome of Apply.
type Result struct {
	Content []byte
	Applied []patch.Patch
	Skipped []Skipped
}

// Changed reports whether any patch was applied.
func (r Result) Changed() bool {
	return len(r.Applied) > 0
}

// Apply rewrites content with patches. Patches that fall outside the input,
// overlap a previously accepted patch, or would not change anything are
// skipped and reported instead of failing the whole rewrite. The rewritten
// content keeps the line terminator of the first input line.
func Apply(content []byte, patches []patch.Patch) (Result, error) {
	lines, err := source.ScanLines(bytes.NewReader(content))
	if err != nil {
		return Result{}, err
	}

	ordered := slices.Clone(patches)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].StartLine != ordered[j].StartLine {
			return ordered[i].StartLine < ordered[j].StartLine
		}
		return ordered[i].EndLine < ordered[j].EndLine
	})

	var res Result
	for _, p := range ordered {
		switch {
		case p.StartLine < 0 || p.EndLine < p.StartLine || p.EndLine > len(lines):
			res.Skipped = append(res.Skipped, Skipped{Patch: p, Reason: "patch range out of bounds"})
		case conflictsWithAny(res.Applied, p):
			res.Skipped = append(res.Skipped, Skipped{Patch: p, Reason: "conflicts with a previously accepted patch"})
		case slices.Equal(lines[p.StartLine:p.EndLine], p.NewLines):
			res.Skipped = append(res.Skipped, Skipped{Patch: p, Reason: "patch does not change anything"})
		default:
			res.Applied = append(res.Applied, p)
		}
	}

	if len(res.Applied) == 0 {
		res.Content = content
		return res, nil
	}

	rw := NewScannerRewriter(bytes.NewReader(content), source.LineEnding(content))
	for _, p := range res.Applied {
		if err := rw.ReplaceLines(p.StartLine, p.EndLine, p.NewLines); err != nil {
			return Result{}, fmt.Errorf("apply %s: %w", p, err)
		}
	}
	if err := rw.CopyRemainingLines(); err != nil {
		return Result{}, err
	}
	res.Content = rw.Bytes()
	return res, nil
}

// ApplyLines applies patches to a copy of lines, highest StartLine first, so
// that the ranges of patches still pending are never shifted. Patches sharing
// an insertion point keep their relative order in the output.
func ApplyLines(lines []string, patches []patch.Patch) ([]string, error) {
	for i, p := range patches {
		if p.StartLine < 0 || p.EndLine < p.StartLine || p.EndLine > len(lines) {
			return nil, fmt.Errorf("%w: %s against %d lines", ErrPatchRange, p, len(lines))
		}
		for _, q := range patches[:i] {
			if patchesConflict(p, q) {
				return nil, fmt.Errorf("%w: %s and %s", ErrPatchConflict, q, p)
			}
		}
	}

	order := make([]int, len(patches))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := patches[order[a]], patches[order[b]]
		if pa.StartLine != pb.StartLine {
			return pa.StartLine > pb.StartLine
		}
		if pa.EndLine != pb.EndLine {
			return pa.EndLine > pb.EndLine
		}
		return order[a] > order[b]
	})

	out := slices.Clone(lines)
	for _, i := range order {
		p := patches[i]
		out = slices.Replace(out, p.StartLine, p.EndLine, p.NewLines...)
	}
	return out, nil
}

func conflictsWithAny(accepted []patch.Patch, p patch.Patch) bool {
	for _, prev := range accepted {
		if patchesConflict(prev, p) {
			return true
		}
	}
	return false
}

// patchesConflict reports whether two patches' ranges overlap.
// Ranges are half-open. Two insertions never conflict. An insertion conflicts
// with a replacement only when it falls strictly inside the replaced range;
// at either edge it lands before or after the replacement.
func patchesConflict(a, b patch.Patch) bool {
	if a.IsInsert() && b.IsInsert() {
		return false
	}
	if a.IsInsert() {
		return b.StartLine < a.StartLine && a.StartLine < b.EndLine
	}
	if b.IsInsert() {
		return a.StartLine < b.StartLine && b.StartLine < a.EndLine
	}
	return a.StartLine < b.EndLine && b.StartLine < a.EndLine
}
