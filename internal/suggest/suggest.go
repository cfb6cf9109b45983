// Package suggest turns matches into patches.
//
// Patches come out in the order their matches were found, which is ascending
// StartLine. Applying them against the original lines is safe in descending
// StartLine order, since an edit never shifts the lines above it.
package suggest

import (
	"fmt"
	"iter"

	"linemod/internal/match"
	"linemod/pkg/patch"
)

// Updater computes the replacement lines for one match.
// It must not modify m.Lines.
type Updater func(m match.Match) ([]string, error)

// Suggestor produces the patches of one named transformation for a file.
type Suggestor func(lines []string, path string) iter.Seq2[patch.Patch, error]

type options struct {
	insertAtEnd bool
}

// Option configures patch building.
type Option func(*options)

// InsertAtEnd collapses every patch to an empty range after the last line,
// so the match only triggers the update and the new lines are appended.
func InsertAtEnd() Option {
	return func(o *options) {
		o.insertAtEnd = true
	}
}

// WithInsertAtEnd sets the insert-at-end flag explicitly.
func WithInsertAtEnd(enabled bool) Option {
	return func(o *options) {
		o.insertAtEnd = enabled
	}
}

// FromSinglePattern yields one patch per match of p in lines.
func FromSinglePattern(p match.Pattern, lines []string, update Updater, opts ...Option) (iter.Seq2[patch.Patch, error], error) {
	matches, err := match.Single(p, lines)
	if err != nil {
		return nil, err
	}
	return build(matches, lines, update, opts)
}

// FromPatternSequence yields one patch per match of the ordered patterns ps in lines.
func FromPatternSequence(ps []match.Pattern, lines []string, update Updater, opts ...Option) (iter.Seq2[patch.Patch, error], error) {
	matches, err := match.Sequence(ps, lines)
	if err != nil {
		return nil, err
	}
	return build(matches, lines, update, opts)
}

// build applies update to each match. An updater error is yielded as is and ends the sequence.
func build(matches iter.Seq[match.Match], lines []string, update Updater, opts []Option) (iter.Seq2[patch.Patch, error], error) {
	if update == nil {
		return nil, fmt.Errorf("%w: nil updater", match.ErrInvalidPattern)
	}
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return func(yield func(patch.Patch, error) bool) {
		for m := range matches {
			newLines, err := update(m)
			if err != nil {
				yield(patch.Patch{}, err)
				return
			}
			start, end := m.Start, m.End
			if o.insertAtEnd {
				start = len(lines)
				end = start
			}
			if !yield(patch.Patch{StartLine: start, EndLine: end, NewLines: newLines}, nil) {
				return
			}
		}
	}, nil
}

// Collect drains seq, stopping at the first error.
func Collect(seq iter.Seq2[patch.Patch, error]) ([]patch.Patch, error) {
	var patches []patch.Patch
	for p, err := range seq {
		if err != nil {
			return patches, err
		}
		patches = append(patches, p)
	}
	return patches, nil
}

// Failed returns a sequence that yields only err. Suggestors use it to report
// a setup failure through their normal output.
func Failed(err error) iter.Seq2[patch.Patch, error] {
	return func(yield func(patch.Patch, error) bool) {
		yield(patch.Patch{}, err)
	}
}
