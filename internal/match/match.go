// Package match finds single patterns and ordered pattern sequences in a line sequence.
//
// Both scans are lazy: each Match is computed when the consumer asks for it,
// and stopping early is always safe. Results come out in ascending Start order
// and never overlap.
package match

import (
	"fmt"
	"iter"
)

// Match is one matched span of lines.
type Match struct {
	Start  int        // first matched line, 0-based
	End    int        // one past the last matched line
	Lines  []string   // lines[Start:End] of the scanned sequence; read-only
	Groups [][]string // Groups[k] holds the captures of the k-th pattern
}

// Text returns the text matched by the first pattern.
func (m Match) Text() string {
	if len(m.Groups) == 0 || len(m.Groups[0]) == 0 {
		return ""
	}
	return m.Groups[0][0]
}

// Single scans lines top to bottom for p, yielding at most one match per line.
func Single(p Pattern, lines []string) (iter.Seq[Match], error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	return func(yield func(Match) bool) {
		for i, line := range lines {
			f, ok := p.Find(line)
			if !ok {
				continue
			}
			m := Match{
				Start:  i,
				End:    i + 1,
				Lines:  lines[i : i+1 : i+1],
				Groups: [][]string{f.Groups},
			}
			if !yield(m) {
				return
			}
		}
	}, nil
}

// Sequence scans lines for ps matched in order. ps[0] anchors a candidate at
// some line; every later pattern must match at or after the point where its
// predecessor matched, on the same line or any following one. The match spans
// from the anchor line through the line where the last pattern matched.
//
// When a later pattern cannot be found, the candidate is dropped and the scan
// resumes on the line after the anchor.
func Sequence(ps []Pattern, lines []string) (iter.Seq[Match], error) {
	if len(ps) == 0 {
		return nil, fmt.Errorf("%w: empty pattern sequence", ErrInvalidPattern)
	}
	for i, p := range ps {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
	}
	return func(yield func(Match) bool) {
		for i := 0; i < len(lines); {
			first, ok := ps[0].Find(lines[i])
			if !ok {
				i++
				continue
			}
			groups := [][]string{first.Groups}
			line, col := i, first.End
			complete := true
			for _, p := range ps[1:] {
				var found bool
				line, col, found = seek(p, lines, line, col, &groups)
				if !found {
					complete = false
					break
				}
			}
			if !complete {
				i++
				continue
			}
			m := Match{
				Start:  i,
				End:    line + 1,
				Lines:  lines[i : line+1 : line+1],
				Groups: groups,
			}
			if !yield(m) {
				return
			}
			i = line + 1
		}
	}, nil
}

// seek looks for p starting at column col of line, then on every later line.
func seek(p Pattern, lines []string, line, col int, groups *[][]string) (int, int, bool) {
	for l := line; l < len(lines); l++ {
		off := 0
		if l == line {
			off = col
		}
		if f, ok := p.FindFrom(lines[l], off); ok {
			*groups = append(*groups, f.Groups)
			return l, f.End, true
		}
	}
	return line, col, false
}

func validate(p Pattern) error {
	switch v := p.(type) {
	case nil:
		return fmt.Errorf("%w: nil pattern", ErrInvalidPattern)
	case *Regexp:
		if v == nil || v.re == nil {
			return fmt.Errorf("%w: nil regular expression", ErrInvalidPattern)
		}
	case Literal:
		if v == "" {
			return fmt.Errorf("%w: empty literal", ErrInvalidPattern)
		}
	}
	return nil
}
