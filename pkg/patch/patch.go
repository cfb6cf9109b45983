package patch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Patch replaces lines [StartLine, EndLine) of the original line sequence with NewLines.
// An empty range (StartLine == EndLine) is a pure insertion before StartLine.
type Patch struct {
	StartLine int      // First replaced line, 0-based
	EndLine   int      // One past the last replaced line
	NewLines  []string // Replacement content, one element per line
}

// IsInsert reports whether the patch replaces nothing and only inserts lines.
func (p Patch) IsInsert() bool {
	return p.StartLine == p.EndLine
}

// Shift returns a copy of p moved down by n lines.
func (p Patch) Shift(n int) Patch {
	p.StartLine += n
	p.EndLine += n
	return p
}

// Hash identifies the patch by its range and content.
func (p Patch) Hash() string {
	data := fmt.Sprintf("%d|%d|%s", p.StartLine, p.EndLine, strings.Join(p.NewLines, "\n"))
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// String returns a short human readable form, using 1-based line numbers.
func (p Patch) String() string {
	if p.IsInsert() {
		return fmt.Sprintf("insert %d line(s) before line %d", len(p.NewLines), p.StartLine+1)
	}
	return fmt.Sprintf("replace lines %d-%d with %d line(s)", p.StartLine+1, p.EndLine, len(p.NewLines))
}
