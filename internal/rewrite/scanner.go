package rewrite

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"

	"linemod/internal/source"
)

// ScannerRewriter implements LineRewriter using bufio.Scanner.
type ScannerRewriter struct {
	scanner  *bufio.Scanner
	output   bytes.Buffer
	eol      string
	lineNo   int  // how many lines have been consumed (scanned) so far
	finished bool // true once we've reached EOF
}

// NewScannerRewriter constructs a ScannerRewriter over an io.Reader (the full
// file content). Every output line is terminated with eol, "\n" when empty.
func NewScannerRewriter(r io.Reader, eol string) *ScannerRewriter {
	if eol == "" {
		eol = "\n"
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), source.MaxLineSize)
	return &ScannerRewriter{scanner: scanner, eol: eol}
}

// CopyLinesUntil writes original lines up to lineIndex-1 to output and positions the scanner at lineIndex.
func (rw *ScannerRewriter) CopyLinesUntil(lineIndex int) error {
	if lineIndex < rw.lineNo {
		return fmt.Errorf("%w: line %d already consumed", ErrPatchRange, lineIndex)
	}
	for !rw.finished && rw.lineNo < lineIndex {
		if !rw.scanner.Scan() {
			rw.finished = true
			break
		}
		rw.output.Write(rw.scanner.Bytes())
		rw.output.WriteString(rw.eol)
		rw.lineNo++
	}
	if err := rw.scanner.Err(); err != nil {
		return err
	}
	if rw.lineNo < lineIndex {
		return fmt.Errorf("%w: line %d past end of input (%d lines)", ErrPatchRange, lineIndex, rw.lineNo)
	}
	return nil
}

// ReplaceLines replaces original lines [startLine, endLine) with newLines.
func (rw *ScannerRewriter) ReplaceLines(startLine, endLine int, newLines []string) error {
	if endLine < startLine {
		return fmt.Errorf("%w: [%d, %d)", ErrPatchRange, startLine, endLine)
	}
	// 1) Copy up to startLine (this consumes lines 0..startLine-1).
	if err := rw.CopyLinesUntil(startLine); err != nil {
		return err
	}
	// 2) Skip (consume without writing) lines [startLine, endLine).
	for rw.lineNo < endLine {
		if !rw.scanner.Scan() {
			rw.finished = true
			if err := rw.scanner.Err(); err != nil {
				return err
			}
			return fmt.Errorf("%w: line %d past end of input (%d lines)", ErrPatchRange, endLine, rw.lineNo)
		}
		rw.lineNo++
	}
	// 3) Write each new line + eol.
	for _, nl := range newLines {
		rw.output.WriteString(nl)
		rw.output.WriteString(rw.eol)
	}
	return nil
}

// CopyRemainingLines writes all lines from the current scanner position through EOF.
func (rw *ScannerRewriter) CopyRemainingLines() error {
	if rw.finished {
		return nil
	}
	for rw.scanner.Scan() {
		rw.output.Write(rw.scanner.Bytes())
		rw.output.WriteString(rw.eol)
		rw.lineNo++
	}
	rw.finished = true
	return rw.scanner.Err()
}

// Bytes returns the fully rewritten buffer.
func (rw *ScannerRewriter) Bytes() []byte {
	return rw.output.Bytes()
}

// BuildLineOffsets returns a slice of byte offsets where each new line begins.
// E.g. if content[0]=='a' and content[5]=='\n', then offsets = [0,6,...].
func BuildLineOffsets(content []byte) []int {
	offsets := []int{0}
	for i, b := range content {
		if b == '\n' && i+1 < len(content) {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// LineIndexOfByte returns the 0-based line index that contains offset, given
// the line offsets produced by BuildLineOffsets.
func LineIndexOfByte(lineOffsets []int, offset int) int {
	i := sort.Search(len(lineOffsets), func(i int) bool {
		return lineOffsets[i] > offset
	})
	if i == 0 {
		return 0
	}
	return i - 1
}
