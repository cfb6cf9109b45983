package rewrite

// LineRewriter lets you copy/cut/paste at the granularity of whole lines.
type LineRewriter interface {
	// CopyLinesUntil writes original lines [current..lineIndex-1], positioning the scanner at lineIndex.
	CopyLinesUntil(lineIndex int) error

	// ReplaceLines replaces original lines [startLine, endLine) with newLines
	// (each element is one line, without a trailing '\n').
	//
	// Internally, this means:
	//   1. Copy any lines < startLine
	//   2. Consume (skip) original lines [startLine, endLine)
	//   3. Insert each line from newLines (appending '\n' to each)
	//   4. Leave scanner positioned at line endLine, ready for further Copy/Replace calls
	//
	// An empty range (startLine == endLine) inserts newLines before startLine.
	ReplaceLines(startLine, endLine int, newLines []string) error

	// CopyRemainingLines writes all leftover original lines (from current scanner position to EOF).
	CopyRemainingLines() error

	// Bytes returns the fully rewritten buffer.
	Bytes() []byte
}
