// Package diff renders line-oriented unified diffs for dry runs.
package diff

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Context is the number of unchanged lines shown around each change.
const Context = 3

type opKind byte

const (
	opEqual  opKind = ' '
	opDelete opKind = '-'
	opInsert opKind = '+'
)

type op struct {
	kind    opKind
	text    string
	oldLine int // 1-based line in old, 0 for inserts
	newLine int // 1-based line in new, 0 for deletes
}

// Lines returns a unified diff between old and new, or "" when they are equal.
func Lines(oldName string, old []byte, newName string, new []byte) string {
	if string(old) == string(new) {
		return ""
	}
	ops := lineOps(string(old), string(new))

	var b strings.Builder
	fmt.Fprintf(&b, "diff %s %s\n--- %s\n+++ %s\n", oldName, newName, oldName, newName)
	for _, h := range hunks(ops) {
		writeHunk(&b, ops[h[0]:h[1]])
	}
	return b.String()
}

func lineOps(old, new string) []op {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var ops []op
	oldLine, newLine := 1, 1
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffpatch.DiffEqual:
				ops = append(ops, op{opEqual, text, oldLine, newLine})
				oldLine++
				newLine++
			case diffpatch.DiffDelete:
				ops = append(ops, op{opDelete, text, oldLine, 0})
				oldLine++
			case diffpatch.DiffInsert:
				ops = append(ops, op{opInsert, text, 0, newLine})
				newLine++
			}
		}
	}
	return ops
}

// splitLines splits s after each newline. A missing final newline is marked
// the way diff(1) does.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.SplitAfter(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	last := parts[len(parts)-1]
	if !strings.HasSuffix(last, "\n") {
		parts[len(parts)-1] = last + "\n\\ No newline at end of file\n"
	}
	return parts
}

// hunks returns [start, end) index ranges of ops to print, merging changes
// that are within 2*Context lines of each other.
func hunks(ops []op) [][2]int {
	var out [][2]int
	for i := 0; i < len(ops); i++ {
		if ops[i].kind == opEqual {
			continue
		}
		start := max(i-Context, 0)
		end := min(i+1+Context, len(ops))
		if n := len(out); n > 0 && start <= out[n-1][1] {
			out[n-1][1] = end
		} else {
			out = append(out, [2]int{start, end})
		}
	}
	return out
}

func writeHunk(b *strings.Builder, ops []op) {
	var oldStart, newStart, oldCount, newCount int
	for _, o := range ops {
		if o.kind != opInsert {
			if oldStart == 0 {
				oldStart = o.oldLine
			}
			oldCount++
		}
		if o.kind != opDelete {
			if newStart == 0 {
				newStart = o.newLine
			}
			newCount++
		}
	}
	// Pure inserts or deletes anchor on the line before.
	if oldStart == 0 {
		oldStart = anchor(ops, func(o op) int { return o.newLine })
	}
	if newStart == 0 {
		newStart = anchor(ops, func(o op) int { return o.oldLine })
	}
	fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
	for _, o := range ops {
		b.WriteByte(byte(o.kind))
		b.WriteString(o.text)
	}
}

func anchor(ops []op, line func(op) int) int {
	return max(line(ops[0])-1, 0)
}

var (
	headerColor = color.New(color.Bold)
	hunkColor   = color.New(color.FgCyan)
	deleteColor = color.New(color.FgRed)
	insertColor = color.New(color.FgGreen)
)

// Colorize colors a diff produced by Lines. It honors color.NoColor.
func Colorize(d string) string {
	if d == "" {
		return d
	}
	lines := strings.SplitAfter(d, "\n")
	var b strings.Builder
	for i, line := range lines {
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]
		switch {
		case i < 3:
			b.WriteString(headerColor.Sprint(body))
		case strings.HasPrefix(body, "@@"):
			b.WriteString(hunkColor.Sprint(body))
		case strings.HasPrefix(body, "-"):
			b.WriteString(deleteColor.Sprint(body))
		case strings.HasPrefix(body, "+"):
			b.WriteString(insertColor.Sprint(body))
		default:
			b.WriteString(body)
		}
		b.WriteString(nl)
	}
	return b.String()
}
