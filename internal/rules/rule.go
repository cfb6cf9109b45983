// Package rules holds the catalog of named transformations linemod can run.
package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"iter"
	"path/filepath"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"linemod/internal/match"
	"linemod/internal/suggest"
	"linemod/pkg/patch"
)

// ErrUnknownRule is returned when a rule name is not in the catalog.
var ErrUnknownRule = errors.New("unknown rule")

// Rule is one named transformation: the patterns it looks for and the
// updater that rewrites each match.
type Rule struct {
	Name        string
	Description string
	Patterns    []match.Pattern // one pattern, or an ordered sequence
	Update      suggest.Updater
	InsertAtEnd bool
	Version     string // changes whenever the rule's output would

	when    *vm.Program
	whenSrc string
}

// Env is what a rule's `when` condition can see.
type Env struct {
	Path  string   `expr:"path"`
	Ext   string   `expr:"ext"`
	Base  string   `expr:"base"`
	Lines []string `expr:"lines"`
}

// SetWhen compiles a boolean condition restricting which files the rule runs on.
func (r *Rule) SetWhen(src string) error {
	if src == "" {
		r.when, r.whenSrc = nil, ""
		return nil
	}
	program, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return fmt.Errorf("rule %s: invalid when condition: %w", r.Name, err)
	}
	r.when, r.whenSrc = program, src
	return nil
}

// When returns the source of the rule's condition, if any.
func (r *Rule) When() string {
	return r.whenSrc
}

// Applies reports whether the rule should run on the file.
func (r *Rule) Applies(path string, lines []string) (bool, error) {
	if r.when == nil {
		return true, nil
	}
	env := Env{
		Path:  filepath.ToSlash(path),
		Ext:   filepath.Ext(path),
		Base:  filepath.Base(path),
		Lines: lines,
	}
	out, err := expr.Run(r.when, env)
	if err != nil {
		return false, fmt.Errorf("rule %s: when: %w", r.Name, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Suggestor binds the rule to the patch builder.
func (r *Rule) Suggestor() suggest.Suggestor {
	return func(lines []string, path string) iter.Seq2[patch.Patch, error] {
		ok, err := r.Applies(path, lines)
		if err != nil {
			return suggest.Failed(err)
		}
		if !ok {
			return func(func(patch.Patch, error) bool) {}
		}

		var opts []suggest.Option
		if r.InsertAtEnd {
			opts = append(opts, suggest.InsertAtEnd())
		}
		var seq iter.Seq2[patch.Patch, error]
		if len(r.Patterns) == 1 {
			seq, err = suggest.FromSinglePattern(r.Patterns[0], lines, r.Update, opts...)
		} else {
			seq, err = suggest.FromPatternSequence(r.Patterns, lines, r.Update, opts...)
		}
		if err != nil {
			return suggest.Failed(fmt.Errorf("rule %s: %w", r.Name, err))
		}
		return seq
	}
}

// Fingerprint identifies a rule selection. Incremental runs compare it to
// decide whether a file must be scanned again.
func Fingerprint(rs []*Rule) string {
	h := sha256.New()
	for _, r := range rs {
		fmt.Fprintf(h, "%s\x00%s\x00%t\x00%s\x00", r.Name, r.Version, r.InsertAtEnd, r.whenSrc)
		for _, p := range r.Patterns {
			fmt.Fprintf(h, "%s\x00", p)
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
