package rules

import (
	"fmt"
	"strings"

	"linemod/internal/match"
)

// Definition is a rule as written in a linemod config file.
//
// Exactly one of Pattern and Sequence must be set. Replace is a replacement
// template (`$1`, `${name}`) applied with the first pattern to every line of
// the matched span; Append lines follow the replaced span, or stand alone when
// Replace is empty.
type Definition struct {
	Name        string   `toml:"name" yaml:"name"`
	Description string   `toml:"description" yaml:"description"`
	Pattern     string   `toml:"pattern" yaml:"pattern"`
	Sequence    []string `toml:"sequence" yaml:"sequence"`
	Literal     bool     `toml:"literal" yaml:"literal"`
	Replace     string   `toml:"replace" yaml:"replace"`
	Append      []string `toml:"append" yaml:"append"`
	InsertAtEnd bool     `toml:"insert_at_end" yaml:"insert_at_end"`
	When        string   `toml:"when" yaml:"when"`
}

// Compile validates the definition and turns it into a Rule.
func (d Definition) Compile() (*Rule, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("rule definition has no name")
	}
	exprs := d.Sequence
	switch {
	case d.Pattern != "" && len(d.Sequence) > 0:
		return nil, fmt.Errorf("rule %s: pattern and sequence are mutually exclusive", d.Name)
	case d.Pattern != "":
		exprs = []string{d.Pattern}
	case len(d.Sequence) == 0:
		return nil, fmt.Errorf("rule %s: %w: no pattern", d.Name, match.ErrInvalidPattern)
	}
	if d.Replace == "" && d.Append == nil {
		return nil, fmt.Errorf("rule %s: one of replace or append is required", d.Name)
	}

	patterns := make([]match.Pattern, 0, len(exprs))
	for _, e := range exprs {
		p, err := d.compilePattern(e)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", d.Name, err)
		}
		patterns = append(patterns, p)
	}

	r := &Rule{
		Name:        d.Name,
		Description: d.Description,
		Patterns:    patterns,
		Update:      d.updater(patterns[0]),
		InsertAtEnd: d.InsertAtEnd,
		Version:     fmt.Sprintf("%q|%q|%t", d.Replace, d.Append, d.Literal),
	}
	if err := r.SetWhen(d.When); err != nil {
		return nil, err
	}
	return r, nil
}

func (d Definition) compilePattern(e string) (match.Pattern, error) {
	if d.Literal {
		if e == "" {
			return nil, fmt.Errorf("%w: empty literal", match.ErrInvalidPattern)
		}
		return match.Literal(e), nil
	}
	return match.Compile(e)
}

func (d Definition) updater(first match.Pattern) func(match.Match) ([]string, error) {
	return func(m match.Match) ([]string, error) {
		var out []string
		if d.Replace != "" {
			replaced := make([]string, len(m.Lines))
			for i, line := range m.Lines {
				replaced[i] = replaceLine(first, line, d.Replace)
			}
			out = strings.Split(strings.Join(replaced, "\n"), "\n")
		}
		return append(out, d.Append...), nil
	}
}

func replaceLine(p match.Pattern, line, template string) string {
	switch v := p.(type) {
	case *match.Regexp:
		return v.Regexp().ReplaceAllString(line, template)
	case match.Literal:
		return strings.ReplaceAll(line, string(v), template)
	}
	return line
}
