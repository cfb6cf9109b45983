package rules

import (
	"regexp"
	"strings"

	"linemod/internal/match"
)

// withMixinRegexp finds a `with` clause naming at least one props or state mixin.
// Group 1 is the comma separated mixin list.
var withMixinRegexp = regexp.MustCompile(`\bwith\s+((?:[\w$]+\s*,\s*)*[\w$]*(?:PropsMixin|StateMixin)\b(?:\s*,\s*[\w$]+)*)`)

// PropsStateMixins pairs every props/state mixin used in a `with` clause with
// its generated `$` counterpart.
//
//	class Foo with FooPropsMixin implements Bar {
//	class Foo with FooPropsMixin, $FooPropsMixin implements Bar {
func PropsStateMixins() *Rule {
	return &Rule{
		Name:        "props-state-mixins",
		Description: "Add generated $-prefixed companions to props and state mixin usages",
		Patterns:    []match.Pattern{match.NewRegexp(withMixinRegexp)},
		Update:      updatePropsOrStateMixinUsage,
		Version:     "1",
	}
}

func updatePropsOrStateMixinUsage(m match.Match) ([]string, error) {
	out := make([]string, len(m.Lines))
	for i, line := range m.Lines {
		loc := withMixinRegexp.FindStringSubmatchIndex(line)
		if loc == nil {
			out[i] = line
			continue
		}
		clause := line[loc[2]:loc[3]]
		out[i] = line[:loc[2]] + companionClause(clause) + line[loc[3]:]
	}
	return out, nil
}

// companionClause rewrites a mixin list so that each non-generated props or
// state mixin is directly followed by its generated companion.
func companionClause(clause string) string {
	var names []string
	present := make(map[string]bool)
	for _, name := range strings.Split(clause, ",") {
		name = strings.TrimSpace(name)
		names = append(names, name)
		present[name] = true
	}

	out := make([]string, 0, len(names)*2)
	for _, name := range names {
		out = append(out, name)
		if !isPropsOrStateMixin(name) || strings.HasPrefix(name, "$") {
			continue
		}
		companion := "$" + name
		if present[companion] {
			continue
		}
		present[companion] = true
		out = append(out, companion)
	}
	return strings.Join(out, ", ")
}

func isPropsOrStateMixin(name string) bool {
	return strings.HasSuffix(name, "PropsMixin") || strings.HasSuffix(name, "StateMixin")
}
