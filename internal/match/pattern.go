package match

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidPattern is returned when a scan is requested with a missing or malformed pattern.
var ErrInvalidPattern = errors.New("invalid pattern")

// Found describes where a Pattern matched inside a single line.
type Found struct {
	Start  int      // byte offset of the match start
	End    int      // byte offset one past the match end
	Groups []string // Groups[0] is the whole match, followed by any captured groups
}

// Pattern is a predicate over one line of text.
type Pattern interface {
	// Find reports the leftmost match in s.
	Find(s string) (Found, bool)
	// FindFrom reports the leftmost match in s starting at or after byte
	// offset off. Offsets in Found are relative to s, and anchors such as ^
	// and \b are evaluated against the whole of s.
	FindFrom(s string, off int) (Found, bool)
	String() string
}

// Regexp matches lines with a regular expression.
type Regexp struct {
	re *regexp.Regexp
	// after matches one rune and then re. Searching it from the byte before
	// an offset finds matches of re that start at or after the offset while
	// \b still sees the preceding character and ^ cannot match.
	after *regexp.Regexp
}

// NewRegexp wraps an already compiled expression.
func NewRegexp(re *regexp.Regexp) *Regexp {
	return &Regexp{re: re, after: regexp.MustCompile(`(?s:.)(?:` + re.String() + `)`)}
}

// Compile parses expr into a Regexp pattern.
func Compile(expr string) (*Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return NewRegexp(re), nil
}

// MustCompile is like Compile but panics if expr cannot be parsed.
func MustCompile(expr string) *Regexp {
	return NewRegexp(regexp.MustCompile(expr))
}

func (r *Regexp) Find(s string) (Found, bool) {
	loc := r.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return Found{}, false
	}
	return found(s, loc), true
}

func (r *Regexp) FindFrom(s string, off int) (Found, bool) {
	if off <= 0 {
		return r.Find(s)
	}
	off = min(off, len(s))
	base := off - 1
	loc := r.after.FindStringSubmatchIndex(s[base:])
	if loc == nil {
		return Found{}, false
	}
	for i := range loc {
		if loc[i] >= 0 {
			loc[i] += base
		}
	}
	// Group 0 includes the leading rune consumed by after.
	_, size := utf8.DecodeRuneInString(s[loc[0]:])
	loc[0] += size
	return found(s, loc), true
}

func found(s string, loc []int) Found {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return Found{Start: loc[0], End: loc[1], Groups: groups}
}

// Regexp returns the underlying expression.
func (r *Regexp) Regexp() *regexp.Regexp {
	return r.re
}

func (r *Regexp) String() string {
	return r.re.String()
}

// Literal matches lines containing a fixed substring.
type Literal string

func (l Literal) Find(s string) (Found, bool) {
	i := strings.Index(s, string(l))
	if i < 0 {
		return Found{}, false
	}
	return Found{Start: i, End: i + len(l), Groups: []string{string(l)}}, true
}

func (l Literal) FindFrom(s string, off int) (Found, bool) {
	off = min(max(off, 0), len(s))
	f, ok := l.Find(s[off:])
	if !ok {
		return Found{}, false
	}
	f.Start += off
	f.End += off
	return f, true
}

func (l Literal) String() string {
	return string(l)
}
