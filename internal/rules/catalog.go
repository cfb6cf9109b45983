package rules

import (
	"fmt"
)

// Catalog is an ordered set of rules addressable by name.
type Catalog struct {
	rules  []*Rule
	byName map[string]*Rule
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byName: make(map[string]*Rule)}
}

// Builtin returns a catalog holding the rules shipped with linemod.
func Builtin() *Catalog {
	c := NewCatalog()
	if err := c.Add(PropsStateMixins()); err != nil {
		panic(err)
	}
	return c
}

// Add registers r. Names must be unique.
func (c *Catalog) Add(r *Rule) error {
	if r == nil || r.Name == "" {
		return fmt.Errorf("rule has no name")
	}
	if _, exists := c.byName[r.Name]; exists {
		return fmt.Errorf("duplicate rule %q", r.Name)
	}
	c.rules = append(c.rules, r)
	c.byName[r.Name] = r
	return nil
}

// Get looks a rule up by name.
func (c *Catalog) Get(name string) (*Rule, bool) {
	r, ok := c.byName[name]
	return r, ok
}

// Rules returns all rules in registration order.
func (c *Catalog) Rules() []*Rule {
	return append([]*Rule(nil), c.rules...)
}

// Select returns the named rules in the order given, or every rule when names is empty.
func (c *Catalog) Select(names []string) ([]*Rule, error) {
	if len(names) == 0 {
		return c.Rules(), nil
	}
	selected := make([]*Rule, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		r, ok := c.byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		selected = append(selected, r)
	}
	return selected, nil
}
