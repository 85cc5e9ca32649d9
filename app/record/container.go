// Author: DoItWithASmile (2025). Apache 2.0 License

package record

import (
	"fmt"
	"strings"
)

// Container is a property bag with three overlay layers consulted in order:
// an alias map translating alternate property names to canonical names, the
// explicit value store, and a default map used when no explicit value
// exists. Property names colliding with the container's own structural
// fields are rejected.
type Container struct {
	caseSensitive bool
	values        map[string]interface{}
	aliases       map[string]string
	defaults      map[string]interface{}
	reserved      map[string]bool
}

// structural field namespace of the container itself, never usable as a
// data property
var structuralNames = []string{"values", "aliases", "defaults", "reserved", "caseSensitive"}

func NewContainer() *Container {
	c := &Container{
		values:   map[string]interface{}{},
		aliases:  map[string]string{},
		defaults: map[string]interface{}{},
		reserved: map[string]bool{},
	}
	for _, name := range structuralNames {
		c.reserved[strings.ToLower(name)] = true
	}
	return c
}

func (c *Container) SetCaseSensitive(sensitive bool) *Container {
	c.caseSensitive = sensitive
	return c
}

// AddAlias maps an alternate property name to its canonical name. The
// target has to be a usable property name itself.
func (c *Container) AddAlias(alias, canonical string) error {
	if err := c.checkName(alias); err != nil {
		return err
	}
	if err := c.checkName(canonical); err != nil {
		return fmt.Errorf("alias target: %w", err)
	}
	c.aliases[c.fold(alias)] = canonical
	return nil
}

// SetDefault registers the value returned when no explicit value is stored.
func (c *Container) SetDefault(name string, value interface{}) error {
	canonical, err := c.CanonicalName(name)
	if err != nil {
		return err
	}
	c.defaults[c.fold(canonical)] = value
	return nil
}

// CanonicalName resolves aliases and validates the name.
func (c *Container) CanonicalName(name string) (string, error) {
	if err := c.checkName(name); err != nil {
		return "", err
	}
	if canonical, ok := c.aliases[c.fold(name)]; ok {
		return canonical, nil
	}
	return name, nil
}

func (c *Container) Set(name string, value interface{}) error {
	canonical, err := c.CanonicalName(name)
	if err != nil {
		return err
	}
	c.values[c.fold(canonical)] = value
	return nil
}

// Get returns the explicit value for name, falling back to the default map.
// The second result reports whether any value was found.
func (c *Container) Get(name string) (interface{}, bool) {
	canonical, err := c.CanonicalName(name)
	if err != nil {
		return nil, false
	}
	if v, ok := c.values[c.fold(canonical)]; ok {
		return v, true
	}
	if v, ok := c.defaults[c.fold(canonical)]; ok {
		return v, true
	}
	return nil, false
}

func (c *Container) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// HasValue reports whether an explicit (non-default) value is stored.
func (c *Container) HasValue(name string) bool {
	canonical, err := c.CanonicalName(name)
	if err != nil {
		return false
	}
	_, ok := c.values[c.fold(canonical)]
	return ok
}

func (c *Container) Unset(name string) {
	canonical, err := c.CanonicalName(name)
	if err != nil {
		return
	}
	delete(c.values, c.fold(canonical))
}

// Pick returns the values for the given property names, omitting names with
// neither an explicit value nor a default.
func (c *Container) Pick(names []string) map[string]interface{} {
	res := map[string]interface{}{}
	for _, name := range names {
		if v, ok := c.Get(name); ok {
			res[name] = v
		}
	}
	return res
}

func (c *Container) fold(name string) string {
	if c.caseSensitive {
		return name
	}
	return strings.ToLower(name)
}

func (c *Container) checkName(name string) error {
	if name == "" {
		return fmt.Errorf("property name is empty")
	}
	if c.reserved[strings.ToLower(name)] {
		return fmt.Errorf("property %q is inaccessible", name)
	}
	return nil
}
