// Package vars provides the immutable variable context consumed by
// render passes.
//
// A Context is a snapshot: it copies its input on construction and is
// read-only afterwards, so a render pass never observes read skew even
// when the underlying configuration store changes mid-flight.
package vars

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnbound indicates a variable was referenced without a default and
// is absent from the context.
var ErrUnbound = errors.New("unbound variable")

// Context is an immutable name-to-value mapping.
type Context struct {
	values map[string]string
}

// New creates a Context holding a copy of values.
func New(values map[string]string) *Context {
	snapshot := make(map[string]string, len(values))
	for k, v := range values {
		snapshot[k] = v
	}
	return &Context{values: snapshot}
}

// Resolve returns the value bound to name, or ErrUnbound.
func (c *Context) Resolve(name string) (string, error) {
	v, ok := c.values[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnbound, name)
	}
	return v, nil
}

// ResolveDefault returns the value bound to name, or def if unbound.
// It never fails.
func (c *Context) ResolveDefault(name, def string) string {
	if v, ok := c.values[name]; ok {
		return v
	}
	return def
}

// Lookup reports the value bound to name and whether it is set.
func (c *Context) Lookup(name string) (string, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Names returns all bound variable names in sorted order.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bound variables.
func (c *Context) Len() int {
	return len(c.values)
}
