// Package style projects a custom theme onto live style state: CSS custom
// properties on the document root and a background layer.
package style

import (
	"slices"
	"strings"
	"sync"
)

// PropertyPrefix is prepended to a color key to form its custom property name.
const PropertyPrefix = "--"

// PropertyName returns the custom property name for a color key.
func PropertyName(key string) string {
	return PropertyPrefix + key
}

// Root is the write-only target for custom properties, such as a document
// root element.
type Root interface {
	SetProperty(name, value string)
	RemoveProperty(name string)
}

// Declarations is an in-process Root. Properties keep insertion order so the
// rendered block is stable.
type Declarations struct {
	mu     sync.RWMutex
	names  []string
	values map[string]string
}

func NewDeclarations() *Declarations {
	return &Declarations{values: make(map[string]string)}
}

func (d *Declarations) SetProperty(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.values[name]; !ok {
		d.names = append(d.names, name)
	}
	d.values[name] = value
}

func (d *Declarations) RemoveProperty(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.values[name]; !ok {
		return
	}
	delete(d.values, name)
	d.names = slices.DeleteFunc(d.names, func(n string) bool { return n == name })
}

// Property returns the current value of name.
func (d *Declarations) Property(name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.values[name]
	return v, ok
}

// Len returns the number of properties currently set.
func (d *Declarations) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.names)
}

// Snapshot returns a copy of the current properties.
func (d *Declarations) Snapshot() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]string, len(d.values))
	for k, v := range d.values {
		out[k] = v
	}
	return out
}

// Property is a single custom property declaration.
type Property struct {
	Name  string
	Value string
}

// Properties returns the declarations in insertion order.
func (d *Declarations) Properties() []Property {
	d.mu.RLock()
	defer d.mu.RUnlock()
	props := make([]Property, 0, len(d.names))
	for _, n := range d.names {
		props = append(props, Property{Name: n, Value: d.values[n]})
	}
	return props
}

// sanitizeValue keeps a value from terminating the declaration block it is
// rendered into.
func sanitizeValue(v string) string {
	return strings.NewReplacer("{", "", "}", "", ";", "", "\n", " ", "\r", " ").Replace(v)
}
