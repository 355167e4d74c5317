// Package theme defines the custom theme document: a flat JSON object whose
// keys are either one of the reserved metadata fields or a free-form color
// variable name.
package theme

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// MetadataKeys lists the reserved non-color keys in canonical document order.
var MetadataKeys = []string{
	"name",
	"author",
	"description",
	"version",
	"backgroundImage",
	"backgroundOpacity",
	"backgroundBlur",
	"backgroundPosition",
	"backgroundSize",
}

// IsMetadataKey reports whether key is reserved for metadata.
func IsMetadataKey(key string) bool {
	_, ok := metadataKinds[key]
	return ok
}

// Colors maps a color variable name (without the leading "--") to a CSS value.
type Colors map[string]string

// Keys returns the color names sorted lexically.
func (c Colors) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// Clone returns a shallow copy that is never nil.
func (c Colors) Clone() Colors {
	out := make(Colors, len(c))
	maps.Copy(out, c)
	return out
}

// Reserved returns the keys of c that collide with metadata keys, sorted.
func (c Colors) Reserved() []string {
	var reserved []string
	for _, k := range c.Keys() {
		if IsMetadataKey(k) {
			reserved = append(reserved, k)
		}
	}
	return reserved
}

// WithoutReserved returns a copy of c with every metadata key removed.
func (c Colors) WithoutReserved() Colors {
	out := make(Colors, len(c))
	for k, v := range c {
		if !IsMetadataKey(k) {
			out[k] = v
		}
	}
	return out
}

// Metadata holds the metadata fields of a document. Values are string or float64.
type Metadata map[string]any

// Clone returns a shallow copy that is never nil.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	maps.Copy(out, m)
	return out
}

// Sanitized returns a copy holding only metadata keys whose values pass the
// validator table. Numbers of any Go numeric type are normalized to float64.
func (m Metadata) Sanitized() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		v = normalize(v)
		if e, ok := Classify(k, v); ok && e.Bucket == BucketMetadata {
			out[k] = v
		}
	}
	return out
}

// String returns the value of key as a string. Numbers are formatted the way
// they appear in JSON.
func (m Metadata) String(key string) (string, bool) {
	switch v := m[key].(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

// Number returns the value of key as a number. Strings holding a number are
// accepted, anything else is reported as absent.
func (m Metadata) Number(key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ErrUnknownSelector is returned by ParseSelector for unrecognized values.
var ErrUnknownSelector = errors.New("unknown theme selector")

// Selector identifies the active theme. Only SelectorCustom applies the
// stored custom theme.
type Selector string

const (
	SelectorLight  Selector = "light"
	SelectorDark   Selector = "dark"
	SelectorCustom Selector = "custom"
)

// Selectors returns every valid selector, built-ins first.
func Selectors() []Selector {
	return []Selector{SelectorLight, SelectorDark, SelectorCustom}
}

// ParseSelector validates s.
func ParseSelector(s string) (Selector, error) {
	sel := Selector(s)
	if slices.Contains(Selectors(), sel) {
		return sel, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSelector, s)
}

func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	}
	return v
}
