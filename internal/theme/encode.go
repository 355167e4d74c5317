package theme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Encode writes metadata and colors as one flat JSON object indented by two
// spaces. Metadata comes first in canonical key order, then colors sorted by
// name. Colors keyed by a reserved name are skipped so they cannot shadow
// metadata.
func Encode(w io.Writer, metadata Metadata, colors Colors) error {
	var buf bytes.Buffer
	buf.WriteString("{")

	first := true
	writeEntry := func(key string, value any) error {
		k, err := json.Marshal(key)
		if err != nil {
			return fmt.Errorf("encoding key %q: %w", key, err)
		}
		v, err := marshalValue(value)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		if !first {
			buf.WriteString(",")
		}
		first = false
		buf.WriteString("\n  ")
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
		return nil
	}

	for _, key := range MetadataKeys {
		value, ok := metadata[key]
		if !ok {
			continue
		}
		if err := writeEntry(key, value); err != nil {
			return err
		}
	}
	for _, key := range colors.Keys() {
		if IsMetadataKey(key) {
			continue
		}
		if err := writeEntry(key, colors[key]); err != nil {
			return err
		}
	}

	if !first {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ErrNotObject is returned by Decode when the document is valid JSON but its
// top-level value is not an object.
var ErrNotObject = errors.New("theme document must be a JSON object")

// Decode parses data as a theme document. It fails when data is not valid
// JSON or the top-level value is not an object. Numbers are kept as
// json.Number so one out-of-range value cannot fail the whole document.
func Decode(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing theme document: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing theme document: unexpected data after top-level value")
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w, got %s", ErrNotObject, KindOf(raw))
	}
	return doc, nil
}
