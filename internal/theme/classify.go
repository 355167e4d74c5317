package theme

import (
	"encoding/json"
	"math"
)

// Kind is a set of JSON runtime types.
type Kind uint8

const (
	KindString Kind = 1 << iota
	KindNumber
	KindBool
	KindNull
	KindArray
	KindObject
)

// String returns the JSON name of a single kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindString | KindNumber:
		return "string or number"
	}
	return "unknown"
}

// KindOf reports the JSON kind of a value produced by encoding/json.
func KindOf(v any) Kind {
	switch v.(type) {
	case string:
		return KindString
	case float64, json.Number:
		return KindNumber
	case bool:
		return KindBool
	case nil:
		return KindNull
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	}
	return 0
}

// Bucket is the half of a document an entry belongs to.
type Bucket int

const (
	BucketColor Bucket = iota
	BucketMetadata
)

func (b Bucket) String() string {
	if b == BucketMetadata {
		return "metadata"
	}
	return "color"
}

// metadataKinds is the validator table for reserved keys.
var metadataKinds = map[string]Kind{
	"name":               KindString | KindNumber,
	"author":             KindString | KindNumber,
	"description":        KindString | KindNumber,
	"version":            KindString | KindNumber,
	"backgroundImage":    KindString | KindNumber,
	"backgroundOpacity":  KindString | KindNumber,
	"backgroundBlur":     KindString | KindNumber,
	"backgroundPosition": KindString | KindNumber,
	"backgroundSize":     KindString | KindNumber,
}

// colorKinds is accepted for every key outside the metadata table.
const colorKinds = KindString

// Expected returns the bucket key falls into and the kinds it accepts.
func Expected(key string) (Bucket, Kind) {
	if k, ok := metadataKinds[key]; ok {
		return BucketMetadata, k
	}
	return BucketColor, colorKinds
}

// Entry is a classified document entry.
type Entry struct {
	Key    string
	Value  any
	Bucket Bucket
	Kind   Kind
}

// Classify assigns key to a bucket and reports whether value has an accepted
// type for it. A number that does not fit a float64 is never accepted.
func Classify(key string, value any) (Entry, bool) {
	bucket, accepted := Expected(key)
	kind := KindOf(value)
	e := Entry{Key: key, Value: value, Bucket: bucket, Kind: kind}
	if kind == KindNumber && !Representable(value) {
		return e, false
	}
	return e, kind != 0 && accepted&kind == kind
}

// Representable reports whether a number value fits a finite float64.
func Representable(v any) bool {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return err == nil && !math.IsInf(f, 0)
	case float64:
		return !math.IsInf(n, 0) && !math.IsNaN(n)
	}
	return false
}

// Dropped describes an entry rejected by Partition.
type Dropped struct {
	Key      string
	Bucket   Bucket
	Got      Kind
	Expected Kind
}

// Partition classifies every top-level entry of a parsed document. Rejected
// entries are reported but never fail the partition.
func Partition(doc map[string]any) (Colors, Metadata, []Dropped) {
	colors := make(Colors)
	metadata := make(Metadata)
	var dropped []Dropped

	for key, value := range doc {
		e, ok := Classify(key, value)
		if !ok {
			_, want := Expected(key)
			dropped = append(dropped, Dropped{Key: key, Bucket: e.Bucket, Got: e.Kind, Expected: want})
			continue
		}
		switch e.Bucket {
		case BucketMetadata:
			if n, isNum := value.(json.Number); isNum {
				value, _ = n.Float64()
			}
			metadata[key] = value
		case BucketColor:
			colors[key] = value.(string)
		}
	}

	return colors, metadata, dropped
}
