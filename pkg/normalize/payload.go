// Package normalize turns whatever the server returned into complete view
// models. Nothing in this package returns an error: missing, null or
// malformed input degrades to deterministic fallbacks.
package normalize

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Kind tags how a response body carried its resource.
type Kind int

const (
	// KindAbsent means there is no usable record: empty body, invalid JSON,
	// null, a scalar, or a wrapper holding null.
	KindAbsent Kind = iota
	// KindRaw means the body itself is the record.
	KindRaw
	// KindWrapped means the record sat under a conventional key such as
	// {"content": {...}} or {"data": {...}}.
	KindWrapped
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindWrapped:
		return "wrapped"
	default:
		return "absent"
	}
}

// Payload is a response body resolved once at the boundary.
type Payload struct {
	Kind  Kind
	Value gjson.Result
}

// Absent is the empty payload.
var Absent = Payload{Kind: KindAbsent}

// Present reports whether the payload carries a record.
func (p Payload) Present() bool {
	return p.Kind != KindAbsent
}

// Get reads a field of the record. It returns an empty result when the
// payload is absent.
func (p Payload) Get(path string) gjson.Result {
	if !p.Present() {
		return gjson.Result{}
	}
	return p.Value.Get(path)
}

// Unwrap resolves body into a Payload. key names the resource wrapper
// ("content", "user", "wallets"); "data" is always recognised as well.
func Unwrap(body []byte, key string) Payload {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return Absent
	}
	doc := gjson.ParseBytes(body)

	switch {
	case doc.IsArray():
		return Payload{Kind: KindRaw, Value: doc}
	case !doc.IsObject():
		return Absent
	}

	for _, k := range []string{key, "data"} {
		if k == "" {
			continue
		}
		w := doc.Get(k)
		switch {
		case w.IsObject() || w.IsArray():
			return Payload{Kind: KindWrapped, Value: w}
		case w.Type == gjson.Null && w.Exists():
			return Absent
		}
	}

	return Payload{Kind: KindRaw, Value: doc}
}

// FromRaw resolves a client response body; nil is absent.
func FromRaw(data *json.RawMessage, key string) Payload {
	if data == nil {
		return Absent
	}
	return Unwrap(*data, key)
}
