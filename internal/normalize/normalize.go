// Package normalize converts the loose multi-valued field shapes accepted at
// the API boundary (JSON arrays, CSV strings, bracket-wrapped strings) into
// one canonical comma-delimited form. The rest of the engine only ever sees
// the canonical shape.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Delimiter joins elements of the canonical form.
const Delimiter = ","

// cutset removed from both ends of every element: whitespace plus bracket
// and quote fragments left behind by double-encoded client payloads.
const cutset = " \t\r\n[]\"'"

// Normalize converts raw into the canonical delimited string. raw may be a
// slice of scalars, a single string (possibly itself a delimiter-joined,
// bracket-wrapped list), or nil. Elements are trimmed, empties dropped,
// insertion order preserved, no deduplication applied. Empty input yields "".
func Normalize(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return Canonical(v)
	case []string:
		return fromList(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, it := range v {
			items = append(items, fmt.Sprint(it))
		}
		return fromList(items)
	default:
		return Canonical(fmt.Sprint(v))
	}
}

// Canonical normalizes a single string that may be a delimiter-joined list,
// optionally wrapped in brackets.
func Canonical(s string) string {
	return fromList(strings.Split(s, Delimiter))
}

// Split breaks a canonical string back into its elements. An empty canonical
// string yields an empty slice.
func Split(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, Delimiter)
}

func fromList(items []string) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		e := strings.Trim(it, cutset)
		if e == "" {
			continue
		}
		out = append(out, e)
	}
	return strings.Join(out, Delimiter)
}

// FieldList is a request-payload type that accepts either a JSON array of
// scalars or a single string for the same logical field, and carries the
// canonical form.
type FieldList string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FieldList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FieldList(Canonical(s))
		return nil
	}
	var arr []any
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("field accepts a string or an array of scalars")
	}
	*f = FieldList(Normalize(arr))
	return nil
}

// String returns the canonical delimited form.
func (f FieldList) String() string { return string(f) }

// Empty reports whether the list has no elements.
func (f FieldList) Empty() bool { return f == "" }
