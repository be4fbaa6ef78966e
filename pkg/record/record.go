// Package record gives read access to the opaque JSON objects returned by
// the API. Only the fields a report displays or sorts on are ever read; a
// missing field or one of the wrong type is a lookup error.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrLookup is wrapped by every field access failure.
var ErrLookup = errors.New("record lookup failed")

// Record is one customer, account or instance object.
type Record map[string]any

// FromValues converts decoded JSON array elements to records. Every element
// must be a JSON object.
func FromValues(values []any) ([]Record, error) {
	out := make([]Record, 0, len(values))
	for i, v := range values {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T, not an object", ErrLookup, i, v)
		}
		out = append(out, Record(obj))
	}
	return out, nil
}

// Lookup walks a dotted path such as "account.name" through nested objects.
func (r Record) Lookup(path string) (any, error) {
	var cur any = map[string]any(r)
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q: %T is not an object", ErrLookup, path, cur)
		}
		next, ok := obj[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q: key %q not found", ErrLookup, path, key)
		}
		cur = next
	}
	return cur, nil
}

// String returns the field at path as display text. Strings are returned
// as-is, numbers in their JSON form, booleans as true/false. Null and
// composite values are lookup errors.
func (r Record) String(path string) (string, error) {
	v, err := r.Lookup(path)
	if err != nil {
		return "", err
	}

	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("%w: %q: %T is not a scalar", ErrLookup, path, v)
	}
}

// Bool returns the boolean field at path.
func (r Record) Bool(path string) (bool, error) {
	v, err := r.Lookup(path)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q: %T is not a boolean", ErrLookup, path, v)
	}
	return b, nil
}
