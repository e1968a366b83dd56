package orders

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Payload is a decoded webhook body. Accessors report missing or mistyped
// keys as errors; the classifier turns those into Invalid events.
type Payload map[string]any

// DecodePayload reads one JSON object from r. Numbers are kept as
// json.Number so prices and ids survive without float rounding.
func DecodePayload(r io.Reader) (Payload, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var payload Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("decode payload: not an object")
	}
	return payload, nil
}

// Has reports whether key is present with a non-nil value.
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// String returns a required scalar as text.
func (p Payload) String(key string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing key %q", key)
	}
	s, ok := scalarString(v)
	if !ok {
		return "", fmt.Errorf("key %q is not a scalar", key)
	}
	return s, nil
}

// OptString returns a scalar as text, or "" when absent or not scalar.
func (p Payload) OptString(key string) string {
	s, err := p.String(key)
	if err != nil {
		return ""
	}
	return s
}

// Decimal returns a required numeric value.
func (p Payload) Decimal(key string) (decimal.Decimal, error) {
	s, err := p.String(key)
	if err != nil {
		return decimal.Zero, err
	}
	return parseDecimal(key, s)
}

// OptDecimal returns a numeric value, or zero when absent or unparseable.
func (p Payload) OptDecimal(key string) decimal.Decimal {
	d, err := p.Decimal(key)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Int returns a required integer value.
func (p Payload) Int(key string) (int, error) {
	s, err := p.String(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		d, derr := decimal.NewFromString(strings.TrimSpace(s))
		if derr != nil {
			return 0, fmt.Errorf("key %q: %w", key, err)
		}
		return int(d.IntPart()), nil
	}
	return n, nil
}

// Object returns a required nested object.
func (p Payload) Object(key string) (Payload, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("missing key %q", key)
	}
	obj, ok := asPayload(v)
	if !ok {
		return nil, fmt.Errorf("key %q is not an object", key)
	}
	return obj, nil
}

// OptObject returns a nested object, or an empty one when absent.
func (p Payload) OptObject(key string) Payload {
	obj, err := p.Object(key)
	if err != nil {
		return Payload{}
	}
	return obj
}

// Objects returns a required list of objects.
func (p Payload) Objects(key string) ([]Payload, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("missing key %q", key)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("key %q is not a list", key)
	}
	out := make([]Payload, 0, len(list))
	for i, item := range list {
		obj, ok := asPayload(item)
		if !ok {
			return nil, fmt.Errorf("key %q[%d] is not an object", key, i)
		}
		out = append(out, obj)
	}
	return out, nil
}

// OptObjects returns a list of objects, or nil when absent or malformed.
func (p Payload) OptObjects(key string) []Payload {
	list, err := p.Objects(key)
	if err != nil {
		return nil
	}
	return list
}

func asPayload(v any) (Payload, bool) {
	switch obj := v.(type) {
	case Payload:
		return obj, true
	case map[string]any:
		return Payload(obj), true
	default:
		return nil, false
	}
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

func parseDecimal(key, s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("key %q: %w", key, err)
	}
	return d, nil
}
