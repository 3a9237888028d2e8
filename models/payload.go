package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldTypeError reports a body field whose JSON value cannot be read as the
// field's type, such as an object where text is expected.
type FieldTypeError struct {
	Field string
	Value string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("invalid value %s for field %q", e.Value, e.Field)
}

// payload is a decoded JSON object body. Scalars are read leniently: numbers
// and booleans are accepted as text, and "true"/"false" strings as booleans.
type payload map[string]json.RawMessage

func decodePayload(data []byte) (payload, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// text sets dst when field is present and not null.
func (p payload) text(field string, dst *string) error {
	s, ok, err := p.scalar(field)
	if err != nil || !ok {
		return err
	}
	*dst = s
	return nil
}

func (p payload) optionalText(field string, dst **string) error {
	s, ok, err := p.scalar(field)
	if err != nil || !ok {
		return err
	}
	*dst = &s
	return nil
}

// optionalFlag sets dst from a JSON boolean, a number or a string that
// strconv.ParseBool accepts. An empty string counts as absent.
func (p payload) optionalFlag(field string, dst **bool) error {
	s, ok, err := p.scalar(field)
	if err != nil || !ok || s == "" {
		return err
	}

	b, err := strconv.ParseBool(s)
	if err != nil {
		return &FieldTypeError{Field: field, Value: string(p[field])}
	}
	*dst = &b
	return nil
}

// scalar returns the text form of a string, number or boolean value.
// ok is false when the field is absent or null.
func (p payload) scalar(field string) (string, bool, error) {
	raw, present := p[field]
	if !present {
		return "", false, nil
	}

	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || string(raw) == "null":
		return "", false, nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	case raw[0] == '{' || raw[0] == '[':
		return "", false, &FieldTypeError{Field: field, Value: string(raw)}
	default:
		// true, false or a number, kept as written
		return string(raw), true, nil
	}
}

type fieldErrors struct {
	err error
}

func (e *fieldErrors) add(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *fieldErrors) first() error {
	return e.err
}
