// Package legacy decodes the pre-migration configuration into a tree of
// untyped values and offers defensive, lookup-with-default access to it.
package legacy

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind is the dynamic type of a Value.
type Kind int

const (
	Null Kind = iota
	Object
	Array
	String
	Number
	Bool
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Object:
		return "object"
	case Array:
		return "array"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

var (
	ErrNotObject = errors.New("value is not an object")
	ErrNotArray  = errors.New("value is not an array")
	ErrNotScalar = errors.New("value is not a scalar")
)

// Value is one node of a decoded legacy document. The zero Value is Null.
type Value struct {
	kind   Kind
	fields map[string]Value
	items  []Value
	// text holds the string for String and the literal for Number.
	text    string
	boolean bool
}

// Parse decodes a single JSON document.
func Parse(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, errors.New("document is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return Value{}, errors.Wrap(err, "failed to decode document")
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, errors.New("unexpected data after document")
	}

	return FromInterface(raw), nil
}

// FromInterface converts the output of encoding/json (decoded with UseNumber
// or not) into a Value. Unsupported types become Null.
func FromInterface(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return Value{}
	case map[string]interface{}:
		fields := make(map[string]Value, len(v))
		for key, item := range v {
			fields[key] = FromInterface(item)
		}
		return Value{kind: Object, fields: fields}
	case []interface{}:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			items = append(items, FromInterface(item))
		}
		return Value{kind: Array, items: items}
	case string:
		return Value{kind: String, text: v}
	case json.Number:
		return Value{kind: Number, text: v.String()}
	case float64:
		return Value{kind: Number, text: strconv.FormatFloat(v, 'f', -1, 64)}
	case int:
		return Value{kind: Number, text: strconv.Itoa(v)}
	case int64:
		return Value{kind: Number, text: strconv.FormatInt(v, 10)}
	case bool:
		return Value{kind: Bool, boolean: v}
	default:
		return Value{}
	}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == Null }

// Field returns the named member of an object. ok is false when v is not an
// object or the member is absent.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	f, ok := v.fields[name]
	return f, ok
}

// Present reports whether the named member exists and is not null.
func (v Value) Present(name string) bool {
	f, ok := v.Field(name)
	return ok && !f.IsNull()
}

// Lookup is like Field but fails when v is not an object. A missing or null
// member yields a Null value and no error.
func (v Value) Lookup(name string) (Value, error) {
	if v.kind != Object {
		return Value{}, errors.Wrapf(ErrNotObject, "cannot read %q from %s", name, v.kind)
	}
	return v.fields[name], nil
}

// Items returns the elements of an array.
func (v Value) Items() ([]Value, error) {
	if v.kind != Array {
		return nil, errors.Wrapf(ErrNotArray, "got %s", v.kind)
	}
	return v.items, nil
}

// Text renders a scalar as a string. Strings are returned verbatim.
func (v Value) Text() (string, error) {
	switch v.kind {
	case String, Number:
		return v.text, nil
	case Bool:
		return strconv.FormatBool(v.boolean), nil
	case Null:
		return "", nil
	default:
		return "", errors.Wrapf(ErrNotScalar, "got %s", v.kind)
	}
}

// Bool returns a boolean value.
func (v Value) Bool() (bool, error) {
	if v.kind != Bool {
		return false, errors.Errorf("expected bool, got %s", v.kind)
	}
	return v.boolean, nil
}

// Int returns an integral number. Fractional numbers are rejected.
func (v Value) Int() (int64, error) {
	if v.kind != Number {
		return 0, errors.Errorf("expected number, got %s", v.kind)
	}
	n, err := strconv.ParseInt(v.text, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "expected integer, got %s", v.text)
	}
	return n, nil
}

// BoolOr returns def when the member is missing or null.
func (v Value) BoolOr(name string, def bool) (bool, error) {
	f, err := v.Lookup(name)
	if err != nil {
		return def, err
	}
	if f.IsNull() {
		return def, nil
	}
	b, err := f.Bool()
	if err != nil {
		return def, errors.Wrap(err, name)
	}
	return b, nil
}

// IntOr returns def when the member is missing or null.
func (v Value) IntOr(name string, def int64) (int64, error) {
	f, err := v.Lookup(name)
	if err != nil {
		return def, err
	}
	if f.IsNull() {
		return def, nil
	}
	n, err := f.Int()
	if err != nil {
		return def, errors.Wrap(err, name)
	}
	return n, nil
}

// TextOr returns def when the member is missing or null.
func (v Value) TextOr(name string, def string) (string, error) {
	f, err := v.Lookup(name)
	if err != nil {
		return def, err
	}
	if f.IsNull() {
		return def, nil
	}
	s, err := f.Text()
	if err != nil {
		return def, errors.Wrap(err, name)
	}
	return s, nil
}

// MarshalJSON re-encodes the value. Object members are written in key order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Null:
		return []byte("null"), nil
	case Object:
		return json.Marshal(v.fields)
	case Array:
		return json.Marshal(v.items)
	case String:
		return json.Marshal(v.text)
	case Number:
		return []byte(v.text), nil
	case Bool:
		return []byte(strconv.FormatBool(v.boolean)), nil
	default:
		return nil, errors.Errorf("cannot encode %s", v.kind)
	}
}

// String returns scalars as text and composites as compact JSON.
func (v Value) String() string {
	if s, err := v.Text(); err == nil {
		return s
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return "<" + v.kind.String() + ">"
	}
	return strings.TrimSpace(string(b))
}
