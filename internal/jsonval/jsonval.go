// Package jsonval is the JSON value layer of the engine: encoding and
// decoding of documents, plus an insertion-ordered object so template-authored
// field order survives all the way to the output bytes.
package jsonval

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	json "github.com/goccy/go-json"
)

// ErrMalformed indicates the input is not a single well-formed JSON document.
var ErrMalformed = errors.New("jsonval: malformed JSON document")

// Field is one key/value pair of an ordered object.
type Field struct {
	Key   string
	Value any
}

// Object is a JSON object that remembers insertion order. Set on an existing
// key replaces the value in place without moving the field.
type Object struct {
	fields []Field
	index  map[string]int
}

func NewObject(capacity int) *Object {
	return &Object{
		fields: make([]Field, 0, capacity),
		index:  make(map[string]int, capacity),
	}
}

func (o *Object) Set(key string, value any) {
	if at, ok := o.index[key]; ok {
		o.fields[at].Value = value
		return
	}

	o.index[key] = len(o.fields)
	o.fields = append(o.fields, Field{Key: key, Value: value})
}

func (o *Object) Get(key string) (any, bool) {
	at, ok := o.index[key]
	if !ok {
		return nil, false
	}

	return o.fields[at].Value, true
}

func (o *Object) Len() int {
	return len(o.fields)
}

// Fields returns the key/value pairs in insertion order.
func (o *Object) Fields() []Field {
	return slices.Clone(o.fields)
}

// MarshalJSON emits the fields in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, field := range o.fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode parses a JSON document into plain Go values (map[string]any, []any,
// float64, string, bool, nil). Use this for input documents: path evaluation
// operates on plain containers.
func Decode(data []byte) (any, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return value, nil
}

// DecodeOrdered parses a JSON document like Decode but represents objects as
// *Object, preserving field order. Use this for templates, where authored
// field order dictates output field order.
func DecodeOrdered(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	value, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformed)
	}

	return value, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if delim, ok := tok.(json.Delim); ok {
		switch delim {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrMalformed, delim.String())
		}
	}

	return tok, nil
}

func decodeObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject(0)

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return obj, nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key is %T", ErrMalformed, tok)
		}

		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		obj.Set(key, value)
	}
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := make([]any, 0)

	for {
		if !dec.More() {
			// Consume the closing bracket.
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			return arr, nil
		}

		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		arr = append(arr, value)
	}
}

// Encode marshals a value as compact JSON.
func Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// EncodeIndent marshals a value as indented JSON for human consumption.
func EncodeIndent(value any) ([]byte, error) {
	return json.MarshalIndent(value, "", "  ")
}

// EncodeTo writes the compact encoding of value followed by a newline.
func EncodeTo(w io.Writer, value any) error {
	data, err := Encode(value)
	if err != nil {
		return err
	}

	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
