// Package value defines the immutable JSON value model that the decoder
// hands back to its consumer, plus the mutable live containers the
// snapshot builder uses internally to assemble it.
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies which case of the JSON value union a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is an immutable snapshot of a JSON value: null, boolean, number,
// string, array, or object. The zero Value is null. Equality is structural
// and recursive via Equal (object key order included); Go's == cannot be
// used on Values, since they hold slices and a map.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	keys []string
	obj  map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array value containing a copy of items, in order.
func Array(items ...Value) Value {
	return Value{kind: KindArray, arr: append([]Value(nil), items...)}
}

// Pair is one key/value entry used to build an Object in insertion order.
type Pair struct {
	Key   string
	Value Value
}

// Object returns an object value with the given entries, preserving their
// order. A repeated key keeps the position of its first occurrence and
// takes the value of its last occurrence, matching LiveObject.Set.
func Object(pairs ...Pair) Value {
	v := Value{kind: KindObject, obj: make(map[string]Value, len(pairs))}
	for _, p := range pairs {
		if _, exists := v.obj[p.Key]; !exists {
			v.keys = append(v.keys, p.Key)
		}
		v.obj[p.Key] = p.Value
	}
	return v
}

// Kind reports which case of the union v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns v's boolean and true, or false and false if v is not a bool.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Number returns v's number and true, or 0 and false if v is not a number.
func (v Value) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.n, true
}

// String returns v's string and true, or "" and false if v is not a string.
func (v Value) String() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Array returns v's elements and true, or nil and false if v is not an
// array. The returned slice must not be mutated by the caller.
func (v Value) Array() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// ObjectKeys returns v's keys in insertion order, and true, or nil and
// false if v is not an object.
func (v Value) ObjectKeys() ([]string, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.keys, true
}

// ObjectGet returns the value at key and true, or the zero Value and false
// if v is not an object or has no such key.
func (v Value) ObjectGet(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	val, ok := v.obj[key]
	return val, ok
}

// Equal reports whether v and other are structurally equal: same kind,
// same scalar contents, same array elements in order, same object entries
// (key order included) with equal values.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.keys) != len(other.keys) {
			return false
		}
		for i, k := range v.keys {
			if other.keys[i] != k {
				return false
			}
			if !v.obj[k].Equal(other.obj[k]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler, used both by consumers that want a
// byte representation and by the decode-into-T façade's round trip.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		data, err := json.Marshal(v.n)
		if err != nil {
			return err
		}
		buf.Write(data)
	case KindString:
		data, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(data)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyBytes, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(keyBytes)
			buf.WriteByte(':')
			if err := v.obj[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("value: unknown kind %v", v.kind)
	}
	return nil
}

// GoString implements fmt.GoStringer (the %#v verb) for debugging; it is
// not used for on-the-wire encoding (MarshalJSON is).
func (v Value) GoString() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("value.Value{kind:%v}", v.kind)
	}
	return string(data)
}
