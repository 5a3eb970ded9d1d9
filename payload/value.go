// Copyright 2016 Aleksandr Demakin. All rights reserved.

package payload

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Kind is the type of a Value.
type Kind uint8

const (
	// KindNil is an absent value.
	KindNil Kind = iota
	// KindBool is a boolean.
	KindBool
	// KindInt is a signed 64-bit integer.
	KindInt
	// KindFloat is a 64-bit float.
	KindFloat
	// KindString is an utf-8 string.
	KindString
	// KindBytes is an opaque byte string.
	KindBytes
)

var kindNames = [...]string{
	KindNil:    "nil",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindBytes:  "bytes",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a single scalar element of a payload.
// The zero value is a nil value.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	raw  []byte
}

// Nil returns a nil value.
func Nil() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bytes returns a byte string value. b is copied.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, raw: append([]byte{}, b...)}
}

// Kind returns the type of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNil returns true for a nil value.
func (v Value) IsNil() bool {
	return v.kind == KindNil
}

// AsBool returns the boolean and true, if v is a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the integer and true, if v is an integer.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns the float and true, if v is a float or an integer.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// AsString returns the string and true, if v is a string.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsBytes returns the byte string and true, if v is a byte string.
// The returned slice must not be modified.
func (v Value) AsBytes() ([]byte, bool) {
	return v.raw, v.kind == KindBytes
}

// Interface returns v as one of nil, bool, int64, float64, string or []byte.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindBytes:
		return v.raw
	}
	return nil
}

// Equal reports whether v and other have the same kind and value.
// Float values are compared by bits, so NaN is equal to itself.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return math.Float64bits(v.f) == math.Float64bits(other.f)
	case KindString:
		return v.s == other.s
	case KindBytes:
		return bytes.Equal(v.raw, other.raw)
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.s)
	case KindBytes:
		return fmt.Sprintf("%x", v.raw)
	case KindNil:
		return "nil"
	}
	return fmt.Sprint(v.Interface())
}
