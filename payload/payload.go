// Copyright 2016 Aleksandr Demakin. All rights reserved.

package payload

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnsupportedType is returned by Of for values, which can't be sent through a channel.
var ErrUnsupportedType = errors.New("unsupported value type")

// Payload is an ordered list of values, which forms one message.
type Payload []Value

// Of builds a payload from go values.
// Supported are nil, bool, all integer types, float32, float64, string, []byte and Value.
// Unsigned values greater than math.MaxInt64 are rejected.
func Of(args ...any) (Payload, error) {
	result := make(Payload, 0, len(args))
	for i, arg := range args {
		v, err := valueOf(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "payload: argument #%d", i+1)
		}
		result = append(result, v)
	}
	return result, nil
}

// MustOf is like Of, but panics on error.
func MustOf(args ...any) Payload {
	p, err := Of(args...)
	if err != nil {
		panic(err)
	}
	return p
}

// Args returns payload values as go values, see Value.Interface.
func (p Payload) Args() []any {
	result := make([]any, len(p))
	for i, v := range p {
		result[i] = v.Interface()
	}
	return result
}

// Equal reports whether two payloads hold equal values in the same order.
func (p Payload) Equal(other Payload) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !p[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

func (p Payload) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func valueOf(arg any) (Value, error) {
	switch typed := arg.(type) {
	case nil:
		return Nil(), nil
	case Value:
		if typed.kind == KindBytes {
			return Bytes(typed.raw), nil
		}
		return typed, nil
	case bool:
		return Bool(typed), nil
	case int:
		return Int(int64(typed)), nil
	case int8:
		return Int(int64(typed)), nil
	case int16:
		return Int(int64(typed)), nil
	case int32:
		return Int(int64(typed)), nil
	case int64:
		return Int(typed), nil
	case uint:
		return uintValue(uint64(typed))
	case uint8:
		return Int(int64(typed)), nil
	case uint16:
		return Int(int64(typed)), nil
	case uint32:
		return Int(int64(typed)), nil
	case uint64:
		return uintValue(typed)
	case float32:
		return Float(float64(typed)), nil
	case float64:
		return Float(typed), nil
	case string:
		return String(typed), nil
	case []byte:
		return Bytes(typed), nil
	}
	return Value{}, errors.Wrapf(ErrUnsupportedType, "%T", arg)
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, errors.Wrapf(ErrUnsupportedType, "%d overflows int64", u)
	}
	return Int(int64(u)), nil
}
