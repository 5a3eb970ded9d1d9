// Copyright 2016 Aleksandr Demakin. All rights reserved.

package payload

import (
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// this is to ensure, that Value is encoded with its own methods.
var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
)

// Marshal encodes a payload into a message.
func Marshal(p Payload) ([]byte, error) {
	data, err := msgpack.Marshal([]Value(p))
	if err != nil {
		return nil, errors.Wrap(err, "payload: marshal failed")
	}
	return data, nil
}

// Unmarshal decodes a message into a new payload.
func Unmarshal(data []byte) (Payload, error) {
	var result []Value
	if err := msgpack.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "payload: unmarshal failed")
	}
	return Payload(result), nil
}

// EncodeMsgpack writes a value as a two-element array [kind, value].
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeUint8(uint8(v.kind)); err != nil {
		return err
	}
	switch v.kind {
	case KindNil:
		return enc.EncodeNil()
	case KindBool:
		return enc.EncodeBool(v.b)
	case KindInt:
		return enc.EncodeInt(v.i)
	case KindFloat:
		return enc.EncodeFloat64(v.f)
	case KindString:
		return enc.EncodeString(v.s)
	case KindBytes:
		return enc.EncodeBytes(v.raw)
	}
	return errors.Errorf("payload: unknown kind %v", v.kind)
}

// DecodeMsgpack reads a value written by EncodeMsgpack.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	l, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if l != 2 {
		return errors.Errorf("payload: invalid value length %d", l)
	}
	kind, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	result := Value{kind: Kind(kind)}
	switch result.kind {
	case KindNil:
		err = dec.DecodeNil()
	case KindBool:
		result.b, err = dec.DecodeBool()
	case KindInt:
		result.i, err = dec.DecodeInt64()
	case KindFloat:
		result.f, err = dec.DecodeFloat64()
	case KindString:
		result.s, err = dec.DecodeString()
	case KindBytes:
		result.raw, err = dec.DecodeBytes()
		if err == nil && result.raw == nil {
			result.raw = []byte{}
		}
	default:
		return errors.Errorf("payload: unknown kind %v", result.kind)
	}
	if err != nil {
		return err
	}
	*v = result
	return nil
}
