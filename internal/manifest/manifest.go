// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package manifest reads HCL files, which declare channels for chanctl:
//
//	channel "jobs" {
//	  limit     = 4
//	  notify    = true
//	  producers = 2
//	  messages  = ["a", 1, true, ["resize", 640, 480]]
//	}
//
// Every element of messages is sent as one message. A tuple element
// becomes a multi-value payload.
package manifest

import (
	"math/big"
	"os"

	"github.com/nxgtw/go-msgchan/payload"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

// Manifest is a set of declared channels.
type Manifest struct {
	Channels []Channel
}

// Channel is a declared channel.
type Channel struct {
	Name string
	// Limit is nil, if the manifest does not set it.
	Limit  *int
	Notify bool
	// Producers is the number of goroutines, each sending all Messages.
	Producers int
	Messages  []payload.Payload
}

// LimitOr returns the declared limit or def.
func (c *Channel) LimitOr(def int) int {
	if c.Limit == nil {
		return def
	}
	return *c.Limit
}

type hclFile struct {
	Channels []*hclChannel `hcl:"channel,block"`
}

type hclChannel struct {
	Name      string    `hcl:"name,label"`
	Limit     *int      `hcl:"limit,optional"`
	Notify    bool      `hcl:"notify,optional"`
	Producers *int      `hcl:"producers,optional"`
	Messages  cty.Value `hcl:"messages,optional"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "manifest: failed to read file")
	}
	return Parse(src, path)
}

// Parse parses manifest source. filename is used in diagnostics.
func Parse(src []byte, filename string) (*Manifest, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "manifest: failed to parse %s", filename)
	}
	var parsed hclFile
	if diags = gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return nil, errors.Wrapf(diags, "manifest: failed to decode %s", filename)
	}
	result := &Manifest{Channels: make([]Channel, 0, len(parsed.Channels))}
	seen := make(map[string]bool)
	for _, hc := range parsed.Channels {
		if hc.Name == "" {
			return nil, errors.New("manifest: empty channel name")
		}
		if seen[hc.Name] {
			return nil, errors.Errorf("manifest: channel %q is declared twice", hc.Name)
		}
		seen[hc.Name] = true
		ch, err := channelFromHCL(hc)
		if err != nil {
			return nil, errors.Wrapf(err, "manifest: channel %q", hc.Name)
		}
		result.Channels = append(result.Channels, ch)
	}
	return result, nil
}

func channelFromHCL(hc *hclChannel) (Channel, error) {
	ch := Channel{Name: hc.Name, Limit: hc.Limit, Notify: hc.Notify, Producers: 1}
	if hc.Producers != nil {
		if *hc.Producers < 0 {
			return ch, errors.Errorf("negative producers %d", *hc.Producers)
		}
		ch.Producers = *hc.Producers
	}
	if hc.Messages.IsNull() {
		return ch, nil
	}
	elems, err := elements(hc.Messages)
	if err != nil {
		return ch, errors.Wrap(err, "messages")
	}
	for i, elem := range elems {
		var p payload.Payload
		if elem.Type().IsTupleType() || elem.Type().IsListType() {
			inner, err := elements(elem)
			if err == nil {
				p, err = payloadOf(inner)
			}
			if err != nil {
				return ch, errors.Wrapf(err, "message #%d", i+1)
			}
		} else {
			v, err := valueOf(elem)
			if err != nil {
				return ch, errors.Wrapf(err, "message #%d", i+1)
			}
			p = payload.Payload{v}
		}
		ch.Messages = append(ch.Messages, p)
	}
	return ch, nil
}

func elements(val cty.Value) ([]cty.Value, error) {
	ty := val.Type()
	if !ty.IsTupleType() && !ty.IsListType() {
		return nil, errors.Errorf("must be a list, got %s", ty.FriendlyName())
	}
	if !val.IsKnown() {
		return nil, errors.New("value is not known")
	}
	var result []cty.Value
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		result = append(result, elem)
	}
	return result, nil
}

func payloadOf(vals []cty.Value) (payload.Payload, error) {
	result := make(payload.Payload, 0, len(vals))
	for _, val := range vals {
		v, err := valueOf(val)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// valueOf converts a primitive cty value into a payload value.
// Whole numbers, which fit into int64, become integers.
func valueOf(val cty.Value) (payload.Value, error) {
	if val.IsNull() {
		return payload.Nil(), nil
	}
	if !val.IsKnown() {
		return payload.Value{}, errors.New("value is not known")
	}
	switch ty := val.Type(); {
	case ty.Equals(cty.String):
		return payload.String(val.AsString()), nil
	case ty.Equals(cty.Bool):
		return payload.Bool(val.True()), nil
	case ty.Equals(cty.Number):
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return payload.Int(i), nil
			}
		}
		f, _ := bf.Float64()
		return payload.Float(f), nil
	}
	return payload.Value{}, errors.Errorf("unsupported value type %s", val.Type().FriendlyName())
}
