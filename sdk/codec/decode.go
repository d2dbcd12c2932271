// Package codec converts API responses between their wire form, where
// names, external ids and content are base64 encoded, and a readable form.
package codec

import (
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/utils"
)

const (
	FieldExternalIDs = "external_ids"
	FieldContent     = "content"
	FieldName        = "name"

	SignedChainTag = "SignedChain"
	SignedEntryTag = "SignedEntry"
)

// Positions of the binary elements in the external ids of a signed record.
const (
	signedVersionIndex   = 1
	signedSignatureIndex = 4
)

// DecodeError is returned in strict mode when a field that should be base64
// is not.
type DecodeError struct {
	Field string
	Value string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("field %s: value %q is not valid base64", e.Field, e.Value)
}

type decoder struct {
	strict bool
}

// Option configures DecodeResponse.
type Option func(*decoder)

// Strict makes DecodeResponse fail on the first field that is not valid
// base64 instead of leaving it unchanged.
func Strict() Option {
	return func(d *decoder) { d.strict = true }
}

// DecodeResponse returns a copy of v with every external_ids, content and
// name field decoded from base64, at any depth. Other fields are copied as
// they are. A nil v decodes to an empty Object.
//
// By default a string that is not valid base64 is passed through unchanged.
// Decoded bytes that are not valid UTF-8 are rendered as hex.
func DecodeResponse(v interface{}, opts ...Option) (interface{}, error) {
	d := &decoder{}
	for _, o := range opts {
		o(d)
	}
	if v == nil {
		return Object{}, nil
	}
	return d.visit(v)
}

// DecodeObject is DecodeResponse for callers holding an Object.
func DecodeObject(obj Object, opts ...Option) (Object, error) {
	out, err := DecodeResponse(obj, opts...)
	if err != nil {
		return nil, err
	}
	if o, ok := out.(Object); ok {
		return o, nil
	}
	return Object{}, nil
}

func (d *decoder) visit(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		return d.visitObject(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			dv, err := d.visit(item)
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	default:
		return v, nil
	}
}

func (d *decoder) visitObject(obj map[string]interface{}) (interface{}, error) {
	out := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		var (
			dv  interface{}
			err error
		)
		switch k {
		case FieldExternalIDs:
			dv, err = d.externalIDs(v)
		case FieldContent, FieldName:
			dv, err = d.stringOrList(k, v)
		default:
			dv, err = d.visit(v)
		}
		if err != nil {
			return nil, err
		}
		out[k] = dv
	}
	return out, nil
}

func (d *decoder) stringOrList(field string, v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case string:
		s, _, err := d.decodeString(field, t)
		return s, err
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				out[i] = item
				continue
			}
			ds, _, err := d.decodeString(field, s)
			if err != nil {
				return nil, err
			}
			out[i] = ds
		}
		return out, nil
	default:
		return d.visit(v)
	}
}

func (d *decoder) externalIDs(v interface{}) (interface{}, error) {
	items, ok := v.([]interface{})
	if !ok {
		return d.visit(v)
	}

	raws := make([][]byte, len(items))
	decoded := make([]bool, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		raw, err := utils.B64Decode(s)
		if err != nil {
			if d.strict {
				return nil, &DecodeError{Field: FieldExternalIDs, Value: s}
			}
			continue
		}
		raws[i] = raw
		decoded[i] = true
	}

	signed := len(items) > 0 && decoded[0] && isSignedTag(string(raws[0]))

	out := make([]interface{}, len(items))
	for i, item := range items {
		if !decoded[i] {
			out[i] = item
			continue
		}
		switch {
		case signed && i == signedVersionIndex:
			out[i] = "0x" + hex.EncodeToString(raws[i])
		case signed && i == signedSignatureIndex:
			out[i] = hex.EncodeToString(raws[i])
		case !utf8.Valid(raws[i]):
			out[i] = hex.EncodeToString(raws[i])
		default:
			out[i] = string(raws[i])
		}
	}
	return out, nil
}

// decodeString returns the decoded form of s and whether it was decoded.
func (d *decoder) decodeString(field, s string) (string, bool, error) {
	raw, err := utils.B64Decode(s)
	if err != nil {
		if d.strict {
			return "", false, &DecodeError{Field: field, Value: s}
		}
		return s, false, nil
	}
	if !utf8.Valid(raw) {
		return hex.EncodeToString(raw), true, nil
	}
	return string(raw), true, nil
}

func isSignedTag(s string) bool {
	return s == SignedChainTag || s == SignedEntryTag
}
