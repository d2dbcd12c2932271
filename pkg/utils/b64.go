package utils

import (
	"encoding/base64"
)

// B64EncodeString base64-encodes s with the standard padded alphabet, the
// form the ledger API expects for names, external ids and content.
func B64EncodeString(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// B64Encode base64-encodes raw bytes.
func B64Encode(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// B64EncodeAll encodes every element of in, preserving order.
func B64EncodeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = B64EncodeString(s)
	}
	return out
}

// B64Decode decodes a standard padded base64 string.
func B64Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// B64DecodeString decodes s and returns the result as a string.
func B64DecodeString(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
