package chain

import (
	"encoding/json"
	"strconv"

	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
)

// dataOf returns the "data" member of a response, or the response itself
// when it has none.
func dataOf(o codec.Object) codec.Object {
	if d, ok := o["data"].(map[string]interface{}); ok {
		return d
	}
	return o
}

func stringOf(v interface{}) string {
	s, _ := v.(string)
	return s
}

func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}

// heightOf reads a block height. Responses are decoded with UseNumber, but
// values built in code may carry plain Go numbers.
func heightOf(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		h, err := n.Int64()
		return h, err == nil
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		h, err := strconv.ParseInt(n, 10, 64)
		return h, err == nil
	default:
		return 0, false
	}
}

// recordHeight is the directory block height a chain or entry was anchored
// in, if any.
func recordHeight(data codec.Object) (int64, bool) {
	dblock, ok := data["dblock"].(map[string]interface{})
	if !ok {
		return 0, false
	}
	return heightOf(dblock["height"])
}
