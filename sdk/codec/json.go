package codec

import (
	jsoniter "github.com/json-iterator/go"
)

// JSON is the codec used for every request and response body. Numbers are
// kept as json.Number so heights and counts survive a decode/encode cycle
// untouched.
var JSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Object is a decoded JSON object.
type Object = map[string]interface{}
