package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/utils"
)

const sampleChainID = "171e5851451ce6f2d9730c1537da4375feb442870d835c54a1bca8ffa7e2bda7"

func encodedRecord() map[string]interface{} {
	return map[string]interface{}{
		"version":        1,
		"stage":          "anchored",
		"created_height": 118460,
		"chain_id":       sampleChainID,
		"all_keys_href":  "/v1/identities/<chain_id>/keys",
		"external_ids": []interface{}{
			"U2lnbmVkRW50cnk=",
			"AQ==",
			"MTcxZTU4NTE0NTFjZTZmMmQ5NzMwYzE1MzdkYTQzNzVmZWI0NDI4NzBkODM1YzU0YTFiY2E4ZmZhN2UyYmRhNw==",
			"aWRwdWIzTmVnR01LbjJDRGN4M0E5Smtwb01tMmpFOUt4Y2h4cUhUbVhQdkpubVVKR2l6ZnJiNw==",
			"d5Ip0jzbc4CGnmPlFWpUlxcLzuwTmzfnrypNGq4U0FPRn3Ym4I1LuwA9SwXZQfQ0AvEoivL/A5Gi3uSr8JGbBw==",
			"MjAxOS0wMS0xOFQxNDoxNzo1MFo=",
		},
	}
}

func decodedRecord() map[string]interface{} {
	return map[string]interface{}{
		"version":        1,
		"stage":          "anchored",
		"created_height": 118460,
		"chain_id":       sampleChainID,
		"all_keys_href":  "/v1/identities/<chain_id>/keys",
		"external_ids": []interface{}{
			"SignedEntry",
			"0x01",
			sampleChainID,
			"idpub3NegGMKn2CDcx3A9JkpoMm2jE9KxchxqHTmXPvJnmUJGizfrb7",
			"779229d23cdb7380869e63e5156a5497170bceec139b37e7af2a4d1aae14d053d19f7626e08d4bbb003d4b05d941f43402f1288af2ff0391a2dee4abf0919b07",
			"2019-01-18T14:17:50Z",
		},
	}
}

func TestDecodeResponseEmpty(t *testing.T) {
	got, err := DecodeResponse(nil)
	require.NoError(t, err)
	assert.Equal(t, Object{}, got)
}

func TestDecodeResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]interface{}
		want map[string]interface{}
	}{
		{
			name: "data is array",
			in: map[string]interface{}{
				"data":   []interface{}{encodedRecord()},
				"offset": 0, "limit": 15, "count": 1,
			},
			want: map[string]interface{}{
				"data":   []interface{}{decodedRecord()},
				"offset": 0, "limit": 15, "count": 1,
			},
		},
		{
			name: "data is object",
			in:   map[string]interface{}{"data": encodedRecord()},
			want: map[string]interface{}{"data": decodedRecord()},
		},
		{
			name: "name field",
			in: map[string]interface{}{"data": map[string]interface{}{
				"chain_id": sampleChainID,
				"name":     "RU1QTE9ZRUU=",
			}},
			want: map[string]interface{}{"data": map[string]interface{}{
				"chain_id": sampleChainID,
				"name":     "EMPLOYEE",
			}},
		},
		{
			name: "name list and content",
			in: map[string]interface{}{"data": map[string]interface{}{
				"name":    []interface{}{"Tm90YXJ5U2ltdWxhdGlvbg==", "MjAyNC0wMS0wMQ=="},
				"content": "eyJhIjoxfQ==",
			}},
			want: map[string]interface{}{"data": map[string]interface{}{
				"name":    []interface{}{"NotarySimulation", "2024-01-01"},
				"content": `{"a":1}`,
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeResponse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeResponseDoesNotMutateInput(t *testing.T) {
	in := map[string]interface{}{"data": encodedRecord()}
	_, err := DecodeResponse(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"data": encodedRecord()}, in)
}

func TestDecodeResponseUnsignedExternalIDs(t *testing.T) {
	in := map[string]interface{}{"external_ids": []interface{}{"Tm90YXJ5U2ltdWxhdGlvbg==", "AQ==", "Y3VzdDEyMw=="}}
	got, err := DecodeObject(in)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"NotarySimulation", "\x01", "cust123"}, got["external_ids"])
}

func TestDecodeResponsePassThrough(t *testing.T) {
	in := map[string]interface{}{"data": map[string]interface{}{
		"external_ids": []interface{}{"not base64!", "Y3VzdDEyMw=="},
		"content":      "{not base64}",
	}}
	got, err := DecodeResponse(in)
	require.NoError(t, err)

	data := got.(Object)["data"].(Object)
	assert.Equal(t, []interface{}{"not base64!", "cust123"}, data["external_ids"])
	assert.Equal(t, "{not base64}", data["content"])
}

func TestDecodeResponseStrict(t *testing.T) {
	in := map[string]interface{}{"data": []interface{}{map[string]interface{}{
		"external_ids": []interface{}{"Y3VzdDEyMw==", "not base64!"},
	}}}
	_, err := DecodeResponse(in, Strict())

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, FieldExternalIDs, de.Field)
	assert.Equal(t, "not base64!", de.Value)

	_, err = DecodeResponse(map[string]interface{}{"name": "%%%"}, Strict())
	require.True(t, errors.As(err, &de))
	assert.Equal(t, FieldName, de.Field)
}

func TestDecodeRoundTripPrintableASCII(t *testing.T) {
	var all []byte
	for c := byte(0x20); c < 0x7f; c++ {
		all = append(all, c)
	}
	for _, s := range []string{"NotarySimulation", "2024-01-01T00:00:00", string(all)} {
		in := map[string]interface{}{"name": []interface{}{utils.B64EncodeString(s)}}
		got, err := DecodeObject(in, Strict())
		require.NoError(t, err)
		assert.Equal(t, []interface{}{s}, got["name"])
	}
}
