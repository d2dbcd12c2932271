package chain

import (
	"context"
	"encoding/json"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/idkey"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/net"
)

const signerChainID = "171e5851451ce6f2d9730c1537da4375feb442870d835c54a1bca8ffa7e2bda7"

var fixedNow = time.Date(2019, 3, 4, 5, 6, 7, 123456000, time.UTC)

func fixedClock() time.Time { return fixedNow }

// fakeKeys serves identity keys from a map keyed by public key.
type fakeKeys struct {
	keys  map[string]codec.Object
	err   error
	calls int32
}

func (f *fakeKeys) Get(_ context.Context, _ string, publicKey string) (codec.Object, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	k, ok := f.keys[publicKey]
	if !ok {
		return nil, &net.RemoteError{Method: "GET", Path: "/identities/x/keys/" + publicKey, StatusCode: 404}
	}
	return codec.Object{"data": k}, nil
}

// signedRecord returns a raw (base64) API response for a record signed by kp.
func signedRecord(t *testing.T, tag string, kp idkey.KeyPair, content string, height interface{}) codec.Object {
	t.Helper()
	p, err := BuildWritePayload(tag, WriteRequest{
		Content:          content,
		ExternalIDs:      []string{"NotarySimulation", "cust123"},
		SignerChainID:    signerChainID,
		SignerPrivateKey: kp.PrivateKey,
	}, fixedNow)
	require.NoError(t, err)

	ids := make([]interface{}, len(p.ExternalIDs))
	for i, id := range p.ExternalIDs {
		ids[i] = id
	}
	data := codec.Object{
		"chain_id":     "c1",
		"entry_hash":   "e1",
		"external_ids": ids,
		"content":      p.Content,
	}
	if height != nil {
		data["dblock"] = codec.Object{"height": height}
	}
	return codec.Object{"data": data}
}

func number(n string) json.Number { return json.Number(n) }

func respondGet(obj codec.Object) func(context.Context, string, url.Values, any) error {
	return func(_ context.Context, _ string, _ url.Values, out any) error {
		*out.(*codec.Object) = obj
		return nil
	}
}

func respondPost(obj codec.Object) func(context.Context, string, any, any) error {
	return func(_ context.Context, _ string, _ any, out any) error {
		*out.(*codec.Object) = obj
		return nil
	}
}
