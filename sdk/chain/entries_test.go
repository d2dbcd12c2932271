package chain

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/idkey"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/net"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/validate"
)

func TestEntryCreate(t *testing.T) {
	kp, err := idkey.GenerateKeyPair()
	require.NoError(t, err)

	c, d := newTestClient(t, &fakeKeys{})
	d.EXPECT().
		Post(gomock.Any(), "/chains/c1/entries", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body any, out any) error {
			p := body.(*WritePayload)
			assert.Equal(t, "U2lnbmVkRW50cnk=", p.ExternalIDs[0])
			*out.(*codec.Object) = codec.Object{"entry_hash": "e1"}
			return nil
		})

	out, err := c.Entries().Create(context.Background(), "c1", WriteRequest{
		Content:          `{"document_hash":"abc"}`,
		ExternalIDs:      []string{"DocumentEntry"},
		SignerChainID:    signerChainID,
		SignerPrivateKey: kp.PrivateKey,
	})
	require.NoError(t, err)
	assert.Equal(t, "e1", out["entry_hash"])
}

func TestEntryCreateRequiresChain(t *testing.T) {
	c, _ := newTestClient(t, &fakeKeys{})
	_, err := c.Entries().Create(context.Background(), "", WriteRequest{Content: "x"})
	var ve *validate.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "chain_id", ve.Field)
}

func TestEntryGetIsCached(t *testing.T) {
	kp, err := idkey.GenerateKeyPair()
	require.NoError(t, err)

	keys := &fakeKeys{keys: map[string]codec.Object{kp.PublicKey: {"activated_height": number("1")}}}
	c, d := newTestClient(t, keys)
	d.EXPECT().
		Get(gomock.Any(), "/chains/c1/entries/e1", url.Values(nil), gomock.Any()).
		DoAndReturn(respondGet(signedRecord(t, codec.SignedEntryTag, kp, "doc", number("10")))).
		Times(1)

	plain, err := c.Entries().Get(context.Background(), "c1", "e1", GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "doc", plain["data"].(codec.Object)["content"])

	validated, err := c.Entries().Get(context.Background(), "c1", "e1", GetOptions{SignatureValidation: true})
	require.NoError(t, err)
	assert.Equal(t, string(StatusValidSignature), validated["status"])
	assert.Equal(t, plain, validated["entry"])
}

func TestEntryGetRefetchesUntilAnchored(t *testing.T) {
	kp, err := idkey.GenerateKeyPair()
	require.NoError(t, err)

	keys := &fakeKeys{keys: map[string]codec.Object{kp.PublicKey: {"activated_height": number("1")}}}
	c, d := newTestClient(t, keys)
	gomock.InOrder(
		d.EXPECT().
			Get(gomock.Any(), "/chains/c1/entries/e1", url.Values(nil), gomock.Any()).
			DoAndReturn(respondGet(signedRecord(t, codec.SignedEntryTag, kp, "doc", nil))),
		d.EXPECT().
			Get(gomock.Any(), "/chains/c1/entries/e1", url.Values(nil), gomock.Any()).
			DoAndReturn(respondGet(signedRecord(t, codec.SignedEntryTag, kp, "doc", number("10")))).
			Times(1),
	)

	pending, err := c.Entries().Get(context.Background(), "c1", "e1", GetOptions{})
	require.NoError(t, err)
	assert.NotContains(t, pending["data"], "dblock")

	anchored, err := c.Entries().Get(context.Background(), "c1", "e1", GetOptions{SignatureValidation: true})
	require.NoError(t, err)
	assert.Equal(t, string(StatusValidSignature), anchored["status"])
	assert.Contains(t, anchored["entry"].(codec.Object)["data"], "dblock")

	// Served from the cache from now on.
	again, err := c.Entries().Get(context.Background(), "c1", "e1", GetOptions{SignatureValidation: true})
	require.NoError(t, err)
	assert.Equal(t, anchored, again)
}

func TestEntryGetIgnoresCallerCancellation(t *testing.T) {
	c, d := newTestClient(t, &fakeKeys{})
	d.EXPECT().
		Get(gomock.Any(), "/chains/c1/entries/e1", url.Values(nil), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ url.Values, out any) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			*out.(*codec.Object) = codec.Object{"data": codec.Object{"entry_hash": "e1"}}
			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := c.Entries().Get(ctx, "c1", "e1", GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "e1", out["data"].(codec.Object)["entry_hash"])
}

func TestEntryGetConcurrentWithoutCache(t *testing.T) {
	c, d := newTestClient(t, &fakeKeys{}, WithEntryCacheSize(0))
	d.EXPECT().
		Get(gomock.Any(), "/chains/c1/entries/e1", gomock.Any(), gomock.Any()).
		DoAndReturn(respondGet(codec.Object{"data": codec.Object{"entry_hash": "e1"}})).
		MinTimes(1)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := c.Entries().Get(context.Background(), "c1", "e1", GetOptions{})
			assert.NoError(t, err)
			assert.Equal(t, "e1", out["data"].(codec.Object)["entry_hash"])
		}()
	}
	wg.Wait()
}

func TestEntryFirstAndLast(t *testing.T) {
	c, d := newTestClient(t, &fakeKeys{})
	d.EXPECT().
		Get(gomock.Any(), "/chains/c1/entries/first", url.Values(nil), gomock.Any()).
		DoAndReturn(respondGet(codec.Object{"data": codec.Object{"entry_hash": "e0", "content": "Zmlyc3Q="}}))
	d.EXPECT().
		Get(gomock.Any(), "/chains/c1/entries/last", url.Values(nil), gomock.Any()).
		DoAndReturn(respondGet(codec.Object{"data": codec.Object{"entry_hash": "e9", "content": "bGFzdA=="}}))

	first, err := c.Entries().First(context.Background(), "c1", GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "first", first["data"].(codec.Object)["content"])

	last, err := c.Entries().Last(context.Background(), "c1", GetOptions{SignatureValidation: true})
	require.NoError(t, err)
	assert.Equal(t, string(StatusNotSignedEntry), last["status"])
}

func TestEntrySearchAndList(t *testing.T) {
	c, d := newTestClient(t, &fakeKeys{})
	d.EXPECT().
		Post(gomock.Any(), "/chains/c1/entries/search", searchBody{ExternalIDs: []string{"ZG9jOTg3"}}, gomock.Any()).
		DoAndReturn(respondPost(codec.Object{"data": []interface{}{codec.Object{"entry_hash": "e1"}}}))
	d.EXPECT().
		Get(gomock.Any(), "/chains/c1/entries", url.Values{"limit": {"10"}, "offset": {"20"}}, gomock.Any()).
		DoAndReturn(respondGet(codec.Object{"data": []interface{}{}, "offset": number("20")}))

	found, err := c.Entries().Search(context.Background(), "c1", []string{"doc987"}, net.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, found["data"], 1)

	listed, err := c.Entries().List(context.Background(), "c1", net.ListOptions{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, number("20"), listed["offset"])
}
