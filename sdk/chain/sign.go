package chain

import (
	"time"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/errors"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/idkey"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/utils"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/validate"
)

// TimestampLayout is the format of the timestamp external id of signed
// records: RFC 3339 in UTC with microseconds.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// SchemaVersion is the second external id of every signed record.
const SchemaVersion byte = 0x01

// MaxEntryBytes is the ceiling on the raw size of the external ids and
// content of one chain or entry.
const MaxEntryBytes = 10240

// WriteRequest is the common shape of a new chain or entry. When both
// signer fields are set, signing external ids are prepended.
type WriteRequest struct {
	Content          string
	ExternalIDs      []string
	SignerChainID    string
	SignerPrivateKey string
	CallbackURL      string
	CallbackStages   []string
}

// WritePayload is the body of POST /chains and POST /chains/{id}/entries.
type WritePayload struct {
	ExternalIDs    []string `json:"external_ids,omitempty"`
	Content        string   `json:"content,omitempty"`
	CallbackURL    string   `json:"callback_url,omitempty"`
	CallbackStages []string `json:"callback_stages,omitempty"`
}

// Signed reports whether the request asks for a signature.
func (r WriteRequest) Signed() bool {
	return r.SignerChainID != "" || r.SignerPrivateKey != ""
}

// EntrySize is the raw size of a record's external ids and content.
func EntrySize(externalIDs [][]byte, content string) int {
	size := len(content)
	for _, id := range externalIDs {
		size += len(id) + 2
	}
	return size
}

// SignatureMessage is what the signer's key signs for a record.
func SignatureMessage(signerChainID, content, timestamp string) []byte {
	return []byte(signerChainID + content + timestamp)
}

// BuildWritePayload validates req and returns the base64 encoded payload.
// tag is codec.SignedChainTag or codec.SignedEntryTag.
func BuildWritePayload(tag string, req WriteRequest, now time.Time) (*WritePayload, error) {
	if req.Signed() {
		if req.SignerChainID == "" {
			return nil, &validate.ValidationError{Field: "signer_chain_id", Reason: "is required when signer_private_key is set"}
		}
		if err := validate.PrivateKey("signer_private_key", req.SignerPrivateKey); err != nil {
			return nil, err
		}
	} else if tag == codec.SignedChainTag && len(req.ExternalIDs) == 0 {
		return nil, &validate.ValidationError{Field: "external_ids", Reason: "is required when the chain is not signed"}
	} else if len(req.ExternalIDs) == 0 && req.Content == "" {
		return nil, &validate.ValidationError{Field: "content", Reason: "or external_ids is required when the entry is not signed"}
	}
	if err := validate.Callback(req.CallbackURL, req.CallbackStages); err != nil {
		return nil, err
	}

	raw := make([][]byte, 0, len(req.ExternalIDs)+6)
	if req.Signed() {
		signing, err := signingExternalIDs(tag, req.SignerChainID, req.SignerPrivateKey, req.Content, now)
		if err != nil {
			return nil, err
		}
		raw = append(raw, signing...)
	}
	for _, id := range req.ExternalIDs {
		raw = append(raw, []byte(id))
	}

	if size := EntrySize(raw, req.Content); size > MaxEntryBytes {
		return nil, &validate.PayloadTooLargeError{Size: size, Limit: MaxEntryBytes}
	}

	p := &WritePayload{
		ExternalIDs: make([]string, len(raw)),
		Content:     utils.B64EncodeString(req.Content),
	}
	for i, id := range raw {
		p.ExternalIDs[i] = utils.B64Encode(id)
	}
	p.CallbackURL = req.CallbackURL
	if len(req.CallbackStages) > 0 {
		p.CallbackStages = req.CallbackStages
	}
	return p, nil
}

func signingExternalIDs(tag, signerChainID, signerPrivateKey, content string, now time.Time) ([][]byte, error) {
	signerKey, err := idkey.PublicKeyFromPrivate(signerPrivateKey)
	if err != nil {
		return nil, errors.Errorf("derive signer key: %w", err)
	}
	timestamp := now.UTC().Format(TimestampLayout)
	sig, err := idkey.Sign(signerPrivateKey, SignatureMessage(signerChainID, content, timestamp))
	if err != nil {
		return nil, errors.Errorf("sign %s: %w", tag, err)
	}
	return [][]byte{
		[]byte(tag),
		{SchemaVersion},
		[]byte(signerChainID),
		[]byte(signerKey),
		sig,
		[]byte(timestamp),
	}, nil
}
