package identity

import (
	"github.com/harmonyconnect/harmony-sdk-go/pkg/idkey"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/utils"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/validate"
)

// MaxPayloadBytes is the API's ceiling on the encoded size of the names and
// keys of a new identity.
const MaxPayloadBytes = 10240

const (
	sizeBase       = 37
	sizePerName    = 2
	sizePerKey     = 58
	generatedCount = 3
)

// CreateRequest describes a new identity chain.
type CreateRequest struct {
	Name           []string
	Keys           []string
	CallbackURL    string
	CallbackStages []string
}

// CreatePayload is the body of POST /identities.
type CreatePayload struct {
	Name           []string `json:"name"`
	Keys           []string `json:"keys"`
	CallbackURL    string   `json:"callback_url,omitempty"`
	CallbackStages []string `json:"callback_stages,omitempty"`
}

// PayloadSize returns the encoded size the API computes for names and keys.
func PayloadSize(names []string, keyCount int) int {
	size := sizeBase + sizePerName*len(names) + sizePerKey*keyCount
	for _, n := range names {
		size += len(n)
	}
	return size
}

// BuildCreatePayload validates req and returns the wire payload. It performs
// no I/O.
func BuildCreatePayload(req CreateRequest) (*CreatePayload, error) {
	if len(req.Name) == 0 {
		return nil, validate.Required("name")
	}
	if len(req.Keys) == 0 {
		return nil, validate.Required("keys")
	}
	if invalid := idkey.InvalidKeys(req.Keys); len(invalid) > 0 {
		return nil, &validate.InvalidKeyError{Keys: invalid}
	}
	if dups := idkey.DuplicateKeys(req.Keys); len(dups) > 0 {
		return nil, &validate.DuplicateKeyError{Keys: dups}
	}
	if err := validate.Callback(req.CallbackURL, req.CallbackStages); err != nil {
		return nil, err
	}
	if size := PayloadSize(req.Name, len(req.Keys)); size > MaxPayloadBytes {
		return nil, &validate.PayloadTooLargeError{Size: size, Limit: MaxPayloadBytes}
	}

	keys := make([]string, len(req.Keys))
	copy(keys, req.Keys)

	p := &CreatePayload{
		Name: utils.B64EncodeAll(req.Name),
		Keys: keys,
	}
	p.CallbackURL = req.CallbackURL
	if len(req.CallbackStages) > 0 {
		p.CallbackStages = req.CallbackStages
	}
	return p, nil
}
