package identity

import (
	"context"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/errors"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/idkey"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/logtrace"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/utils"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/log"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/net"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/validate"
)

const keysPath = "keys"

// KeysClient reads and rotates the keys of an identity.
type KeysClient struct {
	dispatcher net.Dispatcher
	logger     log.Logger
}

// ReplaceRequest rotates OldPublicKey to NewPublicKey. The request is signed
// with SignerPrivateKey, which must belong to a key of the same or higher
// priority on the identity.
type ReplaceRequest struct {
	ChainID          string
	OldPublicKey     string
	NewPublicKey     string
	SignerPrivateKey string
	CallbackURL      string
	CallbackStages   []string
}

// ReplacePayload is the body of POST /identities/{id}/keys.
type ReplacePayload struct {
	OldKey         string   `json:"old_key"`
	NewKey         string   `json:"new_key"`
	Signature      string   `json:"signature"`
	SignerKey      string   `json:"signer_key"`
	CallbackURL    string   `json:"callback_url,omitempty"`
	CallbackStages []string `json:"callback_stages,omitempty"`
}

// List returns the keys registered on an identity.
func (k *KeysClient) List(ctx context.Context, chainID string, opts net.ListOptions) (codec.Object, error) {
	if chainID == "" {
		return nil, validate.Required("identity_chain_id")
	}

	var out codec.Object
	if err := k.dispatcher.Get(ctx, net.JoinPath(identitiesPath, chainID, keysPath), opts.Values(), &out); err != nil {
		return nil, errors.Errorf("list identity keys: %w", err)
	}
	return orEmpty(out), nil
}

// Get returns a single key of an identity, including its activation and
// retirement heights.
func (k *KeysClient) Get(ctx context.Context, chainID, publicKey string) (codec.Object, error) {
	if chainID == "" {
		return nil, validate.Required("identity_chain_id")
	}
	if err := validate.PublicKey(publicKey); err != nil {
		return nil, err
	}

	k.logger.Debug(ctx, "Getting identity key", logtrace.FieldChainID, chainID, logtrace.FieldPublicKey, publicKey)

	var out codec.Object
	if err := k.dispatcher.Get(ctx, net.JoinPath(identitiesPath, chainID, keysPath, publicKey), nil, &out); err != nil {
		return nil, errors.Errorf("get identity key: %w", err)
	}
	return orEmpty(out), nil
}

// BuildReplacePayload validates req and signs the rotation.
func BuildReplacePayload(req ReplaceRequest) (*ReplacePayload, error) {
	if req.ChainID == "" {
		return nil, validate.Required("identity_chain_id")
	}
	if err := validate.PublicKey(req.OldPublicKey); err != nil {
		return nil, err
	}
	if err := validate.PublicKey(req.NewPublicKey); err != nil {
		return nil, err
	}
	if err := validate.PrivateKey("signer_private_key", req.SignerPrivateKey); err != nil {
		return nil, err
	}
	if err := validate.Callback(req.CallbackURL, req.CallbackStages); err != nil {
		return nil, err
	}

	signerKey, err := idkey.PublicKeyFromPrivate(req.SignerPrivateKey)
	if err != nil {
		return nil, errors.Errorf("derive signer key: %w", err)
	}
	msg := []byte(req.ChainID + req.OldPublicKey + req.NewPublicKey)
	sig, err := idkey.Sign(req.SignerPrivateKey, msg)
	if err != nil {
		return nil, errors.Errorf("sign key replacement: %w", err)
	}

	p := &ReplacePayload{
		OldKey:    req.OldPublicKey,
		NewKey:    req.NewPublicKey,
		Signature: utils.B64Encode(sig),
		SignerKey: signerKey,
	}
	p.CallbackURL = req.CallbackURL
	if len(req.CallbackStages) > 0 {
		p.CallbackStages = req.CallbackStages
	}
	return p, nil
}

// Replace submits a signed key rotation.
func (k *KeysClient) Replace(ctx context.Context, req ReplaceRequest) (codec.Object, error) {
	payload, err := BuildReplacePayload(req)
	if err != nil {
		return nil, err
	}

	k.logger.Info(ctx, "Replacing identity key",
		logtrace.FieldChainID, req.ChainID,
		"old_key", payload.OldKey,
		"new_key", payload.NewKey,
		"signer_key", payload.SignerKey)

	var out codec.Object
	if err := k.dispatcher.Post(ctx, net.JoinPath(identitiesPath, req.ChainID, keysPath), payload, &out); err != nil {
		return nil, errors.Errorf("replace identity key: %w", err)
	}
	return orEmpty(out), nil
}

func orEmpty(o codec.Object) codec.Object {
	if o == nil {
		return codec.Object{}
	}
	return o
}
