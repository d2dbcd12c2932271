// Package identity manages identity chains and the public keys registered
// on them.
package identity

import (
	"context"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/errors"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/idkey"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/logtrace"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/log"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/net"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/validate"
)

const identitiesPath = "identities"

// Client calls the identity endpoints.
type Client struct {
	dispatcher net.Dispatcher
	logger     log.Logger
	keys       *KeysClient
}

// NewClient returns an identity client sending requests through d.
func NewClient(d net.Dispatcher, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Client{
		dispatcher: d,
		logger:     logger,
		keys:       &KeysClient{dispatcher: d, logger: logger},
	}
}

// Keys returns the client for the keys of existing identities.
func (c *Client) Keys() *KeysClient {
	return c.keys
}

// Create validates req and submits it. Nothing is sent when validation fails.
func (c *Client) Create(ctx context.Context, req CreateRequest) (codec.Object, error) {
	payload, err := BuildCreatePayload(req)
	if err != nil {
		c.logger.Warn(ctx, "Identity request rejected", logtrace.FieldError, err.Error())
		return nil, err
	}

	c.logger.Debug(ctx, "Creating identity",
		"names", len(payload.Name),
		"keys", len(payload.Keys),
		logtrace.FieldPayloadBytes, PayloadSize(req.Name, len(req.Keys)))

	var out codec.Object
	if err := c.dispatcher.Post(ctx, net.JoinPath(identitiesPath), payload, &out); err != nil {
		return nil, errors.Errorf("create identity: %w", err)
	}
	out = orEmpty(out)

	c.logger.Info(ctx, "Identity created", logtrace.FieldChainID, out["chain_id"])
	return out, nil
}

// CreateWithGeneratedKeys creates an identity with freshly generated key
// pairs when req.Keys is empty. The generated pairs are returned under
// "key_pairs" in the result; they exist nowhere else.
func (c *Client) CreateWithGeneratedKeys(ctx context.Context, req CreateRequest) (codec.Object, error) {
	if len(req.Keys) > 0 {
		return c.Create(ctx, req)
	}

	pairs, err := idkey.GenerateKeyPairs(generatedCount)
	if err != nil {
		return nil, errors.Errorf("generate key pairs: %w", err)
	}
	req.Keys = make([]string, len(pairs))
	for i, kp := range pairs {
		req.Keys[i] = kp.PublicKey
	}

	out, err := c.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	out["key_pairs"] = pairs
	return out, nil
}

// Get returns the identity record stored under chainID as the API sent it.
func (c *Client) Get(ctx context.Context, chainID string) (codec.Object, error) {
	if chainID == "" {
		return nil, validate.Required("chain_id")
	}

	c.logger.Debug(ctx, "Getting identity", logtrace.FieldChainID, chainID)

	var out codec.Object
	if err := c.dispatcher.Get(ctx, net.JoinPath(identitiesPath, chainID), nil, &out); err != nil {
		return nil, errors.Errorf("get identity %s: %w", chainID, err)
	}
	return orEmpty(out), nil
}
