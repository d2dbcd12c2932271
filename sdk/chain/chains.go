// Package chain reads and writes chains and entries, signing them with an
// identity key and validating those signatures on the way back.
package chain

import (
	"context"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/errors"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/logtrace"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/utils"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/log"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/net"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/validate"
)

const (
	chainsPath = "chains"
	searchPath = "search"
)

// GetOptions controls reads of a single chain or entry.
type GetOptions struct {
	SignatureValidation bool
}

// Client calls the chain endpoints.
type Client struct {
	dispatcher net.Dispatcher
	validator  *SignatureValidator
	logger     log.Logger
	settings   settings
	entries    *EntriesClient
}

// NewClient returns a chain client. keys is used to look up signer keys
// when validating signatures.
func NewClient(d net.Dispatcher, keys KeyFetcher, logger log.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	s := newSettings(opts)
	validator := NewSignatureValidator(keys, s.keyCacheTTL, logger)

	entries, err := newEntriesClient(d, validator, logger, s)
	if err != nil {
		return nil, err
	}
	return &Client{
		dispatcher: d,
		validator:  validator,
		logger:     logger,
		settings:   s,
		entries:    entries,
	}, nil
}

// Entries returns the client for entries.
func (c *Client) Entries() *EntriesClient {
	return c.entries
}

// Create writes a new chain. With signer fields set the chain is signed by
// that identity key.
func (c *Client) Create(ctx context.Context, req WriteRequest) (codec.Object, error) {
	payload, err := BuildWritePayload(codec.SignedChainTag, req, c.settings.now())
	if err != nil {
		c.logger.Warn(ctx, "Chain request rejected", logtrace.FieldError, err.Error())
		return nil, err
	}

	c.logger.Debug(ctx, "Creating chain", "signed", req.Signed(), "external_ids", len(payload.ExternalIDs))

	var out codec.Object
	if err := c.dispatcher.Post(ctx, net.JoinPath(chainsPath), payload, &out); err != nil {
		return nil, errors.Errorf("create chain: %w", err)
	}
	out = orEmpty(out)
	c.logger.Info(ctx, "Chain created", logtrace.FieldChainID, out["chain_id"])
	return out, nil
}

// Get reads a chain and decodes it. With SignatureValidation the result is
// {"chain": <record>, "status": <Status>}.
func (c *Client) Get(ctx context.Context, chainID string, opts GetOptions) (codec.Object, error) {
	if chainID == "" {
		return nil, validate.Required("chain_id")
	}

	var raw codec.Object
	if err := c.dispatcher.Get(ctx, net.JoinPath(chainsPath, chainID), nil, &raw); err != nil {
		return nil, errors.Errorf("get chain %s: %w", chainID, err)
	}
	record, err := codec.DecodeObject(raw, c.settings.decodeOpts...)
	if err != nil {
		return nil, errors.Errorf("decode chain %s: %w", chainID, err)
	}
	if !opts.SignatureValidation {
		return record, nil
	}

	status, err := c.validator.Validate(ctx, record, codec.SignedChainTag)
	if err != nil {
		return nil, errors.Errorf("validate chain %s: %w", chainID, err)
	}
	c.logger.Debug(ctx, "Chain signature checked", logtrace.FieldChainID, chainID, logtrace.FieldStatus, string(status))
	return codec.Object{"chain": record, "status": string(status)}, nil
}

// List returns chains, newest first.
func (c *Client) List(ctx context.Context, opts net.ListOptions) (codec.Object, error) {
	var raw codec.Object
	if err := c.dispatcher.Get(ctx, net.JoinPath(chainsPath), opts.Values(), &raw); err != nil {
		return nil, errors.Errorf("list chains: %w", err)
	}
	return c.decode(raw)
}

// Search returns chains whose external ids contain all of externalIDs.
func (c *Client) Search(ctx context.Context, externalIDs []string, opts net.ListOptions) (codec.Object, error) {
	if len(externalIDs) == 0 {
		return nil, validate.Required("external_ids")
	}

	var raw codec.Object
	path := withQuery(net.JoinPath(chainsPath, searchPath), opts)
	if err := c.dispatcher.Post(ctx, path, searchPayload(externalIDs), &raw); err != nil {
		return nil, errors.Errorf("search chains: %w", err)
	}
	return c.decode(raw)
}

func (c *Client) decode(raw codec.Object) (codec.Object, error) {
	out, err := codec.DecodeObject(orEmpty(raw), c.settings.decodeOpts...)
	if err != nil {
		return nil, errors.Errorf("decode response: %w", err)
	}
	return out, nil
}

type searchBody struct {
	ExternalIDs []string `json:"external_ids"`
}

func searchPayload(externalIDs []string) searchBody {
	return searchBody{ExternalIDs: utils.B64EncodeAll(externalIDs)}
}

func withQuery(path string, opts net.ListOptions) string {
	if q := opts.Values(); len(q) > 0 {
		return path + "?" + q.Encode()
	}
	return path
}

func orEmpty(o codec.Object) codec.Object {
	if o == nil {
		return codec.Object{}
	}
	return o
}
