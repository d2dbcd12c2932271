// Package harmony is the entry point of the SDK. A Client wires one
// dispatcher into the identity, chain and entry clients.
package harmony

import (
	"context"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/errors"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/idkey"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/chain"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/config"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/identity"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/log"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/net"
)

// Client bundles the SDK clients for one API account.
type Client struct {
	config     config.Config
	dispatcher net.Dispatcher
	logger     log.Logger
	identities *identity.Client
	chains     *chain.Client
}

type options struct {
	logger       log.Logger
	dispatcher   net.Dispatcher
	netOptions   []net.Option
	chainOptions []chain.Option
}

// Option configures NewClient.
type Option func(*options)

// WithLogger sets the logger shared by all clients.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDispatcher replaces the HTTP dispatcher, typically with a mock.
func WithDispatcher(d net.Dispatcher) Option {
	return func(o *options) { o.dispatcher = d }
}

// WithNetOptions passes options to the HTTP dispatcher.
func WithNetOptions(opts ...net.Option) Option {
	return func(o *options) { o.netOptions = append(o.netOptions, opts...) }
}

// WithChainOptions passes options to the chain and entry clients.
func WithChainOptions(opts ...chain.Option) Option {
	return func(o *options) { o.chainOptions = append(o.chainOptions, opts...) }
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg config.Config, opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid config: %w", err)
	}

	d := o.dispatcher
	if d == nil {
		hd, err := net.NewDispatcher(cfg, o.logger, o.netOptions...)
		if err != nil {
			return nil, err
		}
		d = hd
	}

	identities := identity.NewClient(d, o.logger)
	chains, err := chain.NewClient(d, identities.Keys(), o.logger, o.chainOptions...)
	if err != nil {
		return nil, errors.Errorf("failed to create chain client: %w", err)
	}

	return &Client{
		config:     cfg,
		dispatcher: d,
		logger:     o.logger,
		identities: identities,
		chains:     chains,
	}, nil
}

// Identities returns the identity client.
func (c *Client) Identities() *identity.Client { return c.identities }

// Chains returns the chain client.
func (c *Client) Chains() *chain.Client { return c.chains }

// Entries returns the entry client.
func (c *Client) Entries() *chain.EntriesClient { return c.chains.Entries() }

// Config returns the configuration the client was built with.
func (c *Client) Config() config.Config { return c.config }

// APIInfo returns the API version and links.
func (c *Client) APIInfo(ctx context.Context) (codec.Object, error) {
	var out codec.Object
	if err := c.dispatcher.Get(ctx, "/", nil, &out); err != nil {
		return nil, errors.Errorf("get api info: %w", err)
	}
	if out == nil {
		out = codec.Object{}
	}
	return out, nil
}

// GenerateKeyPair returns a new identity key pair. The private key never
// leaves the process.
func (c *Client) GenerateKeyPair() (idkey.KeyPair, error) {
	return idkey.GenerateKeyPair()
}
