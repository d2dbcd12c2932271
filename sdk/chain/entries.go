package chain

import (
	"context"

	ristretto "github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/errors"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/logtrace"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/log"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/net"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/validate"
)

const (
	entriesPath = "entries"
	firstPath   = "first"
	lastPath    = "last"
)

// EntriesClient calls the entry endpoints of a chain.
type EntriesClient struct {
	dispatcher net.Dispatcher
	validator  *SignatureValidator
	logger     log.Logger
	settings   settings

	// Anchored entries no longer change, so their raw responses are cached
	// by chain id and hash. Pending entries are always fetched again.
	cache *ristretto.Cache[string, codec.Object]
	sf    singleflight.Group
}

func newEntriesClient(d net.Dispatcher, validator *SignatureValidator, logger log.Logger, s settings) (*EntriesClient, error) {
	e := &EntriesClient{
		dispatcher: d,
		validator:  validator,
		logger:     logger,
		settings:   s,
	}
	if s.entryCacheSize > 0 {
		c, err := ristretto.NewCache(&ristretto.Config[string, codec.Object]{
			NumCounters:        s.entryCacheSize * 10,
			MaxCost:            s.entryCacheSize,
			BufferItems:        entryCacheBufferItems,
			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, errors.Errorf("create entry cache: %w", err)
		}
		e.cache = c
	}
	return e, nil
}

// Create writes a new entry to chainID. With signer fields set the entry is
// signed by that identity key.
func (e *EntriesClient) Create(ctx context.Context, chainID string, req WriteRequest) (codec.Object, error) {
	if chainID == "" {
		return nil, validate.Required("chain_id")
	}
	payload, err := BuildWritePayload(codec.SignedEntryTag, req, e.settings.now())
	if err != nil {
		e.logger.Warn(ctx, "Entry request rejected", logtrace.FieldChainID, chainID, logtrace.FieldError, err.Error())
		return nil, err
	}

	var out codec.Object
	if err := e.dispatcher.Post(ctx, net.JoinPath(chainsPath, chainID, entriesPath), payload, &out); err != nil {
		return nil, errors.Errorf("create entry: %w", err)
	}
	out = orEmpty(out)
	e.logger.Info(ctx, "Entry created", logtrace.FieldChainID, chainID, logtrace.FieldEntryHash, out["entry_hash"])
	return out, nil
}

// Get reads one entry and decodes it. With SignatureValidation the result
// is {"entry": <record>, "status": <Status>}.
func (e *EntriesClient) Get(ctx context.Context, chainID, entryHash string, opts GetOptions) (codec.Object, error) {
	if chainID == "" {
		return nil, validate.Required("chain_id")
	}
	if entryHash == "" {
		return nil, validate.Required("entry_hash")
	}

	raw, err := e.fetch(ctx, chainID, entryHash)
	if err != nil {
		return nil, err
	}
	return e.finish(ctx, raw, opts)
}

func (e *EntriesClient) fetch(ctx context.Context, chainID, entryHash string) (codec.Object, error) {
	key := chainID + "/" + entryHash
	if e.cache != nil {
		if v, ok := e.cache.Get(key); ok && v != nil {
			return v, nil
		}
	}

	// The shared fill outlives any single caller's cancellation.
	fillCtx := context.WithoutCancel(ctx)
	res, err, _ := e.sf.Do(key, func() (any, error) {
		if e.cache != nil {
			if v, ok := e.cache.Get(key); ok && v != nil {
				return v, nil
			}
		}

		var raw codec.Object
		if err := e.dispatcher.Get(fillCtx, net.JoinPath(chainsPath, chainID, entriesPath, entryHash), nil, &raw); err != nil {
			return nil, errors.Errorf("get entry %s: %w", entryHash, err)
		}
		raw = orEmpty(raw)
		if _, anchored := recordHeight(dataOf(raw)); anchored && e.cache != nil {
			e.cache.Set(key, raw, entryCacheItemCost)
			e.cache.Wait()
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	raw, _ := res.(codec.Object)
	return raw, nil
}

// First returns the first entry of a chain.
func (e *EntriesClient) First(ctx context.Context, chainID string, opts GetOptions) (codec.Object, error) {
	return e.edge(ctx, chainID, firstPath, opts)
}

// Last returns the most recent entry of a chain.
func (e *EntriesClient) Last(ctx context.Context, chainID string, opts GetOptions) (codec.Object, error) {
	return e.edge(ctx, chainID, lastPath, opts)
}

func (e *EntriesClient) edge(ctx context.Context, chainID, which string, opts GetOptions) (codec.Object, error) {
	if chainID == "" {
		return nil, validate.Required("chain_id")
	}
	var raw codec.Object
	if err := e.dispatcher.Get(ctx, net.JoinPath(chainsPath, chainID, entriesPath, which), nil, &raw); err != nil {
		return nil, errors.Errorf("get %s entry: %w", which, err)
	}
	return e.finish(ctx, orEmpty(raw), opts)
}

// List returns the entries of a chain.
func (e *EntriesClient) List(ctx context.Context, chainID string, opts net.ListOptions) (codec.Object, error) {
	if chainID == "" {
		return nil, validate.Required("chain_id")
	}
	var raw codec.Object
	if err := e.dispatcher.Get(ctx, net.JoinPath(chainsPath, chainID, entriesPath), opts.Values(), &raw); err != nil {
		return nil, errors.Errorf("list entries: %w", err)
	}
	return e.decode(raw)
}

// Search returns entries of a chain whose external ids contain all of
// externalIDs.
func (e *EntriesClient) Search(ctx context.Context, chainID string, externalIDs []string, opts net.ListOptions) (codec.Object, error) {
	if chainID == "" {
		return nil, validate.Required("chain_id")
	}
	if len(externalIDs) == 0 {
		return nil, validate.Required("external_ids")
	}
	var raw codec.Object
	path := withQuery(net.JoinPath(chainsPath, chainID, entriesPath, searchPath), opts)
	if err := e.dispatcher.Post(ctx, path, searchPayload(externalIDs), &raw); err != nil {
		return nil, errors.Errorf("search entries: %w", err)
	}
	return e.decode(raw)
}

func (e *EntriesClient) finish(ctx context.Context, raw codec.Object, opts GetOptions) (codec.Object, error) {
	record, err := e.decode(raw)
	if err != nil {
		return nil, err
	}
	if !opts.SignatureValidation {
		return record, nil
	}
	status, err := e.validator.Validate(ctx, record, codec.SignedEntryTag)
	if err != nil {
		return nil, errors.Errorf("validate entry: %w", err)
	}
	return codec.Object{"entry": record, "status": string(status)}, nil
}

func (e *EntriesClient) decode(raw codec.Object) (codec.Object, error) {
	out, err := codec.DecodeObject(orEmpty(raw), e.settings.decodeOpts...)
	if err != nil {
		return nil, errors.Errorf("decode response: %w", err)
	}
	return out, nil
}
