package chain

import (
	"context"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/errors"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/idkey"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/logtrace"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/log"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/net"
)

// Status is the outcome of validating the signature of a chain or entry.
type Status string

const (
	StatusNotSignedChain   Status = "not_signed/invalid_chain_format"
	StatusNotSignedEntry   Status = "not_signed/invalid_entry_format"
	StatusKeyNotFound      Status = "key_not_found"
	StatusInactiveKey      Status = "inactive_key"
	StatusRetiredKey       Status = "retired_key"
	StatusInvalidSignature Status = "invalid_signature"
	StatusValidSignature   Status = "valid_signature"
)

// DefaultKeyCacheTTL bounds how long a fetched identity key is reused.
const DefaultKeyCacheTTL = time.Minute

// KeyFetcher looks up a key registered on an identity.
type KeyFetcher interface {
	Get(ctx context.Context, chainID, publicKey string) (codec.Object, error)
}

// SignatureValidator checks signed records against the signer's identity.
type SignatureValidator struct {
	keys   KeyFetcher
	cache  *gocache.Cache
	logger log.Logger
}

// NewSignatureValidator returns a validator that caches key lookups for ttl.
func NewSignatureValidator(keys KeyFetcher, ttl time.Duration, logger log.Logger) *SignatureValidator {
	if ttl <= 0 {
		ttl = DefaultKeyCacheTTL
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &SignatureValidator{
		keys:   keys,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

type signedFields struct {
	signerChainID string
	publicKey     string
	signature     []byte
	timestamp     string
}

func parseSigned(tag string, externalIDs []string) (signedFields, bool) {
	if len(externalIDs) < 6 || externalIDs[0] != tag || externalIDs[1] != "0x01" {
		return signedFields{}, false
	}
	sig, err := hex.DecodeString(externalIDs[4])
	if err != nil {
		return signedFields{}, false
	}
	if idkey.ValidatePublicKey(externalIDs[3]) != nil {
		return signedFields{}, false
	}
	return signedFields{
		signerChainID: externalIDs[2],
		publicKey:     externalIDs[3],
		signature:     sig,
		timestamp:     externalIDs[5],
	}, true
}

// Validate checks a decoded chain or entry response. tag selects the
// expected record type. Only failures to reach the API are returned as
// errors; every property of the record itself is reported as a Status.
func (v *SignatureValidator) Validate(ctx context.Context, record codec.Object, tag string) (Status, error) {
	notSigned := StatusNotSignedEntry
	if tag == codec.SignedChainTag {
		notSigned = StatusNotSignedChain
	}

	data := dataOf(record)
	fields, ok := parseSigned(tag, stringList(data[codec.FieldExternalIDs]))
	if !ok {
		return notSigned, nil
	}

	key, err := v.key(ctx, fields.signerChainID, fields.publicKey)
	if err != nil {
		if net.IsNotFound(err) {
			return StatusKeyNotFound, nil
		}
		return "", err
	}

	// Unanchored records have no height yet; only the signature is checked.
	if height, anchored := recordHeight(data); anchored {
		if activated, ok := heightOf(key["activated_height"]); ok && activated > height {
			return StatusInactiveKey, nil
		}
		if retired, ok := heightOf(key["retired_height"]); ok && retired <= height {
			return StatusRetiredKey, nil
		}
	}

	msg := SignatureMessage(fields.signerChainID, stringOf(data[codec.FieldContent]), fields.timestamp)
	valid, err := idkey.Verify(fields.publicKey, msg, fields.signature)
	if err != nil || !valid {
		v.logger.Debug(ctx, "Signature mismatch", logtrace.FieldChainID, fields.signerChainID, logtrace.FieldPublicKey, fields.publicKey)
		return StatusInvalidSignature, nil
	}
	return StatusValidSignature, nil
}

func (v *SignatureValidator) key(ctx context.Context, chainID, publicKey string) (codec.Object, error) {
	cacheKey := chainID + "|" + publicKey
	if cached, ok := v.cache.Get(cacheKey); ok {
		return cached.(codec.Object), nil
	}

	resp, err := v.keys.Get(ctx, chainID, publicKey)
	if err != nil {
		return nil, errors.Errorf("get signer key: %w", err)
	}
	key := dataOf(resp)
	v.cache.SetDefault(cacheKey, key)
	return key, nil
}
