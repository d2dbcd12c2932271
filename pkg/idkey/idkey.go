package idkey

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/errors"
)

const (
	PublicPrefix  = "idpub"
	PrivatePrefix = "idsec"

	// KeyStringLength is the length of every encoded key string.
	KeyStringLength = 55

	prefixLen   = 5
	keyLen      = 32
	checksumLen = 4
	rawLen      = prefixLen + keyLen + checksumLen
)

var (
	publicPrefixBytes  = []byte{0x03, 0x45, 0xef, 0x9d, 0xe0}
	privatePrefixBytes = []byte{0x03, 0x45, 0xf3, 0xd0, 0xd6}
)

var (
	ErrInvalidPrefix   = errors.New("invalid key prefix")
	ErrInvalidLength   = errors.New("invalid key length")
	ErrInvalidEncoding = errors.New("invalid base58 encoding")
	ErrInvalidChecksum = errors.New("invalid key checksum")
)

// KeyPair is a public/private key string pair.
type KeyPair struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

func checksum(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:checksumLen]
}

func encode(prefix, key []byte) string {
	raw := make([]byte, 0, rawLen)
	raw = append(raw, prefix...)
	raw = append(raw, key...)
	raw = append(raw, checksum(raw)...)
	return base58.Encode(raw)
}

// decode validates s against the given textual and byte prefix and returns
// the 32-byte key body.
func decode(s, textPrefix string, prefix []byte) ([]byte, error) {
	if !strings.HasPrefix(s, textPrefix) {
		return nil, errors.Errorf("%q: %w", s, ErrInvalidPrefix)
	}
	if len(s) != KeyStringLength {
		return nil, errors.Errorf("%q: %w", s, ErrInvalidLength)
	}
	raw := base58.Decode(s)
	if len(raw) != rawLen {
		return nil, errors.Errorf("%q: %w", s, ErrInvalidEncoding)
	}
	if !bytes.Equal(raw[:prefixLen], prefix) {
		return nil, errors.Errorf("%q: %w", s, ErrInvalidPrefix)
	}
	body := raw[:prefixLen+keyLen]
	if !bytes.Equal(raw[prefixLen+keyLen:], checksum(body)) {
		return nil, errors.Errorf("%q: %w", s, ErrInvalidChecksum)
	}
	key := make([]byte, keyLen)
	copy(key, raw[prefixLen:prefixLen+keyLen])
	return key, nil
}

// ValidatePublicKey reports why s is not a well-formed idpub key, or nil.
func ValidatePublicKey(s string) error {
	_, err := decode(s, PublicPrefix, publicPrefixBytes)
	return err
}

// ValidatePrivateKey reports why s is not a well-formed idsec key, or nil.
func ValidatePrivateKey(s string) error {
	_, err := decode(s, PrivatePrefix, privatePrefixBytes)
	return err
}

// PublicKeyBytes returns the ed25519 public key encoded in s.
func PublicKeyBytes(s string) (ed25519.PublicKey, error) {
	key, err := decode(s, PublicPrefix, publicPrefixBytes)
	if err != nil {
		return nil, err
	}
	return ed25519.PublicKey(key), nil
}

// PrivateKeyFromString expands the seed encoded in s into an ed25519 key.
func PrivateKeyFromString(s string) (ed25519.PrivateKey, error) {
	seed, err := decode(s, PrivatePrefix, privatePrefixBytes)
	if err != nil {
		return nil, err
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// EncodePublicKey returns the idpub string for pub.
func EncodePublicKey(pub ed25519.PublicKey) (string, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", errors.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	return encode(publicPrefixBytes, pub), nil
}

// EncodePrivateKey returns the idsec string for an ed25519 seed.
func EncodePrivateKey(seed []byte) (string, error) {
	if len(seed) != ed25519.SeedSize {
		return "", errors.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return encode(privatePrefixBytes, seed), nil
}

// PublicKeyFromPrivate derives the idpub string matching an idsec string.
func PublicKeyFromPrivate(priv string) (string, error) {
	key, err := PrivateKeyFromString(priv)
	if err != nil {
		return "", err
	}
	return EncodePublicKey(key.Public().(ed25519.PublicKey))
}

// InvalidKeys returns every entry of keys that is not a valid public key,
// in input order.
func InvalidKeys(keys []string) []string {
	var invalid []string
	for _, k := range keys {
		if ValidatePublicKey(k) != nil {
			invalid = append(invalid, k)
		}
	}
	return invalid
}

// DuplicateKeys returns each key that occurs more than once, reported once,
// in the order its second occurrence is seen.
func DuplicateKeys(keys []string) []string {
	seen := make(map[string]int, len(keys))
	var dups []string
	for _, k := range keys {
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}
