package idkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"io"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/errors"
)

// GenerateKeyPair creates a fresh ed25519 key pair.
func GenerateKeyPair() (KeyPair, error) {
	return GenerateKeyPairFrom(rand.Reader)
}

// GenerateKeyPairFrom creates a key pair from a seed read from r.
func GenerateKeyPairFrom(r io.Reader) (KeyPair, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(r, seed); err != nil {
		return KeyPair{}, errors.Errorf("read key seed: %w", err)
	}
	return KeyPairFromSeed(seed)
}

// KeyPairFromSeed derives the key pair for a 32-byte ed25519 seed.
func KeyPairFromSeed(seed []byte) (KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return KeyPair{}, errors.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pubStr, err := EncodePublicKey(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return KeyPair{}, err
	}
	privStr, err := EncodePrivateKey(seed)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{PublicKey: pubStr, PrivateKey: privStr}, nil
}

// GenerateKeyPairs creates n key pairs.
func GenerateKeyPairs(n int) ([]KeyPair, error) {
	pairs := make([]KeyPair, 0, n)
	for i := 0; i < n; i++ {
		kp, err := GenerateKeyPair()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, kp)
	}
	return pairs, nil
}

// Sign signs msg with the private key string priv.
func Sign(priv string, msg []byte) ([]byte, error) {
	key, err := PrivateKeyFromString(priv)
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(key, msg), nil
}

// Verify checks sig over msg against the public key string pub.
func Verify(pub string, msg, sig []byte) (bool, error) {
	key, err := PublicKeyBytes(pub)
	if err != nil {
		return false, err
	}
	if len(sig) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(key, msg, sig), nil
}
