// Package idkey implements the human-readable identity key strings used by
// the ledger API.
//
// A key string is base58(prefix || key || checksum) where prefix is five
// bytes chosen so the encoded string starts with "idpub" (public keys) or
// "idsec" (private keys), key is the 32-byte ed25519 public key or seed, and
// checksum is the first four bytes of sha256(sha256(prefix || key)).
//
// Scope:
//   - Validate public and private key strings
//   - Report invalid and duplicate keys in a submitted list
//   - Generate ed25519 key pairs and encode them as key strings
//   - Sign and verify messages with key strings
package idkey
