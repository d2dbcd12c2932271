package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"lukechampine.com/blake3"
)

// HashType names a document digest algorithm. The value is what gets
// written into notarized entry content as "hash_type".
type HashType string

const (
	HashSHA256 HashType = "sha256"
	HashBLAKE3 HashType = "blake3"
	HashBLAKE2 HashType = "blake2b"
)

// ParseHashType accepts "sha256", "blake3" or "blake2b" (case-insensitive).
func ParseHashType(s string) (HashType, error) {
	switch HashType(strings.ToLower(strings.TrimSpace(s))) {
	case HashSHA256:
		return HashSHA256, nil
	case HashBLAKE3:
		return HashBLAKE3, nil
	case HashBLAKE2:
		return HashBLAKE2, nil
	}
	return "", errors.Errorf("unsupported hash type %q", s)
}

func newHash(t HashType) (hash.Hash, error) {
	switch t {
	case HashSHA256:
		return sha256.New(), nil
	case HashBLAKE3:
		return blake3.New(32, nil), nil
	case HashBLAKE2:
		return blake2b.New256(nil)
	}
	return nil, errors.Errorf("unsupported hash type %q", t)
}

// hashReader digests r using a manual buffered read loop whose buffer is
// sized from sizeHint.
func hashReader(h hash.Hash, r io.Reader, sizeHint int64) ([]byte, error) {
	buf := make([]byte, chunkSizeFor(sizeHint))
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return nil, werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, rerr
		}
	}
	return h.Sum(nil), nil
}

// chunkSizeFor returns the read chunk size based on total input size.
func chunkSizeFor(total int64) int64 {
	if total <= 0 {
		return 64 << 10
	}
	switch {
	case total <= 4<<20: // ≤ 4 MiB
		return 64 << 10
	case total <= 32<<20: // ≤ 32 MiB
		return 512 << 10
	default:
		return 1 << 20
	}
}

// HashFileHex returns the hex digest of the file at path.
func HashFileHex(path string, t HashType) (string, error) {
	h, err := newHash(t)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", errors.Errorf("stat %s: %w", path, err)
	}

	sum, err := hashReader(h, f, fi.Size())
	if err != nil {
		return "", errors.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(sum), nil
}

// HashBytesHex returns the hex digest of data.
func HashBytesHex(data []byte, t HashType) (string, error) {
	h, err := newHash(t)
	if err != nil {
		return "", err
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
