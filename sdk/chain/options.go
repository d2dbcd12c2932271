package chain

import (
	"time"

	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
)

const (
	defaultEntryCacheSize = 1_000
	entryCacheBufferItems = 64
	entryCacheItemCost    = 1
)

type settings struct {
	decodeOpts     []codec.Option
	now            func() time.Time
	keyCacheTTL    time.Duration
	entryCacheSize int64
}

// Option configures a Client.
type Option func(*settings)

// WithStrictDecoding makes reads fail when a response field that should be
// base64 is not.
func WithStrictDecoding() Option {
	return func(s *settings) { s.decodeOpts = append(s.decodeOpts, codec.Strict()) }
}

// WithClock replaces time.Now for the timestamps of signed records.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithKeyCacheTTL sets how long signer keys are reused during validation.
func WithKeyCacheTTL(ttl time.Duration) Option {
	return func(s *settings) { s.keyCacheTTL = ttl }
}

// WithEntryCacheSize caps the number of cached entries. Zero disables the
// cache.
func WithEntryCacheSize(n int64) Option {
	return func(s *settings) { s.entryCacheSize = n }
}

func newSettings(opts []Option) settings {
	s := settings{
		now:            time.Now,
		keyCacheTTL:    DefaultKeyCacheTTL,
		entryCacheSize: defaultEntryCacheSize,
	}
	for _, o := range opts {
		o(&s)
	}
	return s
}
