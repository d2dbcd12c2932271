package net

import (
	"context"
	"net/url"
)

// Dispatcher issues authenticated calls against the API. Implementations
// decode a successful JSON response into out (nil discards it) and return a
// *RemoteError for non-2xx responses and transport failures.
//
//go:generate mockgen -source=client.go -destination=mocks/client_mock.go -package=mocks
type Dispatcher interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body interface{}, out interface{}) error
}
