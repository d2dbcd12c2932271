package validate

import (
	"net/url"
	"strings"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/idkey"
)

// URL checks that raw is an absolute http or https URL with a host.
func URL(field, raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" || strings.ContainsAny(u.Host, " \t") {
		return &ValidationError{Field: field, Reason: "is an invalid url format"}
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	}
	return &ValidationError{Field: field, Reason: "is an invalid url format"}
}

// Callback checks the optional callback URL and stages of a request.
// Stage names are left to the server; only empty names are rejected.
func Callback(callbackURL string, stages []string) error {
	if callbackURL != "" {
		if err := URL("callback_url", callbackURL); err != nil {
			return err
		}
	}
	for _, s := range stages {
		if strings.TrimSpace(s) == "" {
			return &ValidationError{Field: "callback_stages", Reason: "contains an empty stage"}
		}
	}
	return nil
}

// PublicKey checks a single key string and reports it as an InvalidKeyError.
func PublicKey(key string) error {
	if key == "" {
		return Required("public key")
	}
	if idkey.ValidatePublicKey(key) != nil {
		return &InvalidKeyError{Keys: []string{key}}
	}
	return nil
}

// PrivateKey checks a single private key string.
func PrivateKey(field, key string) error {
	if key == "" {
		return Required(field)
	}
	if idkey.ValidatePrivateKey(key) != nil {
		return &ValidationError{Field: field, Reason: "is invalid"}
	}
	return nil
}
