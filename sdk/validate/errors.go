// Package validate holds the error kinds reported when a request is rejected
// locally, before anything is sent to the API, and the small checks shared
// by the SDK clients.
package validate

import (
	"fmt"
	"strings"
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// InvalidKeyError lists every submitted key that failed format validation.
type InvalidKeyError struct {
	Keys []string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid keys: [%s]", strings.Join(e.Keys, ", "))
}

// DuplicateKeyError lists every key submitted more than once.
type DuplicateKeyError struct {
	Keys []string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate keys: [%s]", strings.Join(e.Keys, ", "))
}

// PayloadTooLargeError reports the computed encoded size of a request that
// exceeds the API's byte ceiling.
type PayloadTooLargeError struct {
	Size  int
	Limit int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("calculated bytes of name and keys is %d, it must be at most %d; use fewer or shorter names or fewer keys", e.Size, e.Limit)
}

// Required returns a ValidationError for an empty required field.
func Required(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}
