package logtrace

// Fields is a type alias for structured log fields
type Fields map[string]interface{}

// WithFields returns a copy of base with extra fields merged in.
func WithFields(base Fields, extra Fields) Fields {
	fields := Fields{}
	for key, value := range base {
		fields[key] = value
	}
	for key, value := range extra {
		fields[key] = value
	}
	return fields
}

const (
	FieldCorrelationID = "correlation_id"
	FieldOrigin        = "origin"
	FieldMethod        = "method"
	FieldModule        = "module"
	FieldError         = "error"
	FieldStatus        = "status"
	FieldStatusCode    = "status_code"
	FieldPath          = "path"
	FieldChainID       = "chain_id"
	FieldEntryHash     = "entry_hash"
	FieldPublicKey     = "public_key"
	FieldPayloadBytes  = "payload_bytes"
	FieldAttempt       = "attempt"
)

const (
	ValueCLI    = "cli"
	ValueNotary = "notary"
)
