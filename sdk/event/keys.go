package event

// EventDataKey defines standard keys used in event data
type EventDataKey string

const (
	KeyError      EventDataKey = "error"
	KeyChainID    EventDataKey = "chain_id"
	KeyEntryHash  EventDataKey = "entry_hash"
	KeyStatus     EventDataKey = "status"
	KeyCount      EventDataKey = "count"
	KeyHash       EventDataKey = "hash"
	KeyHashType   EventDataKey = "hash_type"
	KeyPublicKey  EventDataKey = "public_key"
	KeyElapsedSec EventDataKey = "elapsed_seconds"
)
