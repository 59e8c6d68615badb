package store

import "context"

// Keys under which the two persisted collections live.
const (
	KeyClients   = "clientdeck-clients"
	KeyTemplates = "clientdeck-templates"
)

// KV is the local key-value blob store. Values are opaque strings; callers
// own their encoding.
type KV interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// SetMany stores every entry in a single transaction: either all keys
	// are written or none are.
	SetMany(ctx context.Context, entries map[string]string) error

	// Close releases the underlying resources.
	Close() error
}
