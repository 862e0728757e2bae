package ports

import "context"

// PreferenceStore is a string key-value store for UI preferences.
type PreferenceStore interface {
	// Get returns ok=false when the key was never written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
