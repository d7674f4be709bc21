package storage

import "context"

type contextKey struct{}

var storageKey = contextKey{}

// WithContext attaches the storage a request operates on.
func WithContext(ctx context.Context, storage Storage) context.Context {
	if storage == nil {
		return ctx
	}
	return context.WithValue(ctx, storageKey, storage)
}

// FromContext returns the storage attached by WithContext, or nil.
func FromContext(ctx context.Context) Storage {
	storage, _ := ctx.Value(storageKey).(Storage)
	return storage
}
