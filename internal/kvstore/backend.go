package kvstore

import (
	"context"
	"errors"
)

//go:generate mockgen -source=$GOFILE -destination=kvstoremock/backend.go -package=kvstoremock

var (
	// ErrQuotaExceeded is returned when a write would not fit in the backend's quota.
	ErrQuotaExceeded = errors.New("kvstore: quota exceeded")
	// ErrConflict is returned when an optimistic update keeps losing against concurrent writers.
	ErrConflict = errors.New("kvstore: concurrent update conflict")
	// ErrUnchanged can be returned by an UpdateFunc to skip the write.
	ErrUnchanged = errors.New("kvstore: value unchanged")
)

// UpdateFunc receives the current value (exists is false when the key is absent)
// and returns the value to store.
type UpdateFunc func(current string, exists bool) (string, error)

// Backend is a string key-value store, modeled after the browser storage API.
// Implementations must make Update atomic for a single key.
type Backend interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
}
