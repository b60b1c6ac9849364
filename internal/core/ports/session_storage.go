package ports

import (
	"context"
	"errors"
)

// Keys of the persisted client-side session layout.
const (
	StorageKeyToken = "token"
	StorageKeyUser  = "user"
)

// ErrStorageKeyNotFound is returned by GetItem for absent keys.
var ErrStorageKeyNotFound = errors.New("storage key not found")

// SessionStorage is the durable key-value store of a single browser,
// modelled after the Web Storage API.
type SessionStorage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// StorageFactory returns the storage namespace of one browser.
type StorageFactory func(browserID string) SessionStorage
