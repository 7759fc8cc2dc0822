package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Store.Get when the key holds no value.
var ErrKeyNotFound = errors.New("key not found")

// Store is the key-value port the persistence gateway is built on. Values
// are serialized JSON documents.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks the store's backend when it has one.
func Ping(ctx context.Context, s Store) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
