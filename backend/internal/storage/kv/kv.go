// Package kv is the keyed record store: a small Backend contract implemented
// by memory, PostgreSQL, SQLite and Redis, and a Store on top that never
// surfaces backend faults to callers.
package kv

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("kv: backend closed")

// Backend persists opaque JSON documents under string keys.
type Backend interface {
	// Get returns ok=false, err=nil when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Batcher is implemented by backends that can write several keys atomically.
type Batcher interface {
	PutBatch(ctx context.Context, values map[string][]byte) error
}
