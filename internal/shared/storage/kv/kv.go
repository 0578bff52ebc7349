package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Item is a key together with its stored value.
type Item struct {
	Key   string
	Value string
}

// Store defines the contract for the string key-value store backing
// resume records. Values are opaque serialized documents.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// List returns all items whose key starts with prefix. Order is not
	// guaranteed.
	List(ctx context.Context, prefix string) ([]Item, error)
}
