// Package kv provides the storage backends the record store persists to.
//
// A backend is a minimal key-value medium: the store keeps the whole task
// collection as one value under one key, so backends only need whole-blob
// get/put/delete.
package kv

import "errors"

// ErrNotFound is returned by Get when the key has no value. Callers that
// treat a missing blob as an empty collection match on this sentinel.
var ErrNotFound = errors.New("kv: key not found")

// Backend is a durable key-value medium.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error
	// Delete removes the key entirely. Deleting an absent key is a no-op.
	Delete(key string) error
	// Close releases backend resources.
	Close() error
}
