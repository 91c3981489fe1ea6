// Package store provides the remote document store and anonymous
// identity used to persist wizard profiles between sessions.
package store

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get when no document exists for the key.
//
//nolint:gochecknoglobals // Sentinel error
var ErrNotFound = errors.New("document not found")

// DocumentStore is an opaque key-value document store. Set is a full
// replace; there is no partial update and no concurrency control
// beyond last-write-wins.
type DocumentStore interface {
	Get(ctx context.Context, key string) (doc []byte, err error)
	Set(ctx context.Context, key string, doc []byte) (err error)
}

// ProfileKey returns the document key for an identity's profile.
func ProfileKey(identity string) (key string) {
	key = "profile:" + identity
	return key
}

// PositionKey returns the document key for an identity's step position.
func PositionKey(identity string) (key string) {
	key = "position:" + identity
	return key
}
