package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

// MemoryStore implements DocumentStore in process memory. Used when no
// Redis URL is configured and throughout the tests.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() (s *MemoryStore) {
	s = &MemoryStore{docs: map[string][]byte{}}
	return s
}

// Get fetches the document for key. Returns ErrNotFound when absent.
func (s *MemoryStore) Get(ctx context.Context, key string) (doc []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.docs[key]
	if !ok {
		err = ErrNotFound
		return doc, err
	}

	doc = make([]byte, len(stored))
	copy(doc, stored)
	return doc, err
}

// Set upserts the document for key.
func (s *MemoryStore) Set(ctx context.Context, key string, doc []byte) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(doc))
	copy(stored, doc)
	s.docs[key] = stored
	return err
}

// LoadPosition returns the persisted step index for identity, or 0
// when none has been saved.
func (s *MemoryStore) LoadPosition(ctx context.Context, identity string) (index int, err error) {
	var doc []byte
	doc, err = s.Get(ctx, PositionKey(identity))
	if errors.Is(err, ErrNotFound) {
		err = nil
		return index, err
	}
	if err != nil {
		return index, err
	}

	index, err = strconv.Atoi(string(doc))
	if err != nil {
		err = errors.Wrapf(err, "corrupt step position for %s", identity)
		return index, err
	}
	return index, err
}

// SavePosition persists the step index for identity.
func (s *MemoryStore) SavePosition(ctx context.Context, identity string, index int) (err error) {
	err = s.Set(ctx, PositionKey(identity), []byte(strconv.Itoa(index)))
	return err
}
