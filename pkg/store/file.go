package store

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FileStore implements DocumentStore on the local filesystem, one file
// per document under a state directory. The default backend when no
// Redis URL is configured.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (s *FileStore, err error) {
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create store directory: %s", dir)
		return s, err
	}
	s = &FileStore{dir: dir}
	return s, err
}

// Get fetches the document for key. Returns ErrNotFound when absent.
func (s *FileStore) Get(ctx context.Context, key string) (doc []byte, err error) {
	doc, err = os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		err = ErrNotFound
		return doc, err
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to read document: %s", key)
		return doc, err
	}
	return doc, err
}

// Set upserts the document for key, replacing any existing value.
func (s *FileStore) Set(ctx context.Context, key string, doc []byte) (err error) {
	err = os.WriteFile(s.path(key), doc, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write document: %s", key)
		return err
	}
	return err
}

// LoadPosition returns the persisted step index for identity, or 0
// when none has been saved.
func (s *FileStore) LoadPosition(ctx context.Context, identity string) (index int, err error) {
	var doc []byte
	doc, err = s.Get(ctx, PositionKey(identity))
	if errors.Is(err, ErrNotFound) {
		err = nil
		return index, err
	}
	if err != nil {
		return index, err
	}

	index, err = strconv.Atoi(strings.TrimSpace(string(doc)))
	if err != nil {
		err = errors.Wrapf(err, "corrupt step position for %s", identity)
		return index, err
	}
	return index, err
}

// SavePosition persists the step index for identity.
func (s *FileStore) SavePosition(ctx context.Context, identity string, index int) (err error) {
	err = s.Set(ctx, PositionKey(identity), []byte(strconv.Itoa(index)))
	return err
}

// path maps a document key to a filename. Key separators become
// hyphens so keys stay within the store directory.
func (s *FileStore) path(key string) (p string) {
	name := strings.ReplaceAll(key, ":", "-")
	name = strings.ReplaceAll(name, string(os.PathSeparator), "-")
	p = filepath.Join(s.dir, name+".json")
	return p
}
