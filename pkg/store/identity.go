package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// IdentityProvider yields the opaque anonymous identity used as the
// persistence key. No user-visible login exists; the token is stable
// for the lifetime of the client's local state.
type IdentityProvider interface {
	Identity(ctx context.Context) (identity string, err error)
}

// AnonymousProvider mints a random identity on first use and keeps it
// in a file under the state directory, mirroring an anonymous auth
// session persisted in browser storage.
type AnonymousProvider struct {
	stateDir string
}

// NewAnonymousProvider returns a provider rooted at stateDir.
func NewAnonymousProvider(stateDir string) (p *AnonymousProvider) {
	p = &AnonymousProvider{stateDir: stateDir}
	return p
}

// Identity returns the stored identity, creating one if absent.
func (p *AnonymousProvider) Identity(ctx context.Context) (identity string, err error) {
	path := filepath.Join(p.stateDir, "identity")

	var data []byte
	data, err = os.ReadFile(path)
	if err == nil {
		identity = strings.TrimSpace(string(data))
		if identity != "" {
			return identity, err
		}
	}
	if err != nil && !os.IsNotExist(err) {
		err = errors.Wrapf(err, "failed to read identity file: %s", path)
		return identity, err
	}

	identity = uuid.NewString()

	err = os.MkdirAll(p.stateDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create state directory: %s", p.stateDir)
		return identity, err
	}

	err = os.WriteFile(path, []byte(identity+"\n"), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write identity file: %s", path)
		return identity, err
	}

	return identity, err
}

// StaticProvider returns a fixed identity. Used in tests.
type StaticProvider struct {
	ID string
}

// Identity returns the fixed identity.
func (p *StaticProvider) Identity(ctx context.Context) (identity string, err error) {
	identity = p.ID
	return identity, err
}
