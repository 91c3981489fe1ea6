package syncer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"essaypilot/pkg/profile"
	"essaypilot/pkg/store"
)

// SaveDelay is the trailing debounce applied after the last profile
// mutation before a save fires.
const SaveDelay = 500 * time.Millisecond

// saveTimeout bounds background save calls fired from the timer.
const saveTimeout = 10 * time.Second

// Syncer keeps the remote profile document eventually consistent with
// the in-memory profile. Saves are suppressed until the initial load
// completes so an empty session never clobbers remote data.
type Syncer struct {
	docs     store.DocumentStore
	provider store.IdentityProvider
	sched    *Scheduler
	logger   *zap.Logger

	group singleflight.Group

	// onSaveError reports background save failures; the caller shows
	// them as a dismissible banner. Never fatal.
	onSaveError func(error)

	delay time.Duration

	mu       sync.Mutex
	identity string
	loaded   bool
	pending  *profile.Profile
}

// New creates a syncer. onSaveError may be nil.
func New(docs store.DocumentStore, provider store.IdentityProvider, logger *zap.Logger, onSaveError func(error)) (s *Syncer) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s = &Syncer{
		docs:        docs,
		provider:    provider,
		sched:       NewScheduler(),
		logger:      logger,
		onSaveError: onSaveError,
		delay:       SaveDelay,
	}
	return s
}

// SetSaveDelay overrides the debounce window. Used in tests.
func (s *Syncer) SetSaveDelay(delay time.Duration) {
	s.delay = delay
}

// Bootstrap obtains the anonymous identity, creating it on first call.
// Concurrent callers converge on a single in-flight creation and every
// later call returns the memoized identity.
func (s *Syncer) Bootstrap(ctx context.Context) (identity string, err error) {
	s.mu.Lock()
	if s.identity != "" {
		identity = s.identity
		s.mu.Unlock()
		return identity, err
	}
	s.mu.Unlock()

	var result interface{}
	result, err, _ = s.group.Do("identity", func() (v interface{}, doErr error) {
		v, doErr = s.provider.Identity(ctx)
		return v, doErr
	})
	if err != nil {
		err = errors.Wrap(err, "identity bootstrap failed")
		return identity, err
	}

	identity = result.(string)

	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()

	return identity, err
}

// Load fetches the stored profile document and hydrates it over the
// empty profile, section by section. Returns found=false on a
// first-ever session. After Load returns, saves are no longer
// suppressed.
func (s *Syncer) Load(ctx context.Context) (p profile.Profile, found bool, err error) {
	p = profile.New()

	var identity string
	identity, err = s.Bootstrap(ctx)
	if err != nil {
		return p, found, err
	}

	var doc []byte
	doc, err = s.docs.Get(ctx, store.ProfileKey(identity))
	if errors.Is(err, store.ErrNotFound) {
		err = nil
		s.markLoaded()
		return p, found, err
	}
	if err != nil {
		err = errors.Wrap(err, "failed to load profile document")
		return p, found, err
	}

	p, err = profile.ApplyDocument(p, doc)
	if err != nil {
		err = errors.Wrap(err, "failed to hydrate profile")
		return p, found, err
	}

	found = true
	s.markLoaded()
	return p, found, err
}

// NoteChange records the latest profile state and (re)starts the
// debounce timer. The final state always wins: every call replaces the
// pending snapshot, and the save that eventually fires writes whatever
// snapshot is pending at that moment.
func (s *Syncer) NoteChange(p profile.Profile) {
	s.mu.Lock()
	if !s.loaded {
		// Saving before the initial load would overwrite remote data
		// with empty state.
		s.mu.Unlock()
		return
	}
	snapshot := p
	s.pending = &snapshot
	delay := s.delay
	s.mu.Unlock()

	s.sched.Schedule(s.savePending, delay)
}

// Flush cancels any pending timer and saves the pending snapshot now.
func (s *Syncer) Flush(ctx context.Context) (err error) {
	s.sched.Cancel()

	s.mu.Lock()
	pending := s.pending
	identity := s.identity
	s.mu.Unlock()

	if pending == nil {
		return err
	}

	err = s.save(ctx, identity, *pending)
	if err != nil {
		return err
	}

	s.clearPending(pending)
	return err
}

// Close stops the scheduler so no save fires after teardown.
func (s *Syncer) Close() {
	s.sched.Stop()
}

// savePending is the timer callback: write the pending snapshot in the
// background and report failures without discarding in-memory state.
func (s *Syncer) savePending() {
	s.mu.Lock()
	pending := s.pending
	identity := s.identity
	s.mu.Unlock()

	if pending == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	err := s.save(ctx, identity, *pending)
	if err != nil {
		s.logger.Warn("profile save failed", zap.Error(err))
		if s.onSaveError != nil {
			s.onSaveError(err)
		}
		return
	}

	s.clearPending(pending)
}

// save upserts the full profile document.
func (s *Syncer) save(ctx context.Context, identity string, p profile.Profile) (err error) {
	var doc []byte
	doc, err = json.Marshal(p)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal profile")
		return err
	}

	err = s.docs.Set(ctx, store.ProfileKey(identity), doc)
	if err != nil {
		err = errors.Wrap(err, "failed to save profile document")
		return err
	}

	s.logger.Debug("profile saved", zap.String("identity", identity))
	return err
}

func (s *Syncer) markLoaded() {
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
}

// clearPending drops the pending snapshot only if no newer snapshot
// replaced it while the save was in flight.
func (s *Syncer) clearPending(saved *profile.Profile) {
	s.mu.Lock()
	if s.pending == saved {
		s.pending = nil
	}
	s.mu.Unlock()
}
