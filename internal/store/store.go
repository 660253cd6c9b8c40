// Package store holds the canonical application state. Every action runs a
// reconciler against a private copy, swaps the result in, writes the whole
// state back to the blob store and notifies subscribers. Readers only ever
// receive deep copies.
package store

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/berling9700/budget-tracker/internal/blobstore"
	"github.com/berling9700/budget-tracker/internal/logger"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/reconcile"
	"github.com/berling9700/budget-tracker/internal/uuid"
)

// Blob keys.
const (
	KeyState          = "finance-tracker-data"
	KeySettings       = "finance-tracker-settings"
	KeyLegacyBudgets  = "budget-tracker-data"
	KeyLegacyActiveID = "budget-tracker-active-id"
)

// Store is the single writer of the application state.
type Store struct {
	mu       sync.Mutex
	blobs    blobstore.Store
	ids      uuid.Generator
	clock    func() time.Time
	log      *zap.SugaredLogger
	state    models.AppState
	settings models.Settings

	// dirty and settingsDirty mark blobs whose last write failed.
	dirty         bool
	settingsDirty bool

	subMu       sync.Mutex
	subscribers map[int]chan models.AppState
	nextSub     int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to date net-worth snapshots.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithIDGenerator overrides the id generator.
func WithIDGenerator(ids uuid.Generator) Option {
	return func(s *Store) { s.ids = ids }
}

// New creates an empty Store over blobs. Call Load to read persisted state.
func New(blobs blobstore.Store, opts ...Option) *Store {
	s := &Store{
		blobs:       blobs,
		ids:         uuid.NewV7(),
		clock:       time.Now,
		log:         logger.Named("store"),
		state:       emptyState(),
		subscribers: map[int]chan models.AppState{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func emptyState() models.AppState {
	return models.AppState{
		Budgets:         []models.Budget{},
		Assets:          []models.Asset{},
		Liabilities:     []models.Liability{},
		NetWorthHistory: []models.NetWorthSnapshot{},
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Settings returns the current settings.
func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Dirty reports whether the last write to the blob store failed, leaving the
// in-memory state ahead of what is persisted.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty || s.settingsDirty
}

// IDs returns the store's id generator, for callers that build drafts.
func (s *Store) IDs() uuid.Generator {
	return s.ids
}

// Today returns the store's current calendar date.
func (s *Store) Today() time.Time {
	return s.clock()
}

// mutate runs fn against a private copy of the state. When fn succeeds the
// copy becomes canonical, is persisted and published. A persistence failure
// is logged and marks the store dirty; it is never returned.
func (s *Store) mutate(fn func(state models.AppState) (models.AppState, error)) (models.AppState, error) {
	s.mu.Lock()
	next, err := fn(s.state.Clone())
	if err != nil {
		s.mu.Unlock()
		return models.AppState{}, err
	}
	s.state = next
	s.persistLocked()
	out := s.state.Clone()
	s.publish(out)
	s.mu.Unlock()
	return out, nil
}

// mutateWorth is mutate for asset and liability changes, which always
// refresh the net-worth history.
func (s *Store) mutateWorth(fn func(state models.AppState) (models.AppState, error)) (models.AppState, error) {
	return s.mutate(func(state models.AppState) (models.AppState, error) {
		next, err := fn(state)
		if err != nil {
			return next, err
		}
		next.NetWorthHistory = reconcile.UpdateHistory(next.NetWorthHistory, next.Assets, next.Liabilities, s.clock().Format(models.DateLayout))
		return next, nil
	})
}

// persistLocked writes the state blob, and retries the settings blob when
// its last write failed.
func (s *Store) persistLocked() {
	data, err := json.Marshal(s.state)
	if err == nil {
		err = s.blobs.Set(KeyState, string(data))
	}
	if err != nil {
		s.dirty = true
		s.log.Errorw("Failed to persist state, keeping in-memory copy", "key", KeyState, "error", err)
	} else {
		if s.dirty {
			s.log.Infow("State persisted after earlier failure", "key", KeyState)
		}
		s.dirty = false
	}
	if s.settingsDirty {
		s.persistSettingsLocked()
	}
}

func (s *Store) persistSettingsLocked() {
	data, err := json.Marshal(s.settings)
	if err == nil {
		err = s.blobs.Set(KeySettings, string(data))
	}
	if err != nil {
		s.settingsDirty = true
		s.log.Errorw("Failed to persist settings", "key", KeySettings, "error", err)
		return
	}
	if s.settingsDirty {
		s.log.Infow("Settings persisted after earlier failure", "key", KeySettings)
	}
	s.settingsDirty = false
}

// Subscribe returns a channel that receives the latest state after every
// successful action. Slow readers only see the most recent state. The
// returned function unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan models.AppState, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan models.AppState, 1)
	s.subscribers[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(c)
		}
	}
}

func (s *Store) publish(state models.AppState) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- state.Clone()
	}
}
