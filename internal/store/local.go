package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/job-tracker/internal/blob"
	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/types"
)

// DefaultKey is the blob key the collection is stored under.
const DefaultKey = "job-applications"

// LocalStore keeps the whole collection as one JSON array in a blob backend.
//
// Reads never fail: an absent, unreadable or malformed blob falls back to the
// last collection successfully read or written, or to Seed. Only an absent key
// may be written over with the seed; a mutation on top of a seed served because
// the blob could not be read or decoded fails with *PersistenceError. Writes
// are best effort: a failed write is logged, remembered for TakePersistError,
// and the in-memory copy stays authoritative until a later write succeeds.
type LocalStore struct {
	backend   blob.Backend
	key       string
	validator *types.Validator
	now       func() time.Time
	newID     func() string
	log       logrus.FieldLogger

	mu         sync.Mutex
	lastGood   []types.Application
	unsaved    bool
	persistErr error
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithKey overrides DefaultKey.
func WithKey(key string) LocalOption {
	return func(s *LocalStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock sets the clock used for timestamps and date validation.
func WithClock(now func() time.Time) LocalOption {
	return func(s *LocalStore) {
		s.now = now
		s.validator = types.NewValidator(now)
	}
}

// WithIDGenerator replaces uuid-based ids.
func WithIDGenerator(gen func() string) LocalOption {
	return func(s *LocalStore) { s.newID = gen }
}

// WithLogger sets the logger for swallowed storage failures.
func WithLogger(log logrus.FieldLogger) LocalOption {
	return func(s *LocalStore) {
		if log != nil {
			s.log = log
		}
	}
}

// NewLocalStore creates a LocalStore over backend.
func NewLocalStore(backend blob.Backend, opts ...LocalOption) *LocalStore {
	s := &LocalStore{
		backend:   backend,
		key:       DefaultKey,
		validator: types.DefaultValidator(),
		now:       time.Now,
		newID:     uuid.NewString,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("key", s.key)
	return s
}

// ListAll returns the current collection.
func (s *LocalStore) ListAll(ctx context.Context) ([]types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apps, _ := s.load(ctx)
	return clone(apps), nil
}

// Create validates f, assigns an id, defaults and timestamps, and persists.
func (s *LocalStore) Create(ctx context.Context, f types.NewApplication) (types.Application, error) {
	if err := s.validator.ValidateNew(f); err != nil {
		return types.Application{}, err
	}
	f = f.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.loadForWrite(ctx)
	if err != nil {
		return types.Application{}, err
	}

	id := types.ID(s.newID())
	for indexOf(apps, id) >= 0 {
		id = types.ID(s.newID())
	}

	now := s.now()
	app := types.Application{
		ID:          id,
		Company:     f.Company,
		Position:    f.Position,
		Status:      f.Status,
		DateApplied: f.DateApplied,
		Notes:       f.Notes,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
	if app.Status == "" {
		app.Status = types.DefaultStatus
	}
	if app.DateApplied.IsZero() {
		app.DateApplied = types.DateOf(now)
	}

	s.save(ctx, "create", append(clone(apps), app))
	return app, nil
}

// Update merges p into the record with id and persists.
func (s *LocalStore) Update(ctx context.Context, id types.ID, p types.ApplicationPatch) (types.Application, error) {
	if err := s.validator.ValidatePatch(p); err != nil {
		return types.Application{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.loadForWrite(ctx)
	if err != nil {
		return types.Application{}, err
	}
	i := indexOf(apps, id)
	if i < 0 {
		return types.Application{}, &ErrNotFound{ID: id}
	}

	updated := p.Apply(apps[i])
	now := s.now()
	updated.UpdatedAt = &now

	next := clone(apps)
	next[i] = updated
	s.save(ctx, "update", next)
	return updated, nil
}

// Delete removes the record with id. Unknown ids return false and leave the
// collection untouched.
func (s *LocalStore) Delete(ctx context.Context, id types.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.loadForWrite(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(apps, id)
	if i < 0 {
		return false, nil
	}

	next := make([]types.Application, 0, len(apps)-1)
	next = append(next, apps[:i]...)
	next = append(next, apps[i+1:]...)
	s.save(ctx, "delete", next)
	return true, nil
}

// TakePersistError returns the last swallowed storage failure once.
func (s *LocalStore) TakePersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.persistErr
	s.persistErr = nil
	return err
}

// Close releases the backend.
func (s *LocalStore) Close() error {
	return s.backend.Close()
}

// load must be called with mu held. The error is non-nil only when the seed
// is served because the stored blob exists but could not be read or decoded.
func (s *LocalStore) load(ctx context.Context) ([]types.Application, error) {
	if s.unsaved {
		return s.lastGood, nil
	}

	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, blob.ErrNotFound) {
		return s.fallback(nil)
	}
	if err != nil {
		return s.fallback(s.recordFailure("read", err))
	}

	if err := schemas.ValidateCollection(data); err != nil {
		return s.fallback(s.recordFailure("decode", err))
	}
	var apps []types.Application
	if err := json.Unmarshal(data, &apps); err != nil {
		return s.fallback(s.recordFailure("decode", err))
	}
	if apps == nil {
		apps = []types.Application{}
	}

	s.lastGood = apps
	return apps, nil
}

// loadForWrite is load for mutations. It refuses to build on a seed that
// stands in for an unreadable blob, so the blob is never overwritten by it.
func (s *LocalStore) loadForWrite(ctx context.Context) ([]types.Application, error) {
	apps, err := s.load(ctx)
	if err != nil {
		// reported through the mutation, not again as a warning
		s.persistErr = nil
		return nil, err
	}
	return apps, nil
}

func (s *LocalStore) fallback(cause error) ([]types.Application, error) {
	if s.lastGood != nil {
		return s.lastGood, nil
	}
	return Seed(), cause
}

// save must be called with mu held. The in-memory copy is updated even when
// the write fails.
func (s *LocalStore) save(ctx context.Context, op string, apps []types.Application) {
	s.lastGood = apps

	data, err := json.Marshal(apps)
	if err == nil {
		err = s.backend.Set(ctx, s.key, data)
	}
	if err != nil {
		s.unsaved = true
		s.recordFailure("write", err)
		s.log.WithField("op", op).Warn("collection kept in memory until the next successful write")
		return
	}
	s.unsaved = false
}

func (s *LocalStore) recordFailure(op string, cause error) error {
	perr := &PersistenceError{Op: op, Key: s.key, Cause: cause}
	s.persistErr = perr
	s.log.WithError(cause).Warnf("failed to %s stored applications", op)
	return perr
}
