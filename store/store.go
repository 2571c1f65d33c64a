// ABOUTME: Document store owning the in-memory CRM document
// ABOUTME: Applies mutations copy-on-write, persists them and signals subscribers
package store

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/simplecrm/models"
	"github.com/harperreed/simplecrm/storage"
	"go.uber.org/zap"
)

// Op names a committed mutation.
type Op string

const (
	OpCreateContact  Op = "create_contact"
	OpUpdateContact  Op = "update_contact"
	OpDeleteContact  Op = "delete_contact"
	OpSelectContact  Op = "select_contact"
	OpUpsertDeal     Op = "upsert_deal"
	OpDeleteDeal     Op = "delete_deal"
	OpCreateTask     Op = "create_task"
	OpToggleTask     Op = "toggle_task"
	OpDeleteTask     Op = "delete_task"
	OpClearCompleted Op = "clear_completed"
	OpReplace        Op = "replace_document"
	OpReset          Op = "reset"
	OpSeed           Op = "seed"
)

// Change is delivered to subscribers after every committed mutation.
type Change struct {
	Op Op
	ID string
}

// Store is the single owner of the current document. All reads go through
// Snapshot; all writes go through the mutators.
type Store struct {
	mu       sync.Mutex
	doc      *models.Document
	adapter  *storage.Adapter
	logger   *zap.Logger
	now      func() time.Time
	validate *validator.Validate

	subsMu  sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the persisted document and seeds it when it has no contacts.
func Open(adapter *storage.Adapter, logger *zap.Logger, opts ...Option) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		adapter:  adapter,
		logger:   logger,
		now:      time.Now,
		validate: newValidator(),
		subs:     make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.doc = adapter.Load()
	if len(s.doc.Contacts) == 0 {
		seeded := s.doc.Clone()
		seedContacts(seeded, s.now())
		if err := adapter.Save(seeded); err != nil {
			return nil, err
		}
		s.doc = seeded
		logger.Info("seeded empty document", zap.Int("contacts", len(seeded.Contacts)))
	}
	return s, nil
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Subscribe registers fn for change signals and returns a func that removes it.
// Callbacks run on the mutating goroutine after the store lock is released.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(change Change) {
	s.subsMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

// mutation edits a private copy of the document. It returns the id of the
// affected record and whether anything changed; unchanged mutations are not saved.
type mutation func(doc *models.Document, now time.Time) (id string, changed bool, err error)

// apply runs fn against a clone, normalizes and saves it, and only then swaps
// it in. A failed save leaves the current document untouched.
func (s *Store) apply(op Op, fn mutation) (string, bool, error) {
	s.mu.Lock()
	next := s.doc.Clone()
	id, changed, err := fn(next, s.now())
	if err != nil || !changed {
		s.mu.Unlock()
		return id, false, err
	}

	next.Normalize()
	if err := s.adapter.Save(next); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to persist mutation", zap.String("op", string(op)), zap.Error(err))
		return "", false, err
	}
	s.doc = next
	s.mu.Unlock()

	s.logger.Debug("mutation committed", zap.String("op", string(op)), zap.String("id", id))
	s.notify(Change{Op: op, ID: id})
	return id, true, nil
}
