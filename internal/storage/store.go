package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/claude/gymlog/internal/models"
)

// EventKind names a committed mutation.
type EventKind string

const (
	EventPlanCreated      EventKind = "plan.created"
	EventPlanRenamed      EventKind = "plan.renamed"
	EventPlanDeleted      EventKind = "plan.deleted"
	EventPlanMoved        EventKind = "plan.moved"
	EventExerciseAdded    EventKind = "exercise.added"
	EventExerciseUpdated  EventKind = "exercise.updated"
	EventExerciseDeleted  EventKind = "exercise.deleted"
	EventExerciseMoved    EventKind = "exercise.moved"
	EventPersonalBest     EventKind = "exercise.personal_best"
	EventSessionAppended  EventKind = "session.appended"
	EventDocumentReplaced EventKind = "document.replaced"
)

// Event is delivered to subscribers after a mutation commits.
type Event struct {
	Kind   EventKind
	PlanID string
	ID     string
}

// Store owns the in-memory document and its file. All access goes through
// its methods; returned values are copies.
type Store struct {
	mu       sync.RWMutex
	path     string
	doc      *models.Document
	autosave bool
	log      *slog.Logger

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithAutoSave makes every committed mutation flush the document to disk.
func WithAutoSave(on bool) Option {
	return func(s *Store) { s.autosave = on }
}

// Open loads the document at path (see Load) and wraps it in a Store.
func Open(path string, log *slog.Logger, opts ...Option) (*Store, error) {
	doc, err := Load(path, log)
	if err != nil {
		return nil, err
	}
	s := New(doc, log, opts...)
	s.path = path
	return s, nil
}

// New wraps an in-memory document. The store has no file until one is set
// with Open; Flush is then a no-op.
func New(doc *models.Document, log *slog.Logger, opts ...Option) *Store {
	if doc == nil {
		doc = DefaultDocument()
	}
	Migrate(doc)
	s := &Store{doc: doc, log: log, subs: map[int]func(Event){}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// Document returns a deep copy of the current document.
func (s *Store) Document() models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Replace swaps in a whole new document, e.g. after an import from another file.
func (s *Store) Replace(doc *models.Document) error {
	cp := doc.Clone()
	Migrate(&cp)
	return s.mutate(Event{Kind: EventDocumentReplaced}, func(d *models.Document) error {
		*d = cp
		return nil
	})
}

// Flush writes the document to its file.
func (s *Store) Flush() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := Save(s.path, s.doc); err != nil {
		return err
	}
	s.log.Debug("document saved", "path", s.path)
	return nil
}

// Subscribe registers fn to be called after every committed mutation. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// mutate runs fn under the write lock. If fn returns errNoChange nothing is
// saved or published and mutate returns nil.
func (s *Store) mutate(ev Event, fn func(*models.Document) error) error {
	s.mu.Lock()
	if err := fn(s.doc); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}
	var saveErr error
	if s.autosave && s.path != "" {
		saveErr = Save(s.path, s.doc)
	}
	s.mu.Unlock()

	s.log.Debug("document changed", "event", ev.Kind, "plan_id", ev.PlanID, "id", ev.ID)
	s.publish(ev)

	if saveErr != nil {
		return fmt.Errorf("autosave: %w", saveErr)
	}
	return nil
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// moveIndex returns the index idx moves to in direction dir, and whether the
// move stays within a sequence of length n.
func moveIndex(idx, dir, n int) (int, bool, error) {
	if dir != -1 && dir != 1 {
		return 0, false, ErrInvalidDirection
	}
	to := idx + dir
	return to, to >= 0 && to < n, nil
}
