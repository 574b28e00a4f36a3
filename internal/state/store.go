// Package state holds the authoritative in-memory copy of each user's
// application document. Mutations replace the whole document (copy-on-write
// at the object level) and feed a bounded undo/redo history.
package state

import (
	"encoding/json"
	"sync"

	"github.com/alextrocado/edumanage/internal/model"
)

// ChangeFunc is invoked after every document replacement (including undo
// and redo) with a private copy of the new document. Used to schedule
// debounced persistence.
type ChangeFunc func(userID string, data model.AppData)

// Store is a per-user state container. All access is serialized; the
// documents handed out are deep copies, so callers never share mutable
// state with the store or each other.
type Store struct {
	mu       sync.Mutex
	limit    int
	users    map[string]*entry
	onChange ChangeFunc
}

type entry struct {
	current model.AppData
	past    []model.AppData
	future  []model.AppData
	// replaying suppresses history recording while an undo/redo applies a
	// snapshot, so time travel is never recorded as a new transition.
	replaying bool
	loaded    bool
}

// NewStore creates a Store keeping at most limit undo snapshots per user.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = 50
	}
	return &Store{limit: limit, users: make(map[string]*entry)}
}

// OnChange registers the change callback. Call before serving traffic.
func (s *Store) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Loaded reports whether a document has been seeded for the user.
func (s *Store) Loaded(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[userID]
	return ok && e.loaded
}

// Seed installs a document without recording history or firing the change
// callback. Used when loading from persistence at login.
func (s *Store) Seed(userID string, data model.AppData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = &entry{current: clone(data), loaded: true}
}

// Get returns a copy of the user's current document.
func (s *Store) Get(userID string) (model.AppData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[userID]
	if !ok || !e.loaded {
		return model.AppData{}, false
	}
	return clone(e.current), true
}

// Apply runs fn against a copy of the current document and installs the
// result as the new document. The previous version is pushed onto the undo
// stack and the redo stack is cleared. Returns a copy of the new document.
func (s *Store) Apply(userID string, fn func(model.AppData) (model.AppData, error)) (model.AppData, error) {
	s.mu.Lock()
	e := s.ensure(userID)

	next, err := fn(clone(e.current))
	if err != nil {
		s.mu.Unlock()
		return model.AppData{}, err
	}

	if !e.replaying {
		e.past = append(e.past, e.current)
		if len(e.past) > s.limit {
			e.past = e.past[len(e.past)-s.limit:]
		}
		e.future = nil
	}
	e.current = next

	out := clone(next)
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(userID, out)
	}
	return out, nil
}

// Undo steps back one snapshot. Returns the restored document, or false if
// there is nothing to undo. The change callback still fires: an undone
// document must be persisted like any other version.
func (s *Store) Undo(userID string) (model.AppData, bool) {
	return s.travel(userID, true)
}

// Redo re-applies the most recently undone snapshot.
func (s *Store) Redo(userID string) (model.AppData, bool) {
	return s.travel(userID, false)
}

// History returns the undo and redo depths for the user.
func (s *Store) History(userID string) (past, future int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.users[userID]; ok {
		return len(e.past), len(e.future)
	}
	return 0, 0
}

func (s *Store) travel(userID string, back bool) (model.AppData, bool) {
	s.mu.Lock()
	e, ok := s.users[userID]
	if !ok {
		s.mu.Unlock()
		return model.AppData{}, false
	}

	var from, to *[]model.AppData
	if back {
		from, to = &e.past, &e.future
	} else {
		from, to = &e.future, &e.past
	}
	if len(*from) == 0 {
		s.mu.Unlock()
		return model.AppData{}, false
	}

	e.replaying = true
	snapshot := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	*to = append(*to, e.current)
	if len(*to) > s.limit {
		*to = (*to)[len(*to)-s.limit:]
	}
	e.current = snapshot
	e.replaying = false

	out := clone(e.current)
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(userID, out)
	}
	return out, true
}

func (s *Store) ensure(userID string) *entry {
	e, ok := s.users[userID]
	if !ok {
		e = &entry{loaded: true}
		s.users[userID] = e
	}
	return e
}

// clone deep-copies a document through its JSON form. The document is
// plain data by contract (it is persisted as a single JSONB value), so the
// codec round trip cannot fail.
func clone(d model.AppData) model.AppData {
	raw, err := json.Marshal(d)
	if err != nil {
		return d
	}
	var out model.AppData
	if err := json.Unmarshal(raw, &out); err != nil {
		return d
	}
	return out
}
