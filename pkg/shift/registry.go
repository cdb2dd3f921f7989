package shift

import (
	"errors"
	"sync"
	"time"
)

// key under which the registry lives in the backing store
const storeKey = "shifts"

var ErrNotFound = errors.New("shift has not been defined")

// Store is the externally owned persistence the registry reads and writes
// through. brain.Brain implements it; the registry never creates or destroys
// the store, only uses it.
type Store interface {
	Get(key string, v interface{}) (bool, error)
	Set(key string, v interface{}) error
}

// Registry is an insertion-ordered directory of shifts keyed by name.
// Iteration order is load-bearing for FindMatching: when windows overlap,
// the first-configured match wins at dispatch.
//
// One notification is processed at a time; the mutex only serializes the
// HTTP and CLI surfaces touching the same process.
type Registry struct {
	mu     sync.Mutex
	store  Store
	shifts []*Shift
}

// NewRegistry loads whatever shifts the store already holds; order is
// preserved from the persisted form.
func NewRegistry(store Store) (*Registry, error) {
	r := &Registry{store: store}

	if _, err := store.Get(storeKey, &r.shifts); err != nil {
		return nil, err
	}

	return r, nil
}

// Store inserts the shift, or silently replaces the one with the same name
// keeping its position. Overwrite is intentional - it is how
// re-configuration works.
func (r *Registry) Store(s *Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.storeLocked(s)

	return r.flushLocked()
}

// StoreAll stores every given shift in order, with a single store flush.
func (r *Registry) StoreAll(shifts []*Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range shifts {
		r.storeLocked(s)
	}

	return r.flushLocked()
}

// Configure parses a comma-separated "name=hh:mm-hh:mm" configuration string
// and stores every shift it defines. All-or-nothing: a malformed segment
// anywhere leaves the registry untouched.
func (r *Registry) Configure(config string) ([]*Shift, error) {
	parsed, err := Parse(config)
	if err != nil {
		return nil, err
	}

	return parsed, r.StoreAll(parsed)
}

// Find looks a shift up by exact name. An unknown shift is a normal branch
// for callers, hence the ok-bool instead of an error. The returned shift is
// a copy; mutation goes through AssignUsers.
func (r *Registry) Find(name string) (*Shift, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.shifts {
		if s.Name == name {
			return s.clone(), true
		}
	}

	return nil, false
}

// All returns every stored shift in insertion order.
func (r *Registry) All() []*Shift {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := []*Shift{}
	for _, s := range r.shifts {
		all = append(all, s.clone())
	}

	return all
}

// FindMatching returns, in insertion order, every shift whose window
// contains the UTC minute of at. Windows may overlap or leave gaps - the
// result can hold any number of shifts including none.
func (r *Registry) FindMatching(at time.Time) []*Shift {
	r.mu.Lock()
	defer r.mu.Unlock()

	matching := []*Shift{}
	for _, s := range r.shifts {
		if s.Matches(at) {
			matching = append(matching, s.clone())
		}
	}

	return matching
}

// AssignUsers replaces the user list of the named shift. Returns ErrNotFound
// when the shift does not exist.
func (r *Registry) AssignUsers(name string, users []string) (*Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.shifts {
		if s.Name != name {
			continue
		}

		s.Users = append([]string{}, users...)

		if err := r.flushLocked(); err != nil {
			return nil, err
		}

		return s.clone(), nil
	}

	return nil, ErrNotFound
}

func (r *Registry) storeLocked(s *Shift) {
	for i, existing := range r.shifts {
		if existing.Name == s.Name {
			r.shifts[i] = s.clone()
			return
		}
	}

	r.shifts = append(r.shifts, s.clone())
}

func (r *Registry) flushLocked() error {
	return r.store.Set(storeKey, r.shifts)
}

func (s *Shift) clone() *Shift {
	return &Shift{
		Name:  s.Name,
		Start: s.Start,
		End:   s.End,
		Users: append([]string{}, s.Users...),
	}
}

// DefaultShifts is the built-in rotation used when no configuration is
// given: three 8-hour shifts covering the whole day.
func DefaultShifts() []*Shift {
	mustNew := func(name string, start string, end string) *Shift {
		s, err := New(name, start, end, nil)
		if err != nil {
			panic(err)
		}
		return s
	}

	return []*Shift{
		mustNew("APJ", "00:00", "08:00"),
		mustNew("EMEA", "08:00", "16:00"),
		mustNew("AMS", "16:00", "00:00"),
	}
}
