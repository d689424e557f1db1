// Package filter keeps the applied and staged task filters of the board.
//
// Staged selections are edited while a filter panel is open and only
// become applied (and persisted) on Apply. Applied selections survive
// restarts through a StateStore.
package filter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/mtlprog/momentum/internal/domain"
)

// Storage keys of the applied selections.
const (
	KeyDepartments = "filters.departments"
	KeyEmployees   = "filters.employees"
	KeyPriorities  = "filters.priorities"
)

// StateStore is durable key/value storage.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store holds the applied and staged filter selections.
// It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	state   StateStore
	applied domain.FilterSelection
	staged  domain.FilterSelection
}

// New creates a Store and loads the applied selections from state.
// Missing or unreadable entries fall back to an empty selection.
func New(ctx context.Context, state StateStore) *Store {
	s := &Store{state: state}

	s.applied = domain.FilterSelection{
		Departments: load[domain.Department](ctx, state, KeyDepartments),
		Employees:   load[domain.Employee](ctx, state, KeyEmployees),
		Priorities:  load[string](ctx, state, KeyPriorities),
	}
	s.staged = s.applied.Clone()

	return s
}

func load[T any](ctx context.Context, state StateStore, key string) []T {
	raw, err := state.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) {
			slog.Warn("failed to read filter state", "key", key, "error", err)
		}
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.Warn("discarding corrupt filter state", "key", key, "error", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Applied returns a copy of the applied selection.
func (s *Store) Applied() domain.FilterSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied.Clone()
}

// Staged returns a copy of the staged selection.
func (s *Store) Staged() domain.FilterSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged.Clone()
}

// ToggleDepartment adds the department to the staged set, or removes it if
// it is already staged.
func (s *Store) ToggleDepartment(d domain.Department) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, staged := range s.staged.Departments {
		if staged.ID == d.ID {
			s.staged.Departments = append(s.staged.Departments[:i:i], s.staged.Departments[i+1:]...)
			return
		}
	}
	s.staged.Departments = append(s.staged.Departments, d)
}

// ToggleEmployee stages a single employee. Selecting an already staged
// employee clears the selection; selecting another one replaces it.
func (s *Store) ToggleEmployee(e domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, staged := range s.staged.Employees {
		if staged.ID == e.ID {
			s.staged.Employees = []domain.Employee{}
			return
		}
	}
	s.staged.Employees = []domain.Employee{e}
}

// TogglePriority adds the priority name to the staged set, or removes it.
func (s *Store) TogglePriority(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, staged := range s.staged.Priorities {
		if staged == name {
			s.staged.Priorities = append(s.staged.Priorities[:i:i], s.staged.Priorities[i+1:]...)
			return
		}
	}
	s.staged.Priorities = append(s.staged.Priorities, name)
}

// DiscardStaged resets the staged selection to the applied one.
func (s *Store) DiscardStaged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = s.applied.Clone()
}

// Apply copies the staged selection into the applied one and persists it.
// Persistence failures are logged; the in-memory state is updated regardless.
func (s *Store) Apply(ctx context.Context) domain.FilterSelection {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied = s.staged.Clone()
	s.persist(ctx)
	return s.applied.Clone()
}

// Remove deletes the item identified by key from both the applied and the
// staged selection of category and persists the applied selection.
// Keys are ids for departments and employees and names for priorities.
func (s *Store) Remove(ctx context.Context, category domain.FilterCategory, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch category {
	case domain.FilterDepartment:
		id, err := parseID(key)
		if err != nil {
			return err
		}
		s.applied.Departments = withoutDepartment(s.applied.Departments, id)
		s.staged.Departments = withoutDepartment(s.staged.Departments, id)
	case domain.FilterEmployee:
		id, err := parseID(key)
		if err != nil {
			return err
		}
		s.applied.Employees = withoutEmployee(s.applied.Employees, id)
		s.staged.Employees = withoutEmployee(s.staged.Employees, id)
	case domain.FilterPriority:
		s.applied.Priorities = withoutString(s.applied.Priorities, key)
		s.staged.Priorities = withoutString(s.staged.Priorities, key)
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidCategory, category)
	}

	s.persist(ctx)
	return nil
}

// ClearAll empties every selection and deletes the persisted entries.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied = domain.FilterSelection{}.Clone()
	s.staged = domain.FilterSelection{}.Clone()

	for _, key := range []string{KeyDepartments, KeyEmployees, KeyPriorities} {
		if err := s.state.Delete(ctx, key); err != nil {
			slog.Warn("failed to delete filter state", "key", key, "error", err)
		}
	}
}

// persist writes the applied selection. Callers must hold s.mu.
func (s *Store) persist(ctx context.Context) {
	save(ctx, s.state, KeyDepartments, s.applied.Departments)
	save(ctx, s.state, KeyEmployees, s.applied.Employees)
	save(ctx, s.state, KeyPriorities, s.applied.Priorities)
}

func save[T any](ctx context.Context, state StateStore, key string, items []T) {
	raw, err := json.Marshal(items)
	if err != nil {
		slog.Warn("failed to encode filter state", "key", key, "error", err)
		return
	}
	if err := state.Put(ctx, key, raw); err != nil {
		slog.Warn("failed to write filter state", "key", key, "error", err)
	}
}

func parseID(key string) (int, error) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidKey, key)
	}
	return id, nil
}

func withoutDepartment(ds []domain.Department, id int) []domain.Department {
	out := make([]domain.Department, 0, len(ds))
	for _, d := range ds {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}

func withoutEmployee(es []domain.Employee, id int) []domain.Employee {
	out := make([]domain.Employee, 0, len(es))
	for _, e := range es {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func withoutString(ss []string, v string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
