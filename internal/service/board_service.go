package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mtlprog/momentum/internal/board"
	"github.com/mtlprog/momentum/internal/domain"
	"github.com/mtlprog/momentum/internal/filter"
)

// FilterView is the applied and staged filter state.
type FilterView struct {
	Applied    domain.FilterSelection `json:"applied"`
	Staged     domain.FilterSelection `json:"staged"`
	Chips      []domain.FilterChip    `json:"chips"`
	HasFilters bool                   `json:"has_filters"`
}

// BoardService builds the filtered board and edits its filters.
type BoardService struct {
	api     API
	filters *filter.Store
}

// NewBoardService creates a BoardService.
func NewBoardService(api API, filters *filter.Store) *BoardService {
	return &BoardService{
		api:     api,
		filters: filters,
	}
}

// Board fetches the tasks and groups those matching the applied filters.
func (s *BoardService) Board(ctx context.Context) (board.Board, error) {
	statuses, err := s.api.Statuses(ctx)
	if err != nil {
		return board.Board{}, fmt.Errorf("load statuses: %w", err)
	}
	tasks, err := s.api.Tasks(ctx)
	if err != nil {
		return board.Board{}, fmt.Errorf("load tasks: %w", err)
	}

	return board.Build(tasks, s.filters.Applied(), statuses), nil
}

// Filters returns the current filter state.
func (s *BoardService) Filters() FilterView {
	applied := s.filters.Applied()
	return FilterView{
		Applied:    applied,
		Staged:     s.filters.Staged(),
		Chips:      applied.Chips(),
		HasFilters: !applied.IsEmpty(),
	}
}

// ToggleFilter stages or unstages the item identified by key.
// Department and employee keys are ids; priority keys are names.
func (s *BoardService) ToggleFilter(ctx context.Context, category domain.FilterCategory, key string) (FilterView, error) {
	switch category {
	case domain.FilterDepartment:
		d, err := s.findDepartment(ctx, key)
		if err != nil {
			return FilterView{}, err
		}
		s.filters.ToggleDepartment(d)
	case domain.FilterEmployee:
		e, err := s.findEmployee(ctx, key)
		if err != nil {
			return FilterView{}, err
		}
		s.filters.ToggleEmployee(e)
	case domain.FilterPriority:
		p, err := s.findPriority(ctx, key)
		if err != nil {
			return FilterView{}, err
		}
		s.filters.TogglePriority(p.Name)
	default:
		return FilterView{}, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, category)
	}
	return s.Filters(), nil
}

// ApplyFilters commits the staged filters.
func (s *BoardService) ApplyFilters(ctx context.Context) FilterView {
	s.filters.Apply(ctx)
	return s.Filters()
}

// DiscardFilters drops staged changes.
func (s *BoardService) DiscardFilters() FilterView {
	s.filters.DiscardStaged()
	return s.Filters()
}

// RemoveFilter removes one applied criterion.
func (s *BoardService) RemoveFilter(ctx context.Context, category domain.FilterCategory, key string) (FilterView, error) {
	if err := s.filters.Remove(ctx, category, key); err != nil {
		return FilterView{}, err
	}
	return s.Filters(), nil
}

// ClearFilters removes every filter.
func (s *BoardService) ClearFilters(ctx context.Context) FilterView {
	s.filters.ClearAll(ctx)
	return s.Filters()
}

func (s *BoardService) findDepartment(ctx context.Context, key string) (domain.Department, error) {
	id, err := parseKey(key)
	if err != nil {
		return domain.Department{}, err
	}
	departments, err := s.api.Departments(ctx)
	if err != nil {
		return domain.Department{}, fmt.Errorf("load departments: %w", err)
	}
	for _, d := range departments {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Department{}, fmt.Errorf("%w: department %d", domain.ErrNotFound, id)
}

func (s *BoardService) findEmployee(ctx context.Context, key string) (domain.Employee, error) {
	id, err := parseKey(key)
	if err != nil {
		return domain.Employee{}, err
	}
	employees, err := s.api.Employees(ctx)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("load employees: %w", err)
	}
	for _, e := range employees {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.Employee{}, fmt.Errorf("%w: %d", domain.ErrEmployeeNotFound, id)
}

// findPriority accepts a priority name or id.
func (s *BoardService) findPriority(ctx context.Context, key string) (domain.Priority, error) {
	priorities, err := s.api.Priorities(ctx)
	if err != nil {
		return domain.Priority{}, fmt.Errorf("load priorities: %w", err)
	}
	for _, p := range priorities {
		if p.Name == key || strconv.Itoa(p.ID) == key {
			return p, nil
		}
	}
	return domain.Priority{}, fmt.Errorf("%w: priority %q", domain.ErrNotFound, key)
}

func parseKey(key string) (int, error) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidKey, key)
	}
	return id, nil
}
