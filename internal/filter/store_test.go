package filter_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/momentum/internal/database"
	"github.com/mtlprog/momentum/internal/domain"
	"github.com/mtlprog/momentum/internal/filter"
	"github.com/mtlprog/momentum/internal/repository"
)

type memState struct {
	mu      sync.Mutex
	values  map[string][]byte
	puts    int
	failPut bool
	failGet bool
}

func newMemState() *memState {
	return &memState{values: map[string][]byte{}}
}

func (m *memState) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("disk on fire")
	}
	v, ok := m.values[key]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	return v, nil
}

func (m *memState) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return errors.New("disk full")
	}
	m.puts++
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memState) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

var (
	design    = domain.Department{ID: 1, Name: "Design"}
	marketing = domain.Department{ID: 2, Name: "Marketing"}
	nino      = domain.Employee{ID: 7, Name: "Nino", Surname: "Beridze", Department: design}
	giorgi    = domain.Employee{ID: 8, Name: "Giorgi", Surname: "Kapanadze", Department: marketing}
)

func TestNew_EmptyState(t *testing.T) {
	s := filter.New(context.Background(), newMemState())

	assert.True(t, s.Applied().IsEmpty())
	assert.True(t, s.Staged().IsEmpty())
	assert.NotNil(t, s.Applied().Departments)
}

func TestToggle_DoesNotTouchApplied(t *testing.T) {
	s := filter.New(context.Background(), newMemState())

	s.ToggleDepartment(design)
	s.TogglePriority("High")

	assert.True(t, s.Applied().IsEmpty())
	assert.Equal(t, []domain.Department{design}, s.Staged().Departments)
	assert.Equal(t, []string{"High"}, s.Staged().Priorities)
}

func TestToggleDepartment_TwiceRemoves(t *testing.T) {
	s := filter.New(context.Background(), newMemState())

	s.ToggleDepartment(design)
	s.ToggleDepartment(marketing)
	s.ToggleDepartment(design)

	assert.Equal(t, []domain.Department{marketing}, s.Staged().Departments)
}

func TestTogglePriority_TwiceRemoves(t *testing.T) {
	s := filter.New(context.Background(), newMemState())

	s.TogglePriority("Low")
	s.TogglePriority("Low")

	assert.Empty(t, s.Staged().Priorities)
}

func TestToggleEmployee_SingleSelect(t *testing.T) {
	s := filter.New(context.Background(), newMemState())

	s.ToggleEmployee(nino)
	s.ToggleEmployee(giorgi)
	assert.Equal(t, []domain.Employee{giorgi}, s.Staged().Employees)

	s.ToggleEmployee(giorgi)
	assert.Empty(t, s.Staged().Employees)
}

func TestApply_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	s := filter.New(ctx, state)

	s.ToggleDepartment(design)
	s.ToggleEmployee(nino)
	s.TogglePriority("High")
	applied := s.Apply(ctx)

	assert.Equal(t, s.Staged(), applied)

	reloaded := filter.New(ctx, state)
	assert.Equal(t, applied, reloaded.Applied())
	assert.Equal(t, applied, reloaded.Staged())
}

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	s := filter.New(ctx, state)

	s.ToggleDepartment(design)
	first := s.Apply(ctx)
	payload := string(state.values[filter.KeyDepartments])

	second := s.Apply(ctx)
	assert.Equal(t, first, second)
	assert.Equal(t, payload, string(state.values[filter.KeyDepartments]))
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	s := filter.New(ctx, state)

	s.ToggleDepartment(design)
	s.ToggleDepartment(marketing)
	s.Apply(ctx)

	require.NoError(t, s.Remove(ctx, domain.FilterDepartment, "1"))

	assert.Equal(t, []domain.Department{marketing}, s.Applied().Departments)
	assert.Equal(t, []domain.Department{marketing}, s.Staged().Departments)
	assert.JSONEq(t, `[{"id":2,"name":"Marketing"}]`, string(state.values[filter.KeyDepartments]))
}

func TestRemove_Priority(t *testing.T) {
	ctx := context.Background()
	s := filter.New(ctx, newMemState())

	s.TogglePriority("High")
	s.TogglePriority("Low")
	s.Apply(ctx)

	require.NoError(t, s.Remove(ctx, domain.FilterPriority, "High"))
	assert.Equal(t, []string{"Low"}, s.Applied().Priorities)
}

func TestRemove_InvalidInput(t *testing.T) {
	ctx := context.Background()
	s := filter.New(ctx, newMemState())

	assert.ErrorIs(t, s.Remove(ctx, domain.FilterEmployee, "abc"), domain.ErrInvalidKey)
	assert.ErrorIs(t, s.Remove(ctx, domain.FilterCategory("colour"), "1"), domain.ErrInvalidCategory)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	s := filter.New(ctx, state)

	s.ToggleDepartment(design)
	s.ToggleEmployee(nino)
	s.Apply(ctx)
	s.TogglePriority("High")

	s.ClearAll(ctx)

	assert.True(t, s.Applied().IsEmpty())
	assert.True(t, s.Staged().IsEmpty())
	assert.Empty(t, state.values)
}

func TestDiscardStaged(t *testing.T) {
	ctx := context.Background()
	s := filter.New(ctx, newMemState())

	s.ToggleDepartment(design)
	s.Apply(ctx)
	s.ToggleDepartment(marketing)

	s.DiscardStaged()
	assert.Equal(t, s.Applied(), s.Staged())
}

func TestNew_CorruptStateFallsBack(t *testing.T) {
	state := newMemState()
	state.values[filter.KeyDepartments] = []byte(`{not json`)
	state.values[filter.KeyPriorities] = []byte(`["High"]`)

	s := filter.New(context.Background(), state)

	assert.Empty(t, s.Applied().Departments)
	assert.Equal(t, []string{"High"}, s.Applied().Priorities)
}

func TestNew_UnreadableStateFallsBack(t *testing.T) {
	state := newMemState()
	state.failGet = true

	s := filter.New(context.Background(), state)
	assert.True(t, s.Applied().IsEmpty())
}

func TestApply_WriteFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	state.failPut = true
	s := filter.New(ctx, state)

	s.TogglePriority("High")
	s.Apply(ctx)

	assert.Equal(t, []string{"High"}, s.Applied().Priorities)
	assert.Empty(t, state.values)
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := filter.New(context.Background(), newMemState())
	s.TogglePriority("High")

	staged := s.Staged()
	staged.Priorities[0] = "Low"

	assert.Equal(t, []string{"High"}, s.Staged().Priorities)
}

func TestStore_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := database.Setup(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	s := filter.New(ctx, repository.NewStateRepository(db))
	s.ToggleDepartment(design)
	s.ToggleEmployee(nino)
	s.TogglePriority("Medium")
	applied := s.Apply(ctx)

	reloaded := filter.New(ctx, repository.NewStateRepository(db))
	assert.Equal(t, applied, reloaded.Applied())
}
