package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/mtlprog/momentum/internal/domain"
)

var (
	design    = domain.Department{ID: 1, Name: "Design"}
	marketing = domain.Department{ID: 2, Name: "Marketing"}
	nino      = domain.Employee{ID: 7, Name: "Nino", Surname: "Beridze", Department: design}
	giorgi    = domain.Employee{ID: 8, Name: "Giorgi", Surname: "Kapanadze", Department: marketing}
)

// fakeAPI is an in-memory API.
type fakeAPI struct {
	mu sync.Mutex

	departments []domain.Department
	employees   []domain.Employee
	statuses    []domain.Status
	priorities  []domain.Priority
	tasks       []domain.Task
	comments    map[int][]domain.Comment

	createdTasks     []domain.NewTask
	createdEmployees []domain.NewEmployee
	createdComments  []string
	statusUpdates    [][2]int

	createErr error
	listErr   error
	// onCreate runs inside CreateTask before it returns.
	onCreate func()
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		departments: []domain.Department{design, marketing},
		employees:   []domain.Employee{nino, giorgi},
		statuses: []domain.Status{
			{ID: 1, Name: "Starting"},
			{ID: 2, Name: "In progress"},
			{ID: 3, Name: "Ready for testing"},
			{ID: 4, Name: "Done"},
		},
		priorities: []domain.Priority{
			{ID: 1, Name: "Low"},
			{ID: 2, Name: "Medium"},
			{ID: 3, Name: "High"},
		},
		comments: map[int][]domain.Comment{},
	}
}

var errRemote = errors.Join(domain.ErrRemote, errors.New("503 service unavailable"))

func (f *fakeAPI) Departments(context.Context) ([]domain.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.departments, nil
}

func (f *fakeAPI) Employees(context.Context) ([]domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.employees, nil
}

func (f *fakeAPI) Statuses(context.Context) ([]domain.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.statuses, nil
}

func (f *fakeAPI) Priorities(context.Context) ([]domain.Priority, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.priorities, nil
}

func (f *fakeAPI) Tasks(context.Context) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks, nil
}

func (f *fakeAPI) Task(_ context.Context, id int) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			t := f.tasks[i]
			return &t, nil
		}
	}
	return nil, errors.Join(domain.ErrRemote, domain.ErrNotFound)
}

func (f *fakeAPI) TaskComments(_ context.Context, taskID int) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.comments[taskID], nil
}

func (f *fakeAPI) CreateTask(_ context.Context, task domain.NewTask) (*domain.Task, error) {
	if f.onCreate != nil {
		f.onCreate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdTasks = append(f.createdTasks, task)
	return &domain.Task{ID: 100 + len(f.createdTasks), Name: task.Name}, nil
}

func (f *fakeAPI) UpdateTaskStatus(_ context.Context, taskID, statusID int) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusUpdates = append(f.statusUpdates, [2]int{taskID, statusID})
	return &domain.Task{ID: taskID, Status: domain.Status{ID: statusID}}, nil
}

func (f *fakeAPI) CreateComment(_ context.Context, taskID int, text string, parentID *int) (*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdComments = append(f.createdComments, text)
	return &domain.Comment{ID: 50 + len(f.createdComments), Text: text, TaskID: taskID, ParentID: parentID}, nil
}

func (f *fakeAPI) CreateEmployee(_ context.Context, e domain.NewEmployee) (*domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdEmployees = append(f.createdEmployees, e)
	return &domain.Employee{ID: 30, Name: e.Name, Surname: e.Surname}, nil
}

// memState is an in-memory StateStore.
type memState struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemState() *memState {
	return &memState{values: map[string][]byte{}}
}

func (m *memState) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	return v, nil
}

func (m *memState) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memState) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memState) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}
