package service

import (
	"context"

	"github.com/mtlprog/momentum/internal/domain"
)

// API is the subset of the remote API the services depend on.
type API interface {
	Departments(ctx context.Context) ([]domain.Department, error)
	Employees(ctx context.Context) ([]domain.Employee, error)
	Statuses(ctx context.Context) ([]domain.Status, error)
	Priorities(ctx context.Context) ([]domain.Priority, error)
	Tasks(ctx context.Context) ([]domain.Task, error)
	Task(ctx context.Context, id int) (*domain.Task, error)
	TaskComments(ctx context.Context, taskID int) ([]domain.Comment, error)
	CreateTask(ctx context.Context, task domain.NewTask) (*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID, statusID int) (*domain.Task, error)
	CreateComment(ctx context.Context, taskID int, text string, parentID *int) (*domain.Comment, error)
	CreateEmployee(ctx context.Context, e domain.NewEmployee) (*domain.Employee, error)
}

// StateStore is durable key/value storage for drafts.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Reference is the lookup data forms select from.
type Reference struct {
	Statuses    []domain.Status     `json:"statuses"`
	Priorities  []domain.Priority   `json:"priorities"`
	Departments []domain.Department `json:"departments"`
	Employees   []domain.Employee   `json:"employees"`
}

// loadReference fetches every reference list.
func loadReference(ctx context.Context, api API) (Reference, error) {
	var (
		ref Reference
		err error
	)
	if ref.Statuses, err = api.Statuses(ctx); err != nil {
		return Reference{}, err
	}
	if ref.Priorities, err = api.Priorities(ctx); err != nil {
		return Reference{}, err
	}
	if ref.Departments, err = api.Departments(ctx); err != nil {
		return Reference{}, err
	}
	if ref.Employees, err = api.Employees(ctx); err != nil {
		return Reference{}, err
	}
	return ref, nil
}

// EmployeesOf returns the employees of a department.
func (r Reference) EmployeesOf(departmentID int) []domain.Employee {
	out := []domain.Employee{}
	for _, e := range r.Employees {
		if e.Department.ID == departmentID {
			out = append(out, e)
		}
	}
	return out
}

func (r Reference) hasStatus(id int) bool {
	for _, s := range r.Statuses {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (r Reference) hasPriority(id int) bool {
	for _, p := range r.Priorities {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (r Reference) department(id int) (domain.Department, bool) {
	for _, d := range r.Departments {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Department{}, false
}

func (r Reference) employee(id int) (domain.Employee, bool) {
	for _, e := range r.Employees {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Employee{}, false
}
