package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/mtlprog/momentum/internal/domain"
	"github.com/mtlprog/momentum/internal/validation"
)

// DraftKey is the storage key of the unsaved task form.
const DraftKey = "drafts.create-task"

// User-facing submit messages.
const (
	msgFormInvalid  = "Please fill all required fields correctly."
	msgCreateFailed = "Failed to create task. Please try again."
)

// TaskFormView is a snapshot of the task form.
type TaskFormView struct {
	Draft     domain.TaskDraft                 `json:"draft"`
	Fields    map[string]validation.FieldState `json:"fields"`
	Valid     bool                             `json:"valid"`
	Error     string                           `json:"error,omitempty"`
	Employees []domain.Employee                `json:"employees"`
}

// TaskFormService drives one task creation form: field validation,
// reference-data defaults, draft persistence and submission.
type TaskFormService struct {
	api   API
	state StateStore
	clock validation.Clock

	mu         sync.Mutex
	form       *validation.Form
	draft      domain.TaskDraft
	ref        Reference
	generation uint64
	closed     bool
	submitting bool
	lastError  string
}

// NewTaskFormService creates a TaskFormService. The form is usable after Mount.
func NewTaskFormService(api API, state StateStore, clock validation.Clock) *TaskFormService {
	if clock == nil {
		clock = validation.SystemClock
	}
	return &TaskFormService{
		api:    api,
		state:  state,
		clock:  clock,
		form:   validation.NewTaskForm(),
		closed: true,
	}
}

// Mount loads reference data, applies defaults and resumes the saved draft.
func (s *TaskFormService) Mount(ctx context.Context) error {
	ref, err := loadReference(ctx, s.api)
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ref = ref
	s.closed = false
	s.submitting = false
	s.generation++
	s.lastError = ""
	s.form.Reset()
	s.draft = domain.TaskDraft{}

	s.applyDefaults()
	s.resumeDraft(ctx)

	return nil
}

// applyDefaults preselects the "Starting" status, the "Medium" priority and
// tomorrow as the deadline. Defaults leave the fields untouched.
// Callers must hold s.mu.
func (s *TaskFormService) applyDefaults() {
	if len(s.ref.Statuses) > 0 {
		status := s.ref.Statuses[0]
		for _, st := range s.ref.Statuses {
			if st.Name == domain.DefaultStatusName {
				status = st
				break
			}
		}
		s.draft.Status = intPtr(status.ID)
		_ = s.form.Prefill(validation.FieldStatus, nil)
	}

	if len(s.ref.Priorities) > 0 {
		priority := s.ref.Priorities[0]
		if len(s.ref.Priorities) > 1 {
			priority = s.ref.Priorities[1]
		}
		for _, p := range s.ref.Priorities {
			if p.Name == domain.DefaultPriorityName {
				priority = p
				break
			}
		}
		s.draft.Priority = intPtr(priority.ID)
		_ = s.form.Prefill(validation.FieldPriority, nil)
	}

	now := s.clock()
	s.draft.Deadline = DefaultDeadline(now)
	_ = s.form.Prefill(validation.FieldDeadline, validation.Deadline(s.draft.Deadline, now))
}

// resumeDraft overlays the saved draft and revalidates the restored fields.
// Callers must hold s.mu.
func (s *TaskFormService) resumeDraft(ctx context.Context) {
	raw, err := s.state.Get(ctx, DraftKey)
	if err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) {
			slog.Warn("failed to read task draft", "error", err)
		}
		return
	}

	var d domain.TaskDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		slog.Warn("discarding corrupt task draft", "error", err)
		return
	}

	if d.Title != "" {
		s.draft.Title = d.Title
		_ = s.form.Set(validation.FieldTitle, validation.Title(d.Title))
	}
	if d.Description != "" {
		s.draft.Description = d.Description
		_ = s.form.Set(validation.FieldDescription, validation.Description(d.Description))
	}
	if d.Deadline != "" {
		s.draft.Deadline = d.Deadline
		_ = s.form.Set(validation.FieldDeadline, validation.Deadline(d.Deadline, s.clock()))
	}
	if d.Status != nil && s.ref.hasStatus(*d.Status) {
		s.draft.Status = intPtr(*d.Status)
		_ = s.form.Select(validation.FieldStatus, true)
	}
	if d.Priority != nil && s.ref.hasPriority(*d.Priority) {
		s.draft.Priority = intPtr(*d.Priority)
		_ = s.form.Select(validation.FieldPriority, true)
	}
	if d.Department != nil {
		if _, ok := s.ref.department(*d.Department); ok {
			s.draft.Department = intPtr(*d.Department)
			_ = s.form.Select(validation.FieldDepartment, true)
		}
	}
	if d.Employee != nil && s.draft.Department != nil {
		if e, ok := s.ref.employee(*d.Employee); ok && e.Department.ID == *s.draft.Department {
			s.draft.Employee = intPtr(e.ID)
			_ = s.form.Select(validation.FieldEmployee, true)
		}
	}
}

// saveDraft persists the current values. Callers must hold s.mu.
func (s *TaskFormService) saveDraft(ctx context.Context) {
	raw, err := json.Marshal(s.draft)
	if err != nil {
		slog.Warn("failed to encode task draft", "error", err)
		return
	}
	if err := s.state.Put(ctx, DraftKey, raw); err != nil {
		slog.Warn("failed to save task draft", "error", err)
	}
}

// IsOpen reports whether the form is mounted.
func (s *TaskFormService) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

func (s *TaskFormService) checkOpen() error {
	if s.closed {
		return domain.ErrFormClosed
	}
	return nil
}

// View returns a snapshot of the form.
func (s *TaskFormService) View() TaskFormView {
	s.mu.Lock()
	defer s.mu.Unlock()

	employees := []domain.Employee{}
	if s.draft.Department != nil {
		employees = s.ref.EmployeesOf(*s.draft.Department)
	}

	return TaskFormView{
		Draft:     copyDraft(s.draft),
		Fields:    s.form.Snapshot(),
		Valid:     s.form.Valid(),
		Error:     s.lastError,
		Employees: employees,
	}
}

// Reference returns the reference data loaded on Mount.
func (s *TaskFormService) Reference() Reference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ref
}

// SetTitle updates and validates the title.
func (s *TaskFormService) SetTitle(ctx context.Context, v string) error {
	return s.setText(ctx, validation.FieldTitle, func() { s.draft.Title = v }, validation.Title(v))
}

// SetDescription updates and validates the description.
func (s *TaskFormService) SetDescription(ctx context.Context, v string) error {
	return s.setText(ctx, validation.FieldDescription, func() { s.draft.Description = v }, validation.Description(v))
}

// SetDeadline updates and validates the DD.MM.YYYY deadline.
func (s *TaskFormService) SetDeadline(ctx context.Context, v string) error {
	return s.setText(ctx, validation.FieldDeadline, func() { s.draft.Deadline = v }, validation.Deadline(v, s.clock()))
}

func (s *TaskFormService) setText(ctx context.Context, field string, assign func(), checks map[string]bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	assign()
	if err := s.form.Set(field, checks); err != nil {
		return err
	}
	s.saveDraft(ctx)
	return nil
}

// SelectStatus selects a status by id.
func (s *TaskFormService) SelectStatus(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if !s.ref.hasStatus(id) {
		return fmt.Errorf("%w: %d", domain.ErrStatusNotFound, id)
	}
	s.draft.Status = intPtr(id)
	_ = s.form.Select(validation.FieldStatus, true)
	s.saveDraft(ctx)
	return nil
}

// SelectPriority selects a priority by id.
func (s *TaskFormService) SelectPriority(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if !s.ref.hasPriority(id) {
		return fmt.Errorf("%w: priority %d", domain.ErrNotFound, id)
	}
	s.draft.Priority = intPtr(id)
	_ = s.form.Select(validation.FieldPriority, true)
	s.saveDraft(ctx)
	return nil
}

// SelectDepartment selects a department and clears the employee, whose
// options depend on it.
func (s *TaskFormService) SelectDepartment(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if _, ok := s.ref.department(id); !ok {
		return fmt.Errorf("%w: department %d", domain.ErrNotFound, id)
	}
	s.draft.Department = intPtr(id)
	_ = s.form.Select(validation.FieldDepartment, true)

	s.draft.Employee = nil
	s.form.Clear(validation.FieldEmployee)

	s.saveDraft(ctx)
	return nil
}

// SelectEmployee selects an employee of the selected department.
func (s *TaskFormService) SelectEmployee(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.draft.Department == nil {
		return domain.ErrDepartmentNotSelected
	}
	e, ok := s.ref.employee(id)
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrEmployeeNotFound, id)
	}
	if e.Department.ID != *s.draft.Department {
		return fmt.Errorf("%w: employee %d, department %d", domain.ErrEmployeeNotInDepartment, id, *s.draft.Department)
	}
	s.draft.Employee = intPtr(id)
	_ = s.form.Select(validation.FieldEmployee, true)
	s.saveDraft(ctx)
	return nil
}

// Update sets a field from its string form, as received from a client.
func (s *TaskFormService) Update(ctx context.Context, field, value string) error {
	switch field {
	case validation.FieldTitle:
		return s.SetTitle(ctx, value)
	case validation.FieldDescription:
		return s.SetDescription(ctx, value)
	case validation.FieldDeadline:
		return s.SetDeadline(ctx, value)
	}

	id, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %s expects an id, got %q", domain.ErrInvalidKey, field, value)
	}

	switch field {
	case validation.FieldStatus:
		return s.SelectStatus(ctx, id)
	case validation.FieldPriority:
		return s.SelectPriority(ctx, id)
	case validation.FieldDepartment:
		return s.SelectDepartment(ctx, id)
	case validation.FieldEmployee:
		return s.SelectEmployee(ctx, id)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownField, field)
	}
}

// Submit creates the task if every field is valid. On success the form
// starts over and the draft is deleted; on failure the values are kept.
// Only one submit runs at a time; others get domain.ErrSubmitInProgress.
func (s *TaskFormService) Submit(ctx context.Context) (*domain.Task, error) {
	s.mu.Lock()
	if err := s.checkOpen(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, domain.ErrSubmitInProgress
	}

	s.form.TouchAll()
	if !s.form.Valid() {
		s.lastError = msgFormInvalid
		s.mu.Unlock()
		return nil, domain.ErrFormInvalid
	}

	dueDate, err := ToAPIDate(s.draft.Deadline)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", domain.ErrFormInvalid, err)
	}
	payload := domain.NewTask{
		Name:         s.draft.Title,
		Description:  s.draft.Description,
		DueDate:      dueDate,
		StatusID:     *s.draft.Status,
		EmployeeID:   *s.draft.Employee,
		PriorityID:   *s.draft.Priority,
		DepartmentID: *s.draft.Department,
	}
	generation := s.generation
	s.submitting = true
	s.mu.Unlock()

	task, err := s.api.CreateTask(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		slog.Debug("ignoring task submit result for a closed form", "error", err)
		if err != nil {
			return nil, fmt.Errorf("create task: %w", err)
		}
		return task, nil
	}

	s.submitting = false
	if err != nil {
		s.lastError = msgCreateFailed
		return nil, fmt.Errorf("create task: %w", err)
	}

	slog.Info("task created", "task_id", task.ID, "name", task.Name)

	s.lastError = ""
	s.form.Reset()
	s.draft = domain.TaskDraft{}
	if err := s.state.Delete(ctx, DraftKey); err != nil {
		slog.Warn("failed to delete task draft", "error", err)
	}
	s.applyDefaults()

	return task, nil
}

// Close unmounts the form. Results of a submit still in flight are ignored.
func (s *TaskFormService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++
}

func intPtr(v int) *int {
	return &v
}

func copyDraft(d domain.TaskDraft) domain.TaskDraft {
	out := d
	for _, p := range []**int{&out.Status, &out.Priority, &out.Department, &out.Employee} {
		if *p != nil {
			*p = intPtr(**p)
		}
	}
	return out
}
