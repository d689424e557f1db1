package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/mtlprog/momentum/internal/domain"
	"github.com/mtlprog/momentum/internal/validation"
)

const msgEmployeeFailed = "Failed to create employee. Please try again."

// AvatarInfo describes a chosen avatar without its content.
type AvatarInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	HumanSize   string `json:"human_size"`
}

// EmployeeFormView is a snapshot of the employee form.
type EmployeeFormView struct {
	Name       string                           `json:"name"`
	Surname    string                           `json:"surname"`
	Department *int                             `json:"department"`
	Avatar     *AvatarInfo                      `json:"avatar"`
	Fields     map[string]validation.FieldState `json:"fields"`
	Valid      bool                             `json:"valid"`
	Error      string                           `json:"error,omitempty"`
}

// EmployeeFormService drives the employee creation form.
type EmployeeFormService struct {
	api API

	mu          sync.Mutex
	form        *validation.Form
	name        string
	surname     string
	department  *int
	avatar      *domain.File
	departments []domain.Department
	generation  uint64
	lastError   string
}

// NewEmployeeFormService creates an EmployeeFormService.
func NewEmployeeFormService(api API) *EmployeeFormService {
	return &EmployeeFormService{
		api:  api,
		form: validation.NewEmployeeForm(),
	}
}

// Mount loads the departments an employee can belong to.
func (s *EmployeeFormService) Mount(ctx context.Context) error {
	departments, err := s.api.Departments(ctx)
	if err != nil {
		return fmt.Errorf("load departments: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.departments = departments
	return nil
}

// SetName updates and validates the first name.
func (s *EmployeeFormService) SetName(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = v
	_ = s.form.Set(validation.FieldName, validation.PersonName(v))
}

// SetSurname updates and validates the surname.
func (s *EmployeeFormService) SetSurname(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surname = v
	_ = s.form.Set(validation.FieldSurname, validation.PersonName(v))
}

// SetAvatar stores an avatar. The content type is detected from the data.
func (s *EmployeeFormService) SetAvatar(name string, data []byte) AvatarInfo {
	file := &domain.File{
		Name:        name,
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.avatar = file
	_ = s.form.SetAvatar(file)

	return avatarInfo(file)
}

// RemoveAvatar drops the chosen avatar.
func (s *EmployeeFormService) RemoveAvatar() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.avatar = nil
	_ = s.form.SetAvatar(nil)
}

// SelectDepartment selects the department of the new employee.
func (s *EmployeeFormService) SelectDepartment(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, d := range s.departments {
		if d.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: department %d", domain.ErrNotFound, id)
	}

	s.department = intPtr(id)
	_ = s.form.Select(validation.FieldDepartment, true)
	return nil
}

// View returns a snapshot of the form.
func (s *EmployeeFormService) View() EmployeeFormView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := EmployeeFormView{
		Name:    s.name,
		Surname: s.surname,
		Fields:  s.form.Snapshot(),
		Valid:   s.form.Valid(),
		Error:   s.lastError,
	}
	if s.department != nil {
		v.Department = intPtr(*s.department)
	}
	if s.avatar != nil {
		info := avatarInfo(s.avatar)
		v.Avatar = &info
	}
	return v
}

// Submit creates the employee if every field is valid. On success the
// form is cleared; on failure the values are kept.
func (s *EmployeeFormService) Submit(ctx context.Context) (*domain.Employee, error) {
	s.mu.Lock()
	s.form.TouchAll()
	if !s.form.Valid() {
		s.lastError = msgFormInvalid
		s.mu.Unlock()
		return nil, domain.ErrFormInvalid
	}

	payload := domain.NewEmployee{
		Name:         s.name,
		Surname:      s.surname,
		DepartmentID: *s.department,
		Avatar:       s.avatar,
	}
	generation := s.generation
	s.mu.Unlock()

	employee, err := s.api.CreateEmployee(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		slog.Debug("ignoring employee submit result for a closed form", "error", err)
		if err != nil {
			return nil, fmt.Errorf("create employee: %w", err)
		}
		return employee, nil
	}

	if err != nil {
		s.lastError = msgEmployeeFailed
		return nil, fmt.Errorf("create employee: %w", err)
	}

	slog.Info("employee created", "employee_id", employee.ID, "department_id", payload.DepartmentID)
	s.reset()
	return employee, nil
}

// Close discards the form values. Results of a submit still in flight are ignored.
func (s *EmployeeFormService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.generation++
}

// reset clears values and validation state. Callers must hold s.mu.
func (s *EmployeeFormService) reset() {
	s.name = ""
	s.surname = ""
	s.department = nil
	s.avatar = nil
	s.lastError = ""
	s.form.Reset()
}

func avatarInfo(f *domain.File) AvatarInfo {
	return AvatarInfo{
		Name:        f.Name,
		ContentType: f.ContentType,
		Size:        f.Size(),
		HumanSize:   humanize.IBytes(uint64(f.Size())),
	}
}
