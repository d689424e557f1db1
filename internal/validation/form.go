// Package validation implements per-field form validation with touched
// tracking for the task and employee forms.
package validation

import (
	"fmt"

	"github.com/mtlprog/momentum/internal/domain"
)

// Task form fields.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDeadline    = "deadline"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldDepartment  = "department"
	FieldEmployee    = "employee"
)

// Employee form fields. The department field is shared with the task form.
const (
	FieldName    = "name"
	FieldSurname = "surname"
	FieldAvatar  = "avatar"
)

// FieldState is the validation state of one field.
// Errors are only shown for touched fields.
type FieldState struct {
	Valid   bool            `json:"valid"`
	Touched bool            `json:"touched"`
	Checks  map[string]bool `json:"checks,omitempty"`
}

// ShowErrors reports whether the field should display its failures.
func (f FieldState) ShowErrors() bool {
	return f.Touched && !f.Valid
}

// Failed lists the checks that did not pass.
func (f FieldState) Failed() []string {
	var failed []string
	for _, name := range checkOrder {
		if ok, exists := f.Checks[name]; exists && !ok {
			failed = append(failed, name)
		}
	}
	return failed
}

var checkOrder = []string{
	CheckMinLength, CheckMaxLength, CheckMinWords, CheckFormat,
	CheckFutureDate, CheckPattern, CheckSize, CheckType,
}

func (f FieldState) clone() FieldState {
	out := FieldState{Valid: f.Valid, Touched: f.Touched}
	if f.Checks != nil {
		out.Checks = make(map[string]bool, len(f.Checks))
		for k, v := range f.Checks {
			out.Checks[k] = v
		}
	}
	return out
}

// Form is an ordered set of field states. It is not safe for concurrent
// use; callers serialise access.
type Form struct {
	order   []string
	fields  map[string]FieldState
	initial map[string]FieldState
}

func newForm(initial []fieldInit) *Form {
	f := &Form{
		fields:  make(map[string]FieldState, len(initial)),
		initial: make(map[string]FieldState, len(initial)),
	}
	for _, fi := range initial {
		f.order = append(f.order, fi.name)
		f.initial[fi.name] = fi.state
	}
	f.Reset()
	return f
}

type fieldInit struct {
	name  string
	state FieldState
}

// NewTaskForm returns the task creation form in its pristine state.
func NewTaskForm() *Form {
	return newForm([]fieldInit{
		{FieldTitle, FieldState{Checks: map[string]bool{CheckMinLength: false, CheckMaxLength: true}}},
		{FieldDescription, FieldState{Valid: true, Checks: map[string]bool{CheckMinWords: true, CheckMaxLength: true}}},
		{FieldPriority, FieldState{}},
		{FieldStatus, FieldState{}},
		{FieldDepartment, FieldState{}},
		{FieldEmployee, FieldState{}},
		{FieldDeadline, FieldState{Checks: map[string]bool{CheckFormat: false, CheckFutureDate: false}}},
	})
}

// NewEmployeeForm returns the employee creation form in its pristine state.
func NewEmployeeForm() *Form {
	nameChecks := func() map[string]bool {
		return map[string]bool{CheckMinLength: false, CheckMaxLength: true, CheckPattern: false}
	}
	return newForm([]fieldInit{
		{FieldName, FieldState{Checks: nameChecks()}},
		{FieldSurname, FieldState{Checks: nameChecks()}},
		{FieldAvatar, FieldState{Checks: map[string]bool{CheckSize: true, CheckType: true}}},
		{FieldDepartment, FieldState{}},
	})
}

// Set stores the check results of a field, recomputes its validity and
// marks it touched.
func (f *Form) Set(field string, checks map[string]bool) error {
	if _, ok := f.fields[field]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownField, field)
	}

	valid := true
	for _, ok := range checks {
		valid = valid && ok
	}
	f.fields[field] = FieldState{Valid: valid, Touched: true, Checks: checks}
	return nil
}

// SetAvatar stores the avatar checks. Without a file the field stays invalid.
func (f *Form) SetAvatar(file *domain.File) error {
	checks, present := Avatar(file)
	if err := f.Set(FieldAvatar, checks); err != nil {
		return err
	}
	if !present {
		st := f.fields[FieldAvatar]
		st.Valid = false
		f.fields[FieldAvatar] = st
	}
	return nil
}

// Select records a selection field. A made selection is valid.
func (f *Form) Select(field string, selected bool) error {
	if _, ok := f.fields[field]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownField, field)
	}
	f.fields[field] = FieldState{Valid: selected, Touched: true}
	return nil
}

// Prefill stores a default value's check results without marking the
// field touched. Nil checks record a made selection.
func (f *Form) Prefill(field string, checks map[string]bool) error {
	if _, ok := f.fields[field]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownField, field)
	}

	valid := true
	for _, ok := range checks {
		valid = valid && ok
	}
	f.fields[field] = FieldState{Valid: valid, Checks: checks}
	return nil
}

// Clear returns a single field to its pristine state.
func (f *Form) Clear(field string) {
	if st, ok := f.initial[field]; ok {
		f.fields[field] = st.clone()
	}
}

// TouchAll marks every field touched, as on submit.
func (f *Form) TouchAll() {
	for name, st := range f.fields {
		st.Touched = true
		f.fields[name] = st
	}
}

// Valid reports whether every field is valid.
func (f *Form) Valid() bool {
	for _, st := range f.fields {
		if !st.Valid {
			return false
		}
	}
	return true
}

// Field returns a copy of the state of one field.
func (f *Form) Field(field string) (FieldState, bool) {
	st, ok := f.fields[field]
	return st.clone(), ok
}

// Fields returns the field names in display order.
func (f *Form) Fields() []string {
	return append([]string(nil), f.order...)
}

// Snapshot returns a copy of every field state.
func (f *Form) Snapshot() map[string]FieldState {
	out := make(map[string]FieldState, len(f.fields))
	for name, st := range f.fields {
		out[name] = st.clone()
	}
	return out
}

// Reset returns every field to its pristine state.
func (f *Form) Reset() {
	for name, st := range f.initial {
		f.fields[name] = st.clone()
	}
}
