package domain

import (
	"fmt"
	"strconv"
)

// FilterCategory names one of the filterable task attributes.
type FilterCategory string

const (
	FilterDepartment FilterCategory = "department"
	FilterEmployee   FilterCategory = "employee"
	FilterPriority   FilterCategory = "priority"
)

// FilterCategories lists all categories in display order.
var FilterCategories = []FilterCategory{FilterDepartment, FilterEmployee, FilterPriority}

// ParseFilterCategory converts a string into a FilterCategory.
func ParseFilterCategory(s string) (FilterCategory, error) {
	switch c := FilterCategory(s); c {
	case FilterDepartment, FilterEmployee, FilterPriority:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

// FilterSelection holds the chosen criteria for each category.
// An empty category imposes no constraint.
type FilterSelection struct {
	Departments []Department `json:"departments"`
	Employees   []Employee   `json:"employees"`
	Priorities  []string     `json:"priorities"`
}

// IsEmpty reports whether no category has any criteria.
func (f FilterSelection) IsEmpty() bool {
	return len(f.Departments) == 0 && len(f.Employees) == 0 && len(f.Priorities) == 0
}

// Clone returns a deep copy.
func (f FilterSelection) Clone() FilterSelection {
	return FilterSelection{
		Departments: append([]Department{}, f.Departments...),
		Employees:   append([]Employee{}, f.Employees...),
		Priorities:  append([]string{}, f.Priorities...),
	}
}

// Matches reports whether the task satisfies every non-empty category.
func (f FilterSelection) Matches(t *Task) bool {
	if len(f.Departments) > 0 && !containsDepartment(f.Departments, t.Department.ID) {
		return false
	}
	if len(f.Employees) > 0 && !containsEmployee(f.Employees, t.Employee.ID) {
		return false
	}
	if len(f.Priorities) > 0 && !containsString(f.Priorities, t.Priority.Name) {
		return false
	}
	return true
}

// FilterChip is one applied criterion, as shown in the "chosen filters" summary.
type FilterChip struct {
	Category FilterCategory `json:"category"`
	Key      string         `json:"key"`
	Label    string         `json:"label"`
}

// Chips flattens the selection into removable chips.
func (f FilterSelection) Chips() []FilterChip {
	chips := make([]FilterChip, 0, len(f.Departments)+len(f.Employees)+len(f.Priorities))
	for _, d := range f.Departments {
		chips = append(chips, FilterChip{Category: FilterDepartment, Key: strconv.Itoa(d.ID), Label: d.Name})
	}
	for _, e := range f.Employees {
		chips = append(chips, FilterChip{Category: FilterEmployee, Key: strconv.Itoa(e.ID), Label: e.FullName()})
	}
	for _, p := range f.Priorities {
		chips = append(chips, FilterChip{Category: FilterPriority, Key: p, Label: p})
	}
	return chips
}

func containsDepartment(ds []Department, id int) bool {
	for _, d := range ds {
		if d.ID == id {
			return true
		}
	}
	return false
}

func containsEmployee(es []Employee, id int) bool {
	for _, e := range es {
		if e.ID == id {
			return true
		}
	}
	return false
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
