package domain

// TaskDraft is the unsaved state of the task creation form.
// Nil ids mean "nothing selected".
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      *int   `json:"status"`
	Priority    *int   `json:"priority"`
	Department  *int   `json:"department"`
	Employee    *int   `json:"employee"`
	Deadline    string `json:"deadline"`
}

// IsZero reports whether the draft carries no user input.
func (d TaskDraft) IsZero() bool {
	return d.Title == "" && d.Description == "" && d.Deadline == "" &&
		d.Status == nil && d.Priority == nil && d.Department == nil && d.Employee == nil
}
