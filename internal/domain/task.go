package domain

// Department is an organisational unit tasks and employees belong to.
type Department struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Employee is a person tasks can be assigned to.
type Employee struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Surname    string     `json:"surname"`
	Avatar     string     `json:"avatar"`
	Department Department `json:"department"`
}

// FullName returns "Name Surname".
func (e Employee) FullName() string {
	return e.Name + " " + e.Surname
}

// Priority is one of the fixed task priorities.
type Priority struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Status is one of the fixed task statuses.
type Status struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Well-known status ids, in board column order.
const (
	StatusStarting   = 1
	StatusInProgress = 2
	StatusReady      = 3
	StatusDone       = 4
)

// StatusOrder is the fixed left-to-right order of board columns.
var StatusOrder = []int{StatusStarting, StatusInProgress, StatusReady, StatusDone}

// Default reference names picked when a task form is mounted.
const (
	DefaultStatusName   = "Starting"
	DefaultPriorityName = "Medium"
)

// Task is a unit of work as returned by the remote API.
type Task struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	DueDate       string     `json:"due_date"`
	Department    Department `json:"department"`
	Employee      Employee   `json:"employee"`
	Status        Status     `json:"status"`
	Priority      Priority   `json:"priority"`
	TotalComments int        `json:"total_comments"`
}

// NewTask is the payload for creating a task.
type NewTask struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DueDate      string `json:"due_date"`
	StatusID     int    `json:"status_id"`
	EmployeeID   int    `json:"employee_id"`
	PriorityID   int    `json:"priority_id"`
	DepartmentID int    `json:"department_id"`
}

// NewEmployee is the payload for creating an employee.
type NewEmployee struct {
	Name         string
	Surname      string
	DepartmentID int
	Avatar       *File
}

// File is an uploaded file held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the file size in bytes.
func (f *File) Size() int64 {
	return int64(len(f.Data))
}
