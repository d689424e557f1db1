package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/mtlprog/momentum/internal/board"
	"github.com/mtlprog/momentum/internal/domain"
	"github.com/mtlprog/momentum/internal/service"
	"github.com/mtlprog/momentum/internal/validation"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#08A508"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FA4D4D"))
)

var checkLabels = map[string]string{
	validation.CheckMinLength:  "too short",
	validation.CheckMaxLength:  "too long",
	validation.CheckMinWords:   "at least " + strconv.Itoa(validation.DescriptionMinWords) + " words",
	validation.CheckFormat:     "use DD.MM.YYYY",
	validation.CheckFutureDate: "must be after today",
	validation.CheckPattern:    "Latin or Georgian letters only",
	validation.CheckSize:       "at most " + humanize.IBytes(validation.AvatarMaxSize),
	validation.CheckType:       "must be an image",
}

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct {
	now func() time.Time
}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{now: time.Now}
}

func colored(hex, s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(s)
}

// FormatBoard prints one block per status column.
func (f *HumanFormatter) FormatBoard(b board.Board) string {
	var sb strings.Builder

	if len(b.Filters) > 0 {
		sb.WriteString(mutedStyle.Render("Filters: "+chipList(b.Filters)) + "\n\n")
	}

	for _, col := range b.Columns {
		name := col.Status.Name
		if name == "" {
			name = "Status " + strconv.Itoa(col.Status.ID)
		}
		header := fmt.Sprintf("%s (%d)", name, len(col.Tasks))
		sb.WriteString(titleStyle.Foreground(lipgloss.Color(StatusColor(col.Status.ID))).Render(header) + "\n")

		if len(col.Tasks) == 0 {
			sb.WriteString(mutedStyle.Render("  no tasks") + "\n")
		}
		for i := range col.Tasks {
			sb.WriteString("  " + f.taskLine(&col.Tasks[i]) + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(english.Plural(b.Total, "task", "") + "\n")
	return sb.String()
}

func (f *HumanFormatter) taskLine(t *domain.Task) string {
	parts := []string{
		fmt.Sprintf("#%d %s", t.ID, t.Name),
		colored(PriorityColor(t.Priority.ID), "["+t.Priority.Name+"]"),
		colored(DepartmentColor(t.Department.Name), t.Department.Name),
	}
	if t.Employee.ID != 0 {
		parts = append(parts, t.Employee.FullName())
	}
	if due, err := ParseDueDate(t.DueDate); err == nil {
		parts = append(parts, "due "+GeorgianDate(due))
	}
	parts = append(parts, english.Plural(t.TotalComments, "comment", ""))
	return strings.Join(parts, " · ")
}

// FormatTask prints the task page: details, statuses and comments.
func (f *HumanFormatter) FormatTask(d *service.TaskDetail) string {
	var sb strings.Builder
	t := d.Task

	sb.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", t.ID, t.Name)) + "\n")
	sb.WriteString(fmt.Sprintf("  Status:     %s\n", colored(StatusColor(t.Status.ID), t.Status.Name)))
	sb.WriteString(fmt.Sprintf("  Priority:   %s\n", colored(PriorityColor(t.Priority.ID), t.Priority.Name)))
	sb.WriteString(fmt.Sprintf("  Department: %s\n", colored(DepartmentColor(t.Department.Name), t.Department.Name)))
	if t.Employee.ID != 0 {
		sb.WriteString(fmt.Sprintf("  Employee:   %s\n", t.Employee.FullName()))
	}
	if due, err := ParseDueDate(t.DueDate); err == nil {
		sb.WriteString(fmt.Sprintf("  Due:        %s\n", GeorgianDate(due)))
	}
	if t.Description != "" {
		sb.WriteString("\n" + t.Description + "\n")
	}

	if len(d.Statuses) > 0 {
		names := make([]string, 0, len(d.Statuses))
		for _, st := range d.Statuses {
			names = append(names, fmt.Sprintf("%d=%s", st.ID, st.Name))
		}
		sb.WriteString(mutedStyle.Render("\nStatuses: "+strings.Join(names, ", ")) + "\n")
	}

	sb.WriteString("\n" + titleStyle.Render("Comments ("+strconv.Itoa(countComments(d.Comments))+")") + "\n")
	now := f.now()
	for _, c := range d.Comments {
		f.writeComment(&sb, c, "  ", now)
		for _, r := range c.Replies {
			f.writeComment(&sb, r, "      ", now)
		}
	}
	return sb.String()
}

func (f *HumanFormatter) writeComment(sb *strings.Builder, c domain.Comment, indent string, now time.Time) {
	when := ""
	if !c.CreatedAt.IsZero() {
		when = " " + mutedStyle.Render(humanize.RelTime(c.CreatedAt, now, "ago", "from now"))
	}
	sb.WriteString(fmt.Sprintf("%s[%d] %s%s\n", indent, c.ID, titleStyle.Render(c.Author.Name), when))
	sb.WriteString(indent + "    " + c.Text + "\n")
}

func countComments(cs []domain.Comment) int {
	n := len(cs)
	for _, c := range cs {
		n += len(c.Replies)
	}
	return n
}

// FormatFilters prints the applied chips and the staged selection.
func (f *HumanFormatter) FormatFilters(v service.FilterView) string {
	var sb strings.Builder

	applied := "none"
	if len(v.Chips) > 0 {
		applied = chipList(v.Chips)
	}
	sb.WriteString("Applied: " + applied + "\n")

	staged := v.Staged.Chips()
	if len(staged) > 0 && !sameChips(staged, v.Chips) {
		sb.WriteString(mutedStyle.Render("Staged:  "+chipList(staged)) + "\n")
	}
	return sb.String()
}

func chipList(chips []domain.FilterChip) string {
	labels := make([]string, 0, len(chips))
	for _, c := range chips {
		labels = append(labels, fmt.Sprintf("%s:%s", c.Category, c.Label))
	}
	return strings.Join(labels, ", ")
}

func sameChips(a, b []domain.FilterChip) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FormatTaskForm prints the form values and the failures of touched fields.
func (f *HumanFormatter) FormatTaskForm(v service.TaskFormView) string {
	values := map[string]string{
		validation.FieldTitle:       v.Draft.Title,
		validation.FieldDescription: v.Draft.Description,
		validation.FieldDeadline:    v.Draft.Deadline,
		validation.FieldStatus:      idString(v.Draft.Status),
		validation.FieldPriority:    idString(v.Draft.Priority),
		validation.FieldDepartment:  idString(v.Draft.Department),
		validation.FieldEmployee:    idString(v.Draft.Employee),
	}
	order := validation.NewTaskForm().Fields()
	return formatForm(order, values, v.Fields, v.Error)
}

// FormatEmployeeForm prints the employee form values and failures.
func (f *HumanFormatter) FormatEmployeeForm(v service.EmployeeFormView) string {
	avatar := ""
	if v.Avatar != nil {
		avatar = fmt.Sprintf("%s (%s, %s)", v.Avatar.Name, v.Avatar.ContentType, v.Avatar.HumanSize)
	}
	values := map[string]string{
		validation.FieldName:       v.Name,
		validation.FieldSurname:    v.Surname,
		validation.FieldAvatar:     avatar,
		validation.FieldDepartment: idString(v.Department),
	}
	order := validation.NewEmployeeForm().Fields()
	return formatForm(order, values, v.Fields, v.Error)
}

func formatForm(order []string, values map[string]string, fields map[string]validation.FieldState, formErr string) string {
	var sb strings.Builder
	for _, name := range order {
		st := fields[name]
		mark := mutedStyle.Render("·")
		if st.Touched {
			if st.Valid {
				mark = okStyle.Render("✓")
			} else {
				mark = errStyle.Render("✗")
			}
		}
		sb.WriteString(fmt.Sprintf("%s %-11s %s\n", mark, name, values[name]))

		if st.ShowErrors() {
			failed := st.Failed()
			if len(failed) == 0 {
				failed = []string{"required"}
			}
			for _, check := range failed {
				label, ok := checkLabels[check]
				if !ok {
					label = check
				}
				sb.WriteString("    " + errStyle.Render(label) + "\n")
			}
		}
	}
	if formErr != "" {
		sb.WriteString("\n" + errStyle.Render(formErr) + "\n")
	}
	return sb.String()
}

func idString(id *int) string {
	if id == nil {
		return ""
	}
	return strconv.Itoa(*id)
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return errStyle.Render("Error: "+err.Error()) + "\n"
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
