// Package render formats boards, tasks, filters and forms for the terminal.
package render

import (
	"github.com/mtlprog/momentum/internal/board"
	"github.com/mtlprog/momentum/internal/service"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatBoard(b board.Board) string
	FormatTask(d *service.TaskDetail) string
	FormatFilters(v service.FilterView) string
	FormatTaskForm(v service.TaskFormView) string
	FormatEmployeeForm(v service.EmployeeFormView) string
	FormatError(err error) string
	FormatMessage(msg string) string
}

// New returns the JSON formatter when asJSON is set, else the human one.
func New(asJSON bool) Formatter {
	if asJSON {
		return NewJSONFormatter()
	}
	return NewHumanFormatter()
}
