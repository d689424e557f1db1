package render

import (
	"encoding/json"

	"github.com/mtlprog/momentum/internal/board"
	"github.com/mtlprog/momentum/internal/service"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

func (f *JSONFormatter) FormatBoard(b board.Board) string {
	return marshalJSON(b)
}

func (f *JSONFormatter) FormatTask(d *service.TaskDetail) string {
	return marshalJSON(d)
}

func (f *JSONFormatter) FormatFilters(v service.FilterView) string {
	return marshalJSON(v)
}

func (f *JSONFormatter) FormatTaskForm(v service.TaskFormView) string {
	return marshalJSON(v)
}

func (f *JSONFormatter) FormatEmployeeForm(v service.EmployeeFormView) string {
	return marshalJSON(v)
}

type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}
