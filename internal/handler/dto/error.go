package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/momentum/internal/domain"
	"github.com/mtlprog/momentum/internal/validation"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FormErrorResponse is returned when a form is submitted with invalid fields.
type FormErrorResponse struct {
	Error  ErrorDetail                      `json:"error"`
	Fields map[string]validation.FieldState `json:"fields"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Lookup errors
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", message
	case errors.Is(err, domain.ErrStatusNotFound):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Remote API errors
	case errors.Is(err, domain.ErrRemote):
		return http.StatusBadGateway, "REMOTE_ERROR", message

	// Form errors
	case errors.Is(err, domain.ErrFormInvalid):
		return http.StatusUnprocessableEntity, "FORM_INVALID", message
	case errors.Is(err, domain.ErrFormClosed):
		return http.StatusConflict, "FORM_CLOSED", message
	case errors.Is(err, domain.ErrSubmitInProgress):
		return http.StatusConflict, "SUBMIT_IN_PROGRESS", message
	case errors.Is(err, domain.ErrEmployeeNotInDepartment):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrDepartmentNotSelected):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrUnknownField):
		return http.StatusBadRequest, "UNKNOWN_FIELD", message

	// Filter errors
	case errors.Is(err, domain.ErrInvalidCategory):
		return http.StatusBadRequest, "INVALID_CATEGORY", message
	case errors.Is(err, domain.ErrInvalidKey):
		return http.StatusBadRequest, "INVALID_KEY", message

	// Comment errors
	case errors.Is(err, domain.ErrEmptyComment):
		return http.StatusUnprocessableEntity, "EMPTY_COMMENT", message
	case errors.Is(err, domain.ErrNestedReply):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
