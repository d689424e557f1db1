package domain

import "errors"

// Domain-specific errors for the client.
var (
	// Lookup errors
	ErrNotFound         = errors.New("not found")
	ErrStatusNotFound   = errors.New("status not found")
	ErrEmployeeNotFound = errors.New("employee not found")

	// Remote API errors
	ErrRemote = errors.New("remote api request failed")

	// Form errors
	ErrFormInvalid             = errors.New("form has invalid fields")
	ErrFormClosed              = errors.New("form is closed")
	ErrEmployeeNotInDepartment = errors.New("employee does not belong to the selected department")
	ErrDepartmentNotSelected   = errors.New("department must be selected first")
	ErrUnknownField            = errors.New("unknown form field")
	ErrSubmitInProgress        = errors.New("form is already being submitted")

	// Filter errors
	ErrInvalidCategory = errors.New("invalid filter category")
	ErrInvalidKey      = errors.New("invalid filter key")

	// Comment errors
	ErrEmptyComment = errors.New("comment is required")
	ErrNestedReply  = errors.New("replies are only allowed on top-level comments")

	// Storage errors
	ErrStateNotFound = errors.New("state key not found")
)
