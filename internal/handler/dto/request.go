package dto

// ToggleFilterRequest represents the request body for POST /filters/staged/{category}.
type ToggleFilterRequest struct {
	Key string `json:"key" validate:"required"`
}

// UpdateFormFieldRequest represents the request body for PATCH /forms/task.
type UpdateFormFieldRequest struct {
	Field string `json:"field" validate:"required,oneof=title description deadline status priority department employee"`
	Value string `json:"value"`
}

// ChangeStatusRequest represents the request body for PATCH /tasks/{id}/status.
type ChangeStatusRequest struct {
	StatusID int `json:"status_id" validate:"required,gte=1"`
}

// CreateCommentRequest represents the request body for POST /tasks/{id}/comments.
type CreateCommentRequest struct {
	Text     string `json:"text" validate:"required"`
	ParentID *int   `json:"parent_id,omitempty" validate:"omitempty,gte=1"`
}
