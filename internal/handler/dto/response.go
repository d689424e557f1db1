package dto

import (
	"github.com/mtlprog/momentum/internal/domain"
	"github.com/mtlprog/momentum/internal/service"
)

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// CommentsResponse lists the comments of a task.
type CommentsResponse struct {
	Comments []domain.Comment `json:"comments"`
	Total    int              `json:"total"`
}

// NewCommentsResponse counts top-level comments and replies.
func NewCommentsResponse(comments []domain.Comment) CommentsResponse {
	if comments == nil {
		comments = []domain.Comment{}
	}
	total := len(comments)
	for _, c := range comments {
		total += len(c.Replies)
	}
	return CommentsResponse{Comments: comments, Total: total}
}

// TaskSubmitResponse is returned when the task form was submitted.
type TaskSubmitResponse struct {
	Task *domain.Task         `json:"task"`
	Form service.TaskFormView `json:"form"`
}
