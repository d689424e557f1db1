package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mtlprog/momentum/internal/domain"
)

// TaskDetail is a task with its comments.
type TaskDetail struct {
	Task     *domain.Task     `json:"task"`
	Statuses []domain.Status  `json:"statuses"`
	Comments []domain.Comment `json:"comments"`
}

// TaskService handles the task page: details, status changes and comments.
type TaskService struct {
	api API
}

// NewTaskService creates a new TaskService.
func NewTaskService(api API) *TaskService {
	return &TaskService{api: api}
}

// Get returns a task with the selectable statuses and its comments.
func (s *TaskService) Get(ctx context.Context, id int) (*TaskDetail, error) {
	task, err := s.api.Task(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	statuses, err := s.api.Statuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load statuses: %w", err)
	}
	comments, err := s.api.TaskComments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load comments of task %d: %w", id, err)
	}

	return &TaskDetail{
		Task:     task,
		Statuses: statuses,
		Comments: comments,
	}, nil
}

// Comments lists the comments of a task.
func (s *TaskService) Comments(ctx context.Context, taskID int) ([]domain.Comment, error) {
	comments, err := s.api.TaskComments(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("load comments of task %d: %w", taskID, err)
	}
	return comments, nil
}

// ChangeStatus moves a task to one of the known statuses.
func (s *TaskService) ChangeStatus(ctx context.Context, taskID, statusID int) (*domain.Task, error) {
	statuses, err := s.api.Statuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load statuses: %w", err)
	}
	known := false
	for _, st := range statuses {
		if st.ID == statusID {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: %d", domain.ErrStatusNotFound, statusID)
	}

	task, err := s.api.UpdateTaskStatus(ctx, taskID, statusID)
	if err != nil {
		return nil, fmt.Errorf("update status of task %d: %w", taskID, err)
	}

	slog.Info("task status changed", "task_id", taskID, "status_id", statusID)
	return task, nil
}

// AddComment posts a comment, or a reply when parentID is set.
// Replies are only allowed on top-level comments.
func (s *TaskService) AddComment(ctx context.Context, taskID int, text string, parentID *int) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyComment
	}

	if parentID != nil {
		comments, err := s.api.TaskComments(ctx, taskID)
		if err != nil {
			return nil, fmt.Errorf("load comments of task %d: %w", taskID, err)
		}
		if err := checkReplyTarget(comments, *parentID); err != nil {
			return nil, err
		}
	}

	comment, err := s.api.CreateComment(ctx, taskID, text, parentID)
	if err != nil {
		return nil, fmt.Errorf("create comment on task %d: %w", taskID, err)
	}
	return comment, nil
}

func checkReplyTarget(comments []domain.Comment, parentID int) error {
	for i := range comments {
		c := &comments[i]
		if c.ID == parentID {
			if !c.IsTopLevel() {
				return fmt.Errorf("%w: comment %d", domain.ErrNestedReply, parentID)
			}
			return nil
		}
		for _, r := range c.Replies {
			if r.ID == parentID {
				return fmt.Errorf("%w: comment %d", domain.ErrNestedReply, parentID)
			}
		}
	}
	return fmt.Errorf("%w: comment %d", domain.ErrNotFound, parentID)
}
