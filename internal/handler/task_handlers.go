package handler

import (
	"net/http"

	"github.com/mtlprog/momentum/internal/handler/dto"
)

// handleGetTask returns a task with its statuses and comments.
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	detail, err := h.taskService.Get(r.Context(), taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// handleChangeStatus moves a task to another status.
func (h *Handler) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	task, err := h.taskService.ChangeStatus(r.Context(), taskID, req.StatusID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	comments, err := h.taskService.Comments(r.Context(), taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCommentsResponse(comments))
}

// handleCreateComment adds a comment or a reply to a top-level comment.
func (h *Handler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.taskService.AddComment(r.Context(), taskID, req.Text, req.ParentID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}
