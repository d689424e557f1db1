package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mtlprog/momentum/internal/domain"
	"github.com/mtlprog/momentum/internal/handler/dto"
	"github.com/mtlprog/momentum/internal/middleware"
	"github.com/mtlprog/momentum/internal/service"
)

// ensureTaskForm mounts the shared task form on first use.
func (h *Handler) ensureTaskForm(ctx context.Context) error {
	if h.taskForm.IsOpen() {
		return nil
	}
	return h.taskForm.Mount(ctx)
}

// handleGetTaskForm returns the task form values and field states.
func (h *Handler) handleGetTaskForm(w http.ResponseWriter, r *http.Request) {
	if err := h.ensureTaskForm(r.Context()); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.taskForm.View())
}

// handleUpdateTaskForm sets one field. Validation failures are part of the
// returned form state, not an error response.
func (h *Handler) handleUpdateTaskForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.UpdateFormFieldRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if err := h.ensureTaskForm(ctx); err != nil {
		respondDomainError(w, err)
		return
	}

	if err := h.taskForm.Update(ctx, req.Field, req.Value); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.taskForm.View())
}

// handleSubmitTaskForm submits the task form.
func (h *Handler) handleSubmitTaskForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.ensureTaskForm(ctx); err != nil {
		respondDomainError(w, err)
		return
	}

	task, err := h.taskForm.Submit(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrFormInvalid) {
			view := h.taskForm.View()
			respondJSON(w, http.StatusUnprocessableEntity, dto.FormErrorResponse{
				Error:  dto.ErrorDetail{Code: "FORM_INVALID", Message: view.Error},
				Fields: view.Fields,
			})
			return
		}
		respondDomainError(w, err)
		return
	}

	slog.Info("task submitted via local API",
		"task_id", task.ID,
		"authenticated", middleware.IsAuthenticated(ctx),
	)
	respondJSON(w, http.StatusCreated, dto.TaskSubmitResponse{
		Task: task,
		Form: h.taskForm.View(),
	})
}

// handleCreateEmployee runs the employee form over a multipart body with
// name, surname, department_id and an avatar file.
func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid multipart body")
		return
	}

	form := service.NewEmployeeFormService(h.api)
	defer form.Close()

	if err := form.Mount(ctx); err != nil {
		respondDomainError(w, err)
		return
	}

	form.SetName(r.FormValue("name"))
	form.SetSurname(r.FormValue("surname"))

	// A missing or unknown department leaves the field unselected; the
	// submit below reports it with the other fields.
	if raw := r.FormValue("department_id"); raw != "" {
		departmentID, err := strconv.Atoi(raw)
		if err == nil {
			err = form.SelectDepartment(departmentID)
		}
		if err != nil {
			slog.Debug("employee department not selected", "department_id", raw, "error", err)
		}
	}

	file, header, err := r.FormFile("avatar")
	switch {
	case err == nil:
		data, readErr := io.ReadAll(file)
		file.Close()
		if readErr != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read avatar")
			return
		}
		form.SetAvatar(header.Filename, data)
	case errors.Is(err, http.ErrMissingFile):
		form.RemoveAvatar()
	default:
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid avatar upload")
		return
	}

	employee, err := form.Submit(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrFormInvalid) {
			view := form.View()
			respondJSON(w, http.StatusUnprocessableEntity, dto.FormErrorResponse{
				Error:  dto.ErrorDetail{Code: "FORM_INVALID", Message: view.Error},
				Fields: view.Fields,
			})
			return
		}
		respondDomainError(w, err)
		return
	}

	slog.Info("employee created via local API",
		"employee_id", employee.ID,
		"authenticated", middleware.IsAuthenticated(ctx),
	)
	respondJSON(w, http.StatusCreated, employee)
}
