package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/mtlprog/momentum/internal/handler/dto"
	"github.com/mtlprog/momentum/internal/middleware"
	"github.com/mtlprog/momentum/internal/service"
	"github.com/mtlprog/momentum/internal/static"
)

// maxUploadSize bounds multipart bodies; avatars above the form limit are
// still accepted here so the form can report them.
const maxUploadSize = 8 << 20

// Pinger checks that the state database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	state          Pinger
	api            service.API
	boardService   *service.BoardService
	taskForm       *service.TaskFormService
	taskService    *service.TaskService
	authMiddleware *middleware.AuthMiddleware
	validate       *validator.Validate
}

// New creates a new Handler instance with all dependencies.
func New(
	state Pinger,
	api service.API,
	boardService *service.BoardService,
	taskForm *service.TaskFormService,
	accessToken string,
) *Handler {
	return &Handler{
		state:          state,
		api:            api,
		boardService:   boardService,
		taskForm:       taskForm,
		taskService:    service.NewTaskService(api),
		authMiddleware: middleware.NewAuthMiddleware(accessToken),
		validate:       validator.New(),
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// API reference
	mux.HandleFunc("GET /api.md", h.handleAPIGuide)

	auth := func(fn http.HandlerFunc) http.Handler {
		return h.authMiddleware.Authenticate(fn)
	}

	// Board and filters
	mux.Handle("GET /api/v1/board", auth(h.handleGetBoard))
	mux.Handle("GET /api/v1/filters", auth(h.handleGetFilters))
	mux.Handle("POST /api/v1/filters/staged/{category}", auth(h.handleToggleFilter))
	mux.Handle("POST /api/v1/filters/apply", auth(h.handleApplyFilters))
	mux.Handle("POST /api/v1/filters/discard", auth(h.handleDiscardFilters))
	mux.Handle("DELETE /api/v1/filters/{category}/{key}", auth(h.handleRemoveFilter))
	mux.Handle("DELETE /api/v1/filters", auth(h.handleClearFilters))

	// Task creation form
	mux.Handle("GET /api/v1/forms/task", auth(h.handleGetTaskForm))
	mux.Handle("PATCH /api/v1/forms/task", auth(h.handleUpdateTaskForm))
	mux.Handle("POST /api/v1/forms/task/submit", auth(h.handleSubmitTaskForm))

	// Employees
	mux.Handle("POST /api/v1/employees", auth(h.handleCreateEmployee))

	// Task page
	mux.Handle("GET /api/v1/tasks/{id}", auth(h.handleGetTask))
	mux.Handle("PATCH /api/v1/tasks/{id}/status", auth(h.handleChangeStatus))
	mux.Handle("GET /api/v1/tasks/{id}/comments", auth(h.handleListComments))
	mux.Handle("POST /api/v1/tasks/{id}/comments", auth(h.handleCreateComment))
}

// handleHealthz returns 200 OK if the state database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.state.Ping(r.Context()); err != nil {
		slog.Error("state database health check failed", "error", err)
		http.Error(w, "state database unavailable", http.StatusServiceUnavailable)
		return
	}

	respondJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// handleAPIGuide serves the embedded API reference.
func (h *Handler) handleAPIGuide(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.APIGuide))
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps err with dto.MapDomainError and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// decodeJSON parses and validates a request body.
// Returns false if the body was rejected (error already sent to client).
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field() + " failed " + fe.Tag() + " validation"
	}
	return err.Error()
}

// extractTaskID extracts and validates task ID from path parameter.
// Returns (taskID, true) if valid, (0, false) if invalid (error already sent to client).
func extractTaskID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id is required")
		return 0, false
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id must be a positive integer")
		return 0, false
	}

	return id, true
}
