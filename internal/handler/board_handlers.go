package handler

import (
	"net/http"

	"github.com/mtlprog/momentum/internal/domain"
	"github.com/mtlprog/momentum/internal/handler/dto"
)

// handleGetBoard returns the filtered board grouped by status.
func (h *Handler) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	b, err := h.boardService.Board(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (h *Handler) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.boardService.Filters())
}

// handleToggleFilter stages or unstages one criterion.
func (h *Handler) handleToggleFilter(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseFilterCategory(r.PathValue("category"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req dto.ToggleFilterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	view, err := h.boardService.ToggleFilter(r.Context(), category, req.Key)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) handleApplyFilters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.boardService.ApplyFilters(r.Context()))
}

func (h *Handler) handleDiscardFilters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.boardService.DiscardFilters())
}

// handleRemoveFilter removes one applied criterion, as when a chip is closed.
func (h *Handler) handleRemoveFilter(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseFilterCategory(r.PathValue("category"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	view, err := h.boardService.RemoveFilter(r.Context(), category, r.PathValue("key"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.boardService.ClearFilters(r.Context()))
}
