package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/auth"
	"github.com/Manav-Sonawane/CodeCloud/internal/service"
)

// CodeHandler serves the authenticated snippet endpoints.
type CodeHandler struct {
	svc    *service.CodeService
	logger *slog.Logger
}

func NewCodeHandler(svc *service.CodeService, logger *slog.Logger) *CodeHandler {
	return &CodeHandler{svc: svc, logger: logger}
}

type saveRequest struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

// HandleSave stores a snippet for the authenticated user and returns the new
// row id. Saving the same filename twice makes a second row rather than
// overwriting the first.
func (h *CodeHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid or missing token"})
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Missing required fields"})
		return
	}

	id, err := h.svc.Save(r.Context(), userID, req.Filename, req.Language, req.Code)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			writeError(w, err)
			return
		}
		h.logger.Error("save code failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to save code"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      id,
	})
}

// HandleList returns the caller's snippet metadata, newest first. The code
// bodies stay out of the listing; fetch one by id for the content.
func (h *CodeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid or missing token"})
		return
	}

	codes, err := h.svc.ListByOwner(r.Context(), userID)
	if err != nil {
		h.logger.Error("list codes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch codes"})
		return
	}

	writeJSON(w, http.StatusOK, codes)
}

// HandleGet returns one snippet, content included. A snippet belonging to a
// different user is reported as not found, not forbidden.
func (h *CodeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid or missing token"})
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Code not found"})
		return
	}

	code, err := h.svc.GetByID(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrValidation) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Code not found"})
			return
		}
		h.logger.Error("get code failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch code"})
		return
	}

	writeJSON(w, http.StatusOK, code)
}
