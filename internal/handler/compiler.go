package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/executor"
)

// CompilerHandler relays execution requests to the configured provider and
// streams the provider's JSON verdict back untouched.
type CompilerHandler struct {
	exec   executor.Executor // nil when no provider credentials were configured
	logger *slog.Logger
}

func NewCompilerHandler(exec executor.Executor, logger *slog.Logger) *CompilerHandler {
	return &CompilerHandler{exec: exec, logger: logger}
}

type executeRequest struct {
	Language     string `json:"language"`
	VersionIndex string `json:"versionIndex"`
	Code         string `json:"code"`
	Stdin        string `json:"stdin"`
}

// HandleExecute processes POST /api/compiler/run. The response body on
// success is whatever the provider returned; the gateway adds nothing and
// strips nothing.
func (h *CompilerHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	if h.exec == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Code execution is not configured"})
		return
	}

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	result, err := h.exec.Execute(r.Context(), executor.Request{
		Language:     req.Language,
		VersionIndex: req.VersionIndex,
		Code:         req.Code,
		Stdin:        req.Stdin,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			writeError(w, err)
			return
		}
		h.logger.Error("execution failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeRaw(w, http.StatusOK, result)
}
