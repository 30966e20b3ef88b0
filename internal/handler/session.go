package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/auth"
	"github.com/Manav-Sonawane/CodeCloud/internal/executor"
	"github.com/Manav-Sonawane/CodeCloud/internal/service"
	"github.com/Manav-Sonawane/CodeCloud/internal/session"
)

// SessionHandler exposes the server-side editor session API. Each session is
// an in-memory workspace keyed by id; clients hold the id and drive it with
// the endpoints below.
type SessionHandler struct {
	manager *session.Manager
	exec    executor.Executor // nil when execution is not configured
	codes   *service.CodeService
	logger  *slog.Logger
}

func NewSessionHandler(manager *session.Manager, exec executor.Executor, codes *service.CodeService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		exec:    exec,
		codes:   codes,
		logger:  logger,
	}
}

// HandleCreate makes a fresh session with the default file open.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sess := h.manager.Create()
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

// HandleGet returns the session's current snapshot.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// lookup resolves the session from the URL, writing a 404 if it is gone.
func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := h.manager.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Session not found"})
		return nil, false
	}
	return sess, true
}

// HandleNewFile opens another file in the session's current language.
func (h *SessionHandler) HandleNewFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.NewFile())
}

// HandleActivateFile switches the active tab. Unknown names leave the state
// as it was.
func (h *SessionHandler) HandleActivateFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.SwitchFile(chi.URLParam(r, "name")))
}

// HandleCloseFile closes the named file. The last open file cannot be closed;
// the state simply comes back unchanged.
func (h *SessionHandler) HandleCloseFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.CloseFile(chi.URLParam(r, "name")))
}

type editRequest struct {
	Content string `json:"content"`
}

// HandleEdit replaces the active file's content.
func (h *SessionHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	writeJSON(w, http.StatusOK, sess.EditActive(req.Content))
}

type languageRequest struct {
	Language string `json:"language"`
	Scope    string `json:"scope"` // "session" (default) or "file"
}

// HandleSetLanguage changes the session language, or just the active file's
// language when scope is "file". Unsupported tags are a 400.
func (h *SessionHandler) HandleSetLanguage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req languageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	var (
		state session.State
		err   error
	)
	switch req.Scope {
	case "file":
		state, err = sess.SetActiveFileLanguage(req.Language)
	case "", "session":
		state, err = sess.SetLanguage(req.Language)
	default:
		writeError(w, apperror.ValidationFailed("scope", "scope must be \"session\" or \"file\""))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

type stdinRequest struct {
	Stdin string `json:"stdin"`
}

// HandleSetStdin stores the stdin text the next run will send along.
func (h *SessionHandler) HandleSetStdin(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req stdinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	writeJSON(w, http.StatusOK, sess.SetStdin(req.Stdin))
}

// HandleRun executes the active file. A run already in flight is a 409; the
// provider's JSON verdict comes back untouched on success.
func (h *SessionHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	if h.exec == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Code execution is not configured"})
		return
	}

	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	result, err := sess.Run(r.Context(), h.exec)
	if err != nil {
		if errors.Is(err, apperror.ErrExecution) {
			h.logger.Error("session run failed",
				slog.String("session_id", sess.ID),
				slog.String("error", err.Error()))
		}
		writeError(w, err)
		return
	}

	writeRaw(w, http.StatusOK, result)
}

// HandleSave persists the active file as a snippet for the authenticated
// user. This is the one session endpoint that needs a bearer token.
func (h *SessionHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid or missing token"})
		return
	}

	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	export, err := sess.ExportActive()
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := h.codes.Save(r.Context(), userID, export.Filename, export.Language, export.Content)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			writeError(w, err)
			return
		}
		h.logger.Error("session save failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to save code"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      id,
	})
}

// HandleDownload sends the active file as an attachment, reindented and with
// the language's extension appended when the name is missing one.
func (h *SessionHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	filename, content, err := sess.Download()
	if err != nil {
		writeError(w, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}
