package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/auth"
	"github.com/Manav-Sonawane/CodeCloud/internal/service"
)

// AuthHandler exposes registration, login, and the optional GitHub OAuth
// flow over HTTP.
type AuthHandler struct {
	svc    *service.AuthService
	github *auth.GitHubProvider // nil when OAuth is not configured
	logger *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, github *auth.GitHubProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		github: github,
		logger: logger,
	}
}

// registerRequest mirrors the sign-up form. The form sends fullname; older
// clients send username; the service resolves which one wins.
type registerRequest struct {
	Fullname    string  `json:"fullname"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Age         *int    `json:"age"`
	Gender      *string `json:"gender"`
	JobRole     *string `json:"jobRole"`
	Institution *string `json:"institution"`
	Phone       *string `json:"phone"`
}

// HandleRegister processes POST /api/auth/register.
//
// A duplicate identity deliberately gets the same generic 400 as any other
// rejection — distinct "already registered" messages would let anyone probe
// which emails have accounts.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	_, err := h.svc.Register(r.Context(), service.RegisterInput{
		Fullname:    req.Fullname,
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Age:         req.Age,
		Gender:      req.Gender,
		JobRole:     req.JobRole,
		Institution: req.Institution,
		Phone:       req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrConflict):
			h.logger.Info("registration conflict suppressed")
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Registration failed"})
		case errors.Is(err, apperror.ErrValidation):
			writeError(w, err)
		default:
			h.logger.Error("registration failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Registration failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin processes POST /api/auth/login.
// Failed credentials are a 400 with the fixed "Invalid email or password"
// body — same status and message whether the email exists or not.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid email or password"})
			return
		}
		h.logger.Error("login failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Login failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Login successful",
		"token":   result.Token,
	})
}

// HandleProtected echoes the authenticated identity. Diagnostic endpoint for
// checking a bearer token end to end.
func (h *AuthHandler) HandleProtected(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid or missing token"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Hello user " + userID + ", you accessed a protected route!",
	})
}

const oauthStateCookie = "oauth_state"

// HandleGitHubLogin starts the OAuth flow: set a random state cookie and
// redirect to GitHub's authorization page.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback finishes the flow: verify the state cookie, exchange
// the code for a GitHub profile, upsert the user, and hand back a bearer
// token in the same shape a password login returns.
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Missing OAuth code"})
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("OAuth exchange failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "GitHub sign-in failed"})
		return
	}

	result, err := h.svc.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		h.logger.Error("OAuth login failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "GitHub sign-in failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Login successful",
		"token":   result.Token,
	})
}
