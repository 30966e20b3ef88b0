// Package service contains the business logic layer: validation and
// orchestration between the HTTP handlers and the repositories.
//
// Handlers parse requests and map errors to status codes; services enforce
// the rules and talk to storage through the repository interfaces. Neither
// layer knows the other's concerns, which is what keeps both testable with
// plain function calls and hand-written mocks.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/auth"
	"github.com/Manav-Sonawane/CodeCloud/internal/model"
	"github.com/Manav-Sonawane/CodeCloud/internal/repository"
)

// invalidCredentials is the single message for every login failure.
// "No such account" and "wrong password" must be indistinguishable, or the
// login endpoint becomes an account-enumeration oracle.
const invalidCredentials = "Invalid email or password"

// AuthService handles registration, login, and token validation.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// RegisterInput carries the registration form. Fullname takes precedence
// over Username when both are sent — the sign-up form submits fullname,
// older clients send username.
type RegisterInput struct {
	Fullname    string
	Username    string
	Email       string
	Password    string
	Age         *int
	Gender      *string
	JobRole     *string
	Institution *string
	Phone       *string
}

// Register validates the input, hashes the password, and creates the user.
//
// A duplicate username or email comes back as apperror.ErrConflict from the
// repository; the handler deliberately collapses it into a generic failure
// so registration can't be used to probe which emails exist.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	if fullname := strings.TrimSpace(in.Fullname); fullname != "" {
		username = fullname
	}
	email := strings.TrimSpace(in.Email)

	if username == "" || email == "" || in.Password == "" {
		return nil, apperror.ValidationFailed("", "Username, email, and password are required")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Age:          in.Age,
		Gender:       in.Gender,
		JobRole:      in.JobRole,
		Institution:  in.Institution,
		Phone:        in.Phone,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// AuthResult bundles the user and the issued token.
type AuthResult struct {
	User  *model.User
	Token string
}

// Login verifies the credentials and issues a 1-hour bearer token carrying
// the user's ID. Every failure path — unknown email, wrong password,
// OAuth-only account with no password — returns the same ErrUnauthorized
// with the same message.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if user.PasswordHash == "" {
		// OAuth-created account with no password set.
		return nil, apperror.Unauthorized(invalidCredentials)
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// LoginOrRegisterGitHub completes the OAuth callback: upsert the user keyed
// on the GitHub ID, then issue the same JWT a password login would.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user := &model.User{
		Username: ghUser.Login,
		Email:    ghUser.Email,
		GitHubID: &ghUser.ID,
	}

	if err := s.users.UpsertByGitHubID(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("login", ghUser.Login),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// ValidateToken returns the user ID a token encodes, or ErrUnauthorized for
// anything malformed, tampered, or expired.
func (s *AuthService) ValidateToken(tokenStr string) (string, error) {
	userID, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return "", apperror.Unauthorized("Invalid or missing token")
	}
	return userID, nil
}

// GetUserByID looks up the full user record for an authenticated request.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetUserByID(ctx, id)
}
