// Package repository defines the persistence interfaces the service layer
// programs against. The sqlite subpackage provides the real implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"
	"time"

	"github.com/Manav-Sonawane/CodeCloud/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts a new user and fills in ID and CreatedAt.
	// A duplicate username or email yields apperror.ErrConflict.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail returns the user with the given email, or
	// apperror.ErrNotFound. Login looks users up by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetUserByID returns the user with the given internal ID, or
	// apperror.ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	// UpsertByGitHubID inserts the user on first OAuth sign-in and refreshes
	// username/email on subsequent ones, keyed on the GitHub numeric ID.
	// Fills in ID and CreatedAt either way.
	UpsertByGitHubID(ctx context.Context, user *model.User) error
}

// CodeRepository persists saved snippets. Rows are insert-only.
type CodeRepository interface {
	// Save inserts a new snippet and fills in ID and CreatedAt.
	Save(ctx context.Context, code *model.Code) error

	// ListByOwner returns metadata for all of ownerID's snippets,
	// newest first. Source text is not loaded.
	ListByOwner(ctx context.Context, ownerID string) ([]model.CodeMeta, error)

	// GetByID returns the full snippet. A missing row and a row owned by a
	// different user are both apperror.ErrNotFound — callers cannot probe
	// for other users' snippet IDs.
	GetByID(ctx context.Context, ownerID string, id int64) (*model.Code, error)
}

// Clock reports the store's current time. The /ping liveness probe uses it
// to prove the database connection is alive, not just the process.
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
}
