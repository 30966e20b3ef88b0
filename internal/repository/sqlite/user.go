package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/model"
	"github.com/Manav-Sonawane/CodeCloud/internal/repository"
)

// Compile-time check that *DB satisfies the interface.
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, username, email, password_hash, github_id,
	age, gender, job_role, institution, phone, created_at`

// Create inserts a new user. The generated xid and creation time are written
// back onto the struct. Duplicate username or email surfaces as a Conflict
// error rather than a raw driver error.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, github_id,
		                    age, gender, job_role, institution, phone, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.GitHubID,
		user.Age,
		user.Gender,
		user.JobRole,
		user.Institution,
		user.Phone,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", "username or email already registered")
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetByEmail returns the user for a login attempt, or NotFound.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUserWhere(ctx, "email = ?", email)
}

// GetUserByID returns the user by internal ID, or NotFound.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUserWhere(ctx, "id = ?", id)
}

func (db *DB) getUserWhere(ctx context.Context, where string, arg any) (*model.User, error) {
	var user model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.GitHubID,
		&user.Age,
		&user.Gender,
		&user.JobRole,
		&user.Institution,
		&user.Phone,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &user, nil
}

// UpsertByGitHubID creates the user on first OAuth sign-in and refreshes
// username/email afterwards, keyed on the GitHub numeric ID. user.ID is
// populated with the row's internal ID in both cases.
func (db *DB) UpsertByGitHubID(ctx context.Context, user *model.User) error {
	if user.GitHubID == nil {
		return fmt.Errorf("sqlite: upserting user: github_id is required")
	}

	existing := db.conn.QueryRowContext(ctx,
		`SELECT id, created_at FROM users WHERE github_id = ?`, *user.GitHubID)

	var id string
	var createdAt time.Time
	err := existing.Scan(&id, &createdAt)
	switch {
	case err == sql.ErrNoRows:
		return db.Create(ctx, user)
	case err != nil:
		return fmt.Errorf("sqlite: looking up github user %d: %w", *user.GitHubID, err)
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ? WHERE id = ?`,
		user.Username, user.Email, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating github user %d: %w", *user.GitHubID, err)
	}

	user.ID = id
	user.CreatedAt = createdAt
	return nil
}
