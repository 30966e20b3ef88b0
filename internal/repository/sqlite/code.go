package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/model"
	"github.com/Manav-Sonawane/CodeCloud/internal/repository"
)

var _ repository.CodeRepository = (*DB)(nil)

// Save inserts a new snippet row and writes the generated integer ID and
// creation time back onto the struct. Saves are insert-only: saving the same
// filename twice creates two independent snippets.
func (db *DB) Save(ctx context.Context, code *model.Code) error {
	code.CreatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO codes (user_id, filename, language, code, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		code.UserID,
		code.Filename,
		code.Language,
		code.Code,
		code.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving code: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted code id: %w", err)
	}
	code.ID = id

	return nil
}

// ListByOwner returns metadata for the owner's snippets, newest first.
// The code column is deliberately not selected — listings only need names.
func (db *DB) ListByOwner(ctx context.Context, ownerID string) ([]model.CodeMeta, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, filename, language, created_at
		 FROM codes
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing codes: %w", err)
	}
	defer rows.Close()

	metas := []model.CodeMeta{}
	for rows.Next() {
		var m model.CodeMeta
		if err := rows.Scan(&m.ID, &m.Filename, &m.Language, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning code row: %w", err)
		}
		metas = append(metas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating codes: %w", err)
	}

	return metas, nil
}

// GetByID returns the full snippet. The query filters on owner as well as id,
// so a snippet owned by someone else is indistinguishable from one that
// doesn't exist.
func (db *DB) GetByID(ctx context.Context, ownerID string, id int64) (*model.Code, error) {
	var code model.Code

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, filename, language, code, created_at
		 FROM codes
		 WHERE id = ? AND user_id = ?`,
		id, ownerID,
	).Scan(
		&code.ID,
		&code.UserID,
		&code.Filename,
		&code.Language,
		&code.Code,
		&code.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("code", fmt.Sprint(id))
		}
		return nil, fmt.Errorf("sqlite: getting code %d: %w", id, err)
	}

	return &code, nil
}
