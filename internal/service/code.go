package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Manav-Sonawane/CodeCloud/internal/apperror"
	"github.com/Manav-Sonawane/CodeCloud/internal/model"
	"github.com/Manav-Sonawane/CodeCloud/internal/repository"
)

const (
	MaxFilenameLength = 255
	MaxCodeLength     = 100000 // ~100KB of source
)

// CodeService handles saved snippets. Saves are one-way exports from an
// editing session: insert-only, owner-scoped, never updated in place.
type CodeService struct {
	repo   repository.CodeRepository
	logger *slog.Logger
}

func NewCodeService(repo repository.CodeRepository, logger *slog.Logger) *CodeService {
	return &CodeService{
		repo:   repo,
		logger: logger,
	}
}

// Save validates and inserts a snippet, returning the generated integer ID.
// All four fields are required.
func (s *CodeService) Save(ctx context.Context, ownerID, filename, lang, source string) (int64, error) {
	filename = strings.TrimSpace(filename)
	lang = strings.TrimSpace(lang)

	if ownerID == "" {
		return 0, apperror.ValidationFailed("user", "owner is required")
	}
	if filename == "" || lang == "" || source == "" {
		return 0, apperror.ValidationFailed("", "Missing required fields")
	}
	if len(filename) > MaxFilenameLength {
		return 0, apperror.ValidationFailed("filename",
			fmt.Sprintf("filename must be %d characters or less", MaxFilenameLength))
	}
	if len(source) > MaxCodeLength {
		return 0, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}

	code := &model.Code{
		UserID:   ownerID,
		Filename: filename,
		Language: lang,
		Code:     source,
	}

	if err := s.repo.Save(ctx, code); err != nil {
		s.logger.Error("failed to save code",
			slog.String("userID", ownerID),
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("saving code: %w", err)
	}

	s.logger.Info("code saved",
		slog.Int64("id", code.ID),
		slog.String("userID", ownerID),
		slog.String("filename", filename),
	)

	return code.ID, nil
}

// ListByOwner returns the owner's snippet metadata, newest first.
func (s *CodeService) ListByOwner(ctx context.Context, ownerID string) ([]model.CodeMeta, error) {
	if ownerID == "" {
		return nil, apperror.ValidationFailed("user", "owner is required")
	}

	metas, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list codes",
			slog.String("userID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing codes: %w", err)
	}

	return metas, nil
}

// GetByID returns the full snippet. Missing and foreign-owned rows are both
// NotFound — the repository query filters on the owner, so this service
// never even sees another user's row.
func (s *CodeService) GetByID(ctx context.Context, ownerID string, id int64) (*model.Code, error) {
	if ownerID == "" {
		return nil, apperror.ValidationFailed("user", "owner is required")
	}
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "a positive snippet ID is required")
	}

	return s.repo.GetByID(ctx, ownerID, id)
}
