package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nlcorner/admin-api/internal/models"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
)

type contentRepository interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.Content, error)
	FindByID(ctx context.Context, id string) (*models.Content, error)
	Create(ctx context.Context, content *models.Content) error
	Delete(ctx context.Context, id string) error
}

type fileBucket interface {
	Save(r io.Reader) (string, error)
	Delete(fileID string) error
}

// CreateContentRequest holds metadata for a content upload.
type CreateContentRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Type        string  `json:"type" validate:"required,oneof=PDF AUDIO PAST_PAPER MARKING_KEY"`
	YearOfStudy string  `json:"yearOfStudy" validate:"required"`
	Program     string  `json:"program" validate:"required"`
	Subject     *string `json:"subject"`
}

// ContentServiceConfig tunes content behaviour.
type ContentServiceConfig struct {
	NormalizeYearOfStudy bool
}

// ContentService manages learning material metadata and files.
type ContentService struct {
	repo      contentRepository
	bucket    fileBucket
	notifier  *Notifier
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ContentServiceConfig
}

// NewContentService constructs the content service.
func NewContentService(repo contentRepository, bucket fileBucket, notifier *Notifier, validate *validator.Validate, logger *zap.Logger, cfg *ContentServiceConfig) *ContentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	resolved := ContentServiceConfig{NormalizeYearOfStudy: true}
	if cfg != nil {
		resolved = *cfg
	}
	return &ContentService{repo: repo, bucket: bucket, notifier: notifier, validator: validate, logger: logger, cfg: resolved}
}

// List returns content matching the filter. The "media" type is a computed
// view over PDF and AUDIO items, filtered in process.
func (s *ContentService) List(ctx context.Context, filter models.ContentFilter) ([]models.Content, error) {
	media := filter.Type == models.ContentFilterMedia
	if media {
		filter.Type = ""
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list content")
	}
	if !media {
		return items, nil
	}
	filtered := make([]models.Content, 0, len(items))
	for _, item := range items {
		if item.Type == models.ContentPDF || item.Type == models.ContentAudio {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// Create stores the uploaded file and then its metadata record. A metadata
// failure after a successful upload leaves an orphaned file behind; that is
// logged rather than rolled back.
func (s *ContentService) Create(ctx context.Context, req CreateContentRequest, file io.Reader) (*models.Content, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title, type, yearOfStudy, program and file are required")
	}
	if file == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}

	yearOfStudy := req.YearOfStudy
	if s.cfg.NormalizeYearOfStudy {
		yearOfStudy = strings.ReplaceAll(strings.ToLower(yearOfStudy), "_", "")
	}

	fileID, err := s.bucket.Save(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store content file")
	}

	content := &models.Content{
		Title:         req.Title,
		Description:   req.Description,
		Type:          models.ContentType(req.Type),
		YearOfStudy:   yearOfStudy,
		Program:       req.Program,
		Subject:       req.Subject,
		StorageFileID: fileID,
	}
	if err := s.repo.Create(ctx, content); err != nil {
		s.logger.Error("content metadata create failed, file orphaned",
			zap.String("file_id", fileID),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create content")
	}

	s.logger.Info("content uploaded",
		zap.String("id", content.ID),
		zap.String("type", string(content.Type)),
		zap.String("title", content.Title))
	if s.notifier != nil {
		s.notifier.Publish(ContentUploaded(content.Title, content.Program, content.YearOfStudy))
	}
	return content, nil
}

// Delete removes the metadata record first, then attempts to delete the
// stored file. File deletion failures are logged and do not fail the call.
func (s *ContentService) Delete(ctx context.Context, id, storageFileID string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "contentId is required")
	}
	content, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "content not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load content")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete content")
	}
	// The stored file id is authoritative; the client-supplied one covers
	// records created before metadata carried it.
	if content.StorageFileID != "" {
		storageFileID = content.StorageFileID
	}
	if storageFileID != "" {
		if err := s.bucket.Delete(storageFileID); err != nil {
			s.logger.Warn("content file delete failed",
				zap.String("id", id),
				zap.String("file_id", storageFileID),
				zap.Error(err))
		}
	}
	s.logger.Info("content deleted", zap.String("id", id), zap.String("title", content.Title))
	return nil
}
