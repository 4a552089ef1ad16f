package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nlcorner/admin-api/internal/models"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
)

type notificationRepository interface {
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error)
	Create(ctx context.Context, notification *models.Notification) error
	SetRead(ctx context.Context, id string, read bool, readAt time.Time) (*models.Notification, error)
	MarkAllRead(ctx context.Context, readAt time.Time) (int, error)
}

// CreateNotificationRequest holds payload for manual notification creation.
type CreateNotificationRequest struct {
	Type      string `json:"type" validate:"required,oneof=info warning success"`
	Title     string `json:"title" validate:"required"`
	Message   string `json:"message" validate:"required"`
	TargetURL string `json:"targetUrl"`
}

// MarkReadRequest flags a single notification.
type MarkReadRequest struct {
	NotificationID string `json:"notificationId" validate:"required"`
	Read           *bool  `json:"read"`
}

// NotificationService handles dashboard notification use-cases.
type NotificationService struct {
	repo      notificationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNotificationService constructs the notification service.
func NewNotificationService(repo notificationRepository, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, validator: validate, logger: logger}
}

// List returns notifications matching the filter.
func (s *NotificationService) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	notifications, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, nil
}

// Create records a new notification.
func (s *NotificationService) Create(ctx context.Context, req CreateNotificationRequest) (*models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "type, title, and message are required")
	}
	notification := &models.Notification{
		Type:    models.NotificationType(req.Type),
		Title:   req.Title,
		Message: req.Message,
	}
	if req.TargetURL != "" {
		notification.TargetURL = &req.TargetURL
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
	}
	return notification, nil
}

// SetRead updates the read state of one notification. Read defaults to true.
func (s *NotificationService) SetRead(ctx context.Context, req MarkReadRequest) (*models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "notificationId is required")
	}
	read := true
	if req.Read != nil {
		read = *req.Read
	}
	notification, err := s.repo.SetRead(ctx, req.NotificationID, read, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notification")
	}
	return notification, nil
}

// MarkAllRead flags every unread notification and returns the count.
func (s *NotificationService) MarkAllRead(ctx context.Context) (int, error) {
	count, err := s.repo.MarkAllRead(ctx, time.Now().UTC())
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return count, nil
}
