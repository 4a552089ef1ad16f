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

type subscriptionRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) error
	UpdateTerm(ctx context.Context, id string, status models.SubscriptionStatus, endDate time.Time) error
}

// ExtendSubscriptionRequest holds payload for extending a student subscription.
type ExtendSubscriptionRequest struct {
	UserID string `json:"userId" validate:"required"`
	Days   int    `json:"days" validate:"required,gt=0"`
}

// SubscriptionService manages subscription lifecycles.
type SubscriptionService struct {
	repo      subscriptionRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSubscriptionService constructs the subscription service.
func NewSubscriptionService(repo subscriptionRepository, validate *validator.Validate, logger *zap.Logger) *SubscriptionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// Extend lengthens an existing subscription or starts a fresh one when the
// student has none. An expired subscription restarts from now rather than
// stacking onto the stale end date.
func (s *SubscriptionService) Extend(ctx context.Context, req ExtendSubscriptionRequest) (*models.Subscription, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "userId and a positive days value are required")
	}

	now := s.now().UTC()
	extension := time.Duration(req.Days) * 24 * time.Hour

	existing, err := s.repo.FindByUserID(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subscription")
		}
		sub := &models.Subscription{
			UserID:    req.UserID,
			Status:    models.SubscriptionStatusActive,
			StartDate: now,
			EndDate:   now.Add(extension),
		}
		if err := s.repo.Create(ctx, sub); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subscription")
		}
		s.logger.Info("subscription created",
			zap.String("user_id", req.UserID),
			zap.Int("days", req.Days))
		return sub, nil
	}

	base := existing.EndDate
	if base.Before(now) {
		base = now
	}
	newEnd := base.Add(extension)
	if err := s.repo.UpdateTerm(ctx, existing.ID, models.SubscriptionStatusActive, newEnd); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to extend subscription")
	}
	existing.Status = models.SubscriptionStatusActive
	existing.EndDate = newEnd
	s.logger.Info("subscription extended",
		zap.String("user_id", req.UserID),
		zap.Int("days", req.Days),
		zap.Time("end_date", newEnd))
	return existing, nil
}

// Expire immediately terminates the student's subscription.
func (s *SubscriptionService) Expire(ctx context.Context, userID string) (*models.Subscription, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "userId is required")
	}
	existing, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subscription not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subscription")
	}
	now := s.now().UTC()
	if err := s.repo.UpdateTerm(ctx, existing.ID, models.SubscriptionStatusExpired, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to expire subscription")
	}
	existing.Status = models.SubscriptionStatusExpired
	existing.EndDate = now
	s.logger.Info("subscription expired", zap.String("user_id", userID))
	return existing, nil
}
