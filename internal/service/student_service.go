package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/nlcorner/admin-api/internal/models"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
)

type profileRepository interface {
	List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error)
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
	SetAdminApproved(ctx context.Context, userID string, approved bool) error
	ClearDevice(ctx context.Context, userID string) error
}

type subscriptionLookup interface {
	FindByUserIDs(ctx context.Context, userIDs []string) ([]models.Subscription, error)
}

// StudentService exposes student roster operations for the admin panel.
type StudentService struct {
	profiles      profileRepository
	subscriptions subscriptionLookup
	logger        *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(profiles profileRepository, subscriptions subscriptionLookup, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{profiles: profiles, subscriptions: subscriptions, logger: logger}
}

// List returns student profiles with their current subscription attached.
func (s *StudentService) List(ctx context.Context, filter models.ProfileFilter) ([]models.StudentDetail, *models.Pagination, error) {
	profiles, total, err := s.profiles.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	details := make([]models.StudentDetail, 0, len(profiles))
	if len(profiles) > 0 {
		userIDs := make([]string, 0, len(profiles))
		for _, p := range profiles {
			userIDs = append(userIDs, p.UserID)
		}
		subs, err := s.subscriptions.FindByUserIDs(ctx, userIDs)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subscriptions")
		}
		byUser := make(map[string]*models.Subscription, len(subs))
		for i := range subs {
			byUser[subs[i].UserID] = &subs[i]
		}
		for _, p := range profiles {
			details = append(details, models.StudentDetail{Profile: p, Subscription: byUser[p.UserID]})
		}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	pagination := &models.Pagination{Limit: limit, Offset: filter.Offset, TotalCount: total}
	return details, pagination, nil
}

// SetApproval toggles the admin approval flag on a student profile.
func (s *StudentService) SetApproval(ctx context.Context, userID string, approved bool) (*models.Profile, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "userId is required")
	}
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
	}
	if err := s.profiles.SetAdminApproved(ctx, userID, approved); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update approval")
	}
	profile.AdminApproved = approved
	s.logger.Info("student approval updated",
		zap.String("user_id", userID),
		zap.Bool("approved", approved))
	return profile, nil
}

// ResetDevice clears the registered device for a student so they can sign in
// from new hardware.
func (s *StudentService) ResetDevice(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "userId is required")
	}
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
	}
	if err := s.profiles.ClearDevice(ctx, userID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset device")
	}
	profile.DeviceID = nil
	s.logger.Info("student device reset", zap.String("user_id", userID))
	return profile, nil
}
