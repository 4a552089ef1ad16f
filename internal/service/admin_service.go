package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nlcorner/admin-api/internal/models"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
)

type adminRepository interface {
	List(ctx context.Context) ([]models.Admin, error)
	Count(ctx context.Context) (int, error)
	FindByUserID(ctx context.Context, userID string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	Delete(ctx context.Context, id string) error
}

type sessionInvalidator interface {
	InvalidateCache()
}

// AddAdminRequest holds payload for granting admin rights.
type AddAdminRequest struct {
	UserID string `json:"userId" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}

// RemoveAdminRequest holds payload for revoking admin rights.
type RemoveAdminRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// AdminService manages the admin membership roster.
type AdminService struct {
	repo      adminRepository
	sessions  sessionInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdminService constructs the admin service.
func NewAdminService(repo adminRepository, sessions sessionInvalidator, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{repo: repo, sessions: sessions, validator: validate, logger: logger}
}

// List returns all admins ordered by creation time.
func (s *AdminService) List(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admins")
	}
	return admins, nil
}

// Add grants admin rights to the given user.
func (s *AdminService) Add(ctx context.Context, req AddAdminRequest) (*models.Admin, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "userId and a valid email are required")
	}
	existing, err := s.repo.FindByUserID(ctx, req.UserID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admin membership")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "user is already an admin")
	}
	admin := &models.Admin{UserID: req.UserID, Email: req.Email}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add admin")
	}
	if s.sessions != nil {
		s.sessions.InvalidateCache()
	}
	s.logger.Info("admin added", zap.String("user_id", req.UserID), zap.String("email", req.Email))
	return admin, nil
}

// Remove revokes admin rights. A caller cannot remove themselves and the
// final remaining admin cannot be removed.
func (s *AdminService) Remove(ctx context.Context, callerUserID string, req RemoveAdminRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "userId is required")
	}
	if req.UserID == callerUserID {
		return appErrors.Clone(appErrors.ErrValidation, "admins cannot remove themselves")
	}
	existing, err := s.repo.FindByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count admins")
	}
	if total <= 1 {
		return appErrors.Clone(appErrors.ErrValidation, "cannot remove the last admin")
	}
	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove admin")
	}
	if s.sessions != nil {
		s.sessions.InvalidateCache()
	}
	s.logger.Info("admin removed", zap.String("user_id", req.UserID))
	return nil
}
