package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/nlcorner/admin-api/internal/models"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
	"github.com/nlcorner/admin-api/pkg/export"
)

const (
	codeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeRandomLength  = 6
	defaultCodePrefix = "NLC-"
	maxCodesPerBatch  = 100
)

type accessCodeRepository interface {
	Create(ctx context.Context, code *models.AccessCode) error
	List(ctx context.Context, filter models.AccessCodeFilter) ([]models.AccessCode, int, error)
	ExistsUnusedForUser(ctx context.Context, userID string) (bool, error)
}

type activeSubscriptionLookup interface {
	FindByUserID(ctx context.Context, userID string) (*models.Subscription, error)
}

// GenerateAccessCodesRequest holds payload for generating codes. When UserID
// is set a single targeted code is issued, guarded by the one-unused-code and
// no-active-subscription rules.
type GenerateAccessCodesRequest struct {
	DurationDays int    `json:"durationDays" validate:"required,gt=0"`
	Quantity     int    `json:"quantity"`
	Prefix       string `json:"prefix"`
	UserID       string `json:"userId"`
}

type codeEventPublisher interface {
	Publish(event NotificationEvent)
}

// AccessCodeService generates, lists and exports subscription access codes.
type AccessCodeService struct {
	repo          accessCodeRepository
	subscriptions activeSubscriptionLookup
	notifier      codeEventPublisher
	validator     *validator.Validate
	logger        *zap.Logger
	now           func() time.Time
}

// NewAccessCodeService constructs the access code service.
func NewAccessCodeService(repo accessCodeRepository, subscriptions activeSubscriptionLookup, notifier codeEventPublisher, validate *validator.Validate, logger *zap.Logger) *AccessCodeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessCodeService{repo: repo, subscriptions: subscriptions, notifier: notifier, validator: validate, logger: logger, now: time.Now}
}

// Generate creates a batch of unused access codes, or a single code reserved
// for one student when a userId is given.
func (s *AccessCodeService) Generate(ctx context.Context, req GenerateAccessCodesRequest) ([]models.AccessCode, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "durationDays must be positive")
	}
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	if quantity > maxCodesPerBatch {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("quantity must not exceed %d", maxCodesPerBatch))
	}
	if req.UserID != "" {
		quantity = 1
		if err := s.checkTargetEligible(ctx, req.UserID); err != nil {
			return nil, err
		}
	}
	prefix := req.Prefix
	if prefix == "" {
		prefix = defaultCodePrefix
	}

	codes := make([]models.AccessCode, 0, quantity)
	for i := 0; i < quantity; i++ {
		value, err := randomCode(prefix)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate code")
		}
		code := models.AccessCode{
			Code:         value,
			DurationDays: req.DurationDays,
			IsUsed:       false,
		}
		if req.UserID != "" {
			userID := req.UserID
			code.UsedByUserID = &userID
		}
		if err := s.repo.Create(ctx, &code); err != nil {
			if isUniqueViolation(err) {
				return nil, appErrors.Clone(appErrors.ErrConflict, "generated code collided, retry the request")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store access code")
		}
		codes = append(codes, code)
	}

	s.logger.Info("access codes generated",
		zap.Int("count", len(codes)),
		zap.Int("duration_days", req.DurationDays))
	if s.notifier != nil && req.UserID != "" {
		s.notifier.Publish(AccessCodeIssued(req.UserID, req.DurationDays))
	}
	return codes, nil
}

// checkTargetEligible enforces the one-unused-code and no-active-subscription
// rules for targeted issues.
func (s *AccessCodeService) checkTargetEligible(ctx context.Context, userID string) error {
	pending, err := s.repo.ExistsUnusedForUser(ctx, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending codes")
	}
	if pending {
		return appErrors.Clone(appErrors.ErrConflict, "user already has an unused access code")
	}
	sub, err := s.subscriptions.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subscription")
	}
	if sub.Status == models.SubscriptionStatusActive && sub.EndDate.After(s.now()) {
		return appErrors.Clone(appErrors.ErrConflict, "user already has an active subscription")
	}
	return nil
}

// List returns access codes matching the filter along with pagination data.
func (s *AccessCodeService) List(ctx context.Context, filter models.AccessCodeFilter) ([]models.AccessCode, *models.Pagination, error) {
	codes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list access codes")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	pagination := &models.Pagination{Limit: limit, Offset: filter.Offset, TotalCount: total}
	return codes, pagination, nil
}

// ExportDataset builds the tabular dataset used by the CSV and PDF exporters.
func (s *AccessCodeService) ExportDataset(ctx context.Context, filter models.AccessCodeFilter, maxRows int) (export.Dataset, error) {
	if maxRows <= 0 {
		maxRows = 5000
	}
	filter.Limit = maxRows
	filter.Offset = 0
	codes, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load access codes for export")
	}

	headers := []string{"Code", "Duration (Days)", "Is Used", "Used By (User ID)", "Used At", "Created At"}
	rows := make([]map[string]string, 0, len(codes))
	for _, code := range codes {
		usedBy := ""
		if code.UsedByUserID != nil {
			usedBy = *code.UsedByUserID
		}
		usedAt := ""
		if code.UsedAt != nil {
			usedAt = code.UsedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, map[string]string{
			"Code":              code.Code,
			"Duration (Days)":   strconv.Itoa(code.DurationDays),
			"Is Used":           strconv.FormatBool(code.IsUsed),
			"Used By (User ID)": usedBy,
			"Used At":           usedAt,
			"Created At":        code.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}, nil
}

func randomCode(prefix string) (string, error) {
	// Rejection sampling keeps the draw uniform over the alphabet
	// (256 is not a multiple of 36).
	limit := byte(256 - 256%len(codeAlphabet))
	var b strings.Builder
	b.WriteString(prefix)
	buf := make([]byte, 1)
	for b.Len() < len(prefix)+codeRandomLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		if buf[0] >= limit {
			continue
		}
		b.WriteByte(codeAlphabet[int(buf[0])%len(codeAlphabet)])
	}
	return b.String(), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
