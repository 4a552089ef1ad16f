package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nlcorner/admin-api/internal/models"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
)

type mockAccessCodeRepo struct {
	created []models.AccessCode
	listed  []models.AccessCode
	pending map[string]bool
}

func (m *mockAccessCodeRepo) Create(ctx context.Context, code *models.AccessCode) error {
	if code.ID == "" {
		code.ID = "generated"
	}
	m.created = append(m.created, *code)
	return nil
}

func (m *mockAccessCodeRepo) List(ctx context.Context, filter models.AccessCodeFilter) ([]models.AccessCode, int, error) {
	return m.listed, len(m.listed), nil
}

func (m *mockAccessCodeRepo) ExistsUnusedForUser(ctx context.Context, userID string) (bool, error) {
	return m.pending[userID], nil
}

func newAccessCodeFixture(subs *mockSubscriptionRepo) (*AccessCodeService, *mockAccessCodeRepo) {
	repo := &mockAccessCodeRepo{pending: make(map[string]bool)}
	if subs == nil {
		subs = &mockSubscriptionRepo{}
	}
	return NewAccessCodeService(repo, subs, nil, validator.New(), zap.NewNop()), repo
}

func TestAccessCodeGenerateBatch(t *testing.T) {
	svc, repo := newAccessCodeFixture(nil)

	codes, err := svc.Generate(context.Background(), GenerateAccessCodesRequest{DurationDays: 30, Quantity: 5})
	require.NoError(t, err)
	assert.Len(t, codes, 5)
	assert.Len(t, repo.created, 5)
	for _, code := range codes {
		assert.True(t, strings.HasPrefix(code.Code, "NLC-"))
		assert.Len(t, code.Code, len("NLC-")+6)
		assert.False(t, code.IsUsed)
		assert.Equal(t, 30, code.DurationDays)
	}
}

func TestAccessCodeGenerateCustomPrefix(t *testing.T) {
	svc, _ := newAccessCodeFixture(nil)

	codes, err := svc.Generate(context.Background(), GenerateAccessCodesRequest{DurationDays: 7, Prefix: "PROMO-"})
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.True(t, strings.HasPrefix(codes[0].Code, "PROMO-"))
}

func TestAccessCodeGenerateRequiresDuration(t *testing.T) {
	svc, _ := newAccessCodeFixture(nil)

	_, err := svc.Generate(context.Background(), GenerateAccessCodesRequest{Quantity: 1})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAccessCodeTargetedIssueReservesUser(t *testing.T) {
	svc, repo := newAccessCodeFixture(nil)

	codes, err := svc.Generate(context.Background(), GenerateAccessCodesRequest{DurationDays: 30, Quantity: 9, UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, codes, 1)
	require.NotNil(t, repo.created[0].UsedByUserID)
	assert.Equal(t, "user-1", *repo.created[0].UsedByUserID)
	assert.False(t, repo.created[0].IsUsed)
}

func TestAccessCodeTargetedIssueRejectsPendingCode(t *testing.T) {
	svc, repo := newAccessCodeFixture(nil)
	repo.pending["user-1"] = true

	_, err := svc.Generate(context.Background(), GenerateAccessCodesRequest{DurationDays: 90, Prefix: "X-", UserID: "user-1"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestAccessCodeTargetedIssueRejectsActiveSubscription(t *testing.T) {
	subs := &mockSubscriptionRepo{subs: map[string]models.Subscription{
		"user-1": {ID: "sub-1", UserID: "user-1", Status: models.SubscriptionStatusActive, EndDate: time.Now().Add(24 * time.Hour)},
	}}
	svc, repo := newAccessCodeFixture(subs)

	_, err := svc.Generate(context.Background(), GenerateAccessCodesRequest{DurationDays: 30, UserID: "user-1"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestAccessCodeTargetedIssueAllowedAfterExpiry(t *testing.T) {
	subs := &mockSubscriptionRepo{subs: map[string]models.Subscription{
		"user-1": {ID: "sub-1", UserID: "user-1", Status: models.SubscriptionStatusExpired, EndDate: time.Now().Add(-24 * time.Hour)},
	}}
	svc, _ := newAccessCodeFixture(subs)

	codes, err := svc.Generate(context.Background(), GenerateAccessCodesRequest{DurationDays: 30, UserID: "user-1"})
	require.NoError(t, err)
	assert.Len(t, codes, 1)
}

func TestAccessCodeExportDatasetColumnOrder(t *testing.T) {
	usedAt := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	userID := "user-9"
	svc, repo := newAccessCodeFixture(nil)
	repo.listed = []models.AccessCode{
		{Code: "NLC-AB12CD", DurationDays: 30, IsUsed: true, UsedByUserID: &userID, UsedAt: &usedAt, CreatedAt: usedAt.Add(-time.Hour)},
		{Code: "NLC-ZZ99XX", DurationDays: 7, CreatedAt: usedAt},
	}

	dataset, err := svc.ExportDataset(context.Background(), models.AccessCodeFilter{}, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"Code", "Duration (Days)", "Is Used", "Used By (User ID)", "Used At", "Created At"}, dataset.Headers)
	require.Len(t, dataset.Rows, 2)
	assert.Equal(t, "NLC-AB12CD", dataset.Rows[0]["Code"])
	assert.Equal(t, "30", dataset.Rows[0]["Duration (Days)"])
	assert.Equal(t, "true", dataset.Rows[0]["Is Used"])
	assert.Equal(t, "user-9", dataset.Rows[0]["Used By (User ID)"])
	assert.Equal(t, "2026-02-10T08:00:00Z", dataset.Rows[0]["Used At"])
	assert.Equal(t, "", dataset.Rows[1]["Used By (User ID)"])
	assert.Equal(t, "", dataset.Rows[1]["Used At"])
}

type mockCodePublisher struct {
	events []NotificationEvent
}

func (m *mockCodePublisher) Publish(event NotificationEvent) {
	m.events = append(m.events, event)
}

func TestTargetedIssuePublishesNotification(t *testing.T) {
	repo := &mockAccessCodeRepo{pending: make(map[string]bool)}
	publisher := &mockCodePublisher{}
	svc := NewAccessCodeService(repo, &mockSubscriptionRepo{}, publisher, validator.New(), zap.NewNop())

	_, err := svc.Generate(context.Background(), GenerateAccessCodesRequest{DurationDays: 30, UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "Access Code Generated", publisher.events[0].Title)
	assert.Contains(t, publisher.events[0].Message, "user-1")
}

func TestBatchGenerateDoesNotPublish(t *testing.T) {
	repo := &mockAccessCodeRepo{pending: make(map[string]bool)}
	publisher := &mockCodePublisher{}
	svc := NewAccessCodeService(repo, &mockSubscriptionRepo{}, publisher, validator.New(), zap.NewNop())

	_, err := svc.Generate(context.Background(), GenerateAccessCodesRequest{DurationDays: 30, Quantity: 4})
	require.NoError(t, err)
	assert.Empty(t, publisher.events)
}

func TestRandomCodeDrawsFromAlphabetOnly(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := randomCode("NLC-")
		require.NoError(t, err)
		require.Len(t, code, len("NLC-")+codeRandomLength)
		for _, ch := range code[len("NLC-"):] {
			assert.True(t, strings.ContainsRune(codeAlphabet, ch), "unexpected character %q", ch)
		}
	}
}
