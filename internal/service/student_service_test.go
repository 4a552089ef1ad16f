package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nlcorner/admin-api/internal/models"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
)

type mockProfileRepo struct {
	profiles  map[string]models.Profile
	total     int
	approvals map[string]bool
	cleared   []string
}

func (m *mockProfileRepo) List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error) {
	out := make([]models.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, m.total, nil
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		profile := p
		return &profile, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfileRepo) SetAdminApproved(ctx context.Context, userID string, approved bool) error {
	if m.approvals == nil {
		m.approvals = make(map[string]bool)
	}
	m.approvals[userID] = approved
	return nil
}

func (m *mockProfileRepo) ClearDevice(ctx context.Context, userID string) error {
	m.cleared = append(m.cleared, userID)
	return nil
}

func TestStudentListJoinsSubscriptions(t *testing.T) {
	profiles := &mockProfileRepo{
		profiles: map[string]models.Profile{
			"user-1": {UserID: "user-1", FullName: "Jane"},
			"user-2": {UserID: "user-2", FullName: "Omar"},
		},
		total: 2,
	}
	subs := &mockSubscriptionRepo{subs: map[string]models.Subscription{
		"user-1": {ID: "sub-1", UserID: "user-1", Status: models.SubscriptionStatusActive, EndDate: time.Now().Add(time.Hour)},
	}}
	svc := NewStudentService(profiles, subs, zap.NewNop())

	students, pagination, err := svc.List(context.Background(), models.ProfileFilter{})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, 2, pagination.TotalCount)

	byUser := make(map[string]models.StudentDetail, len(students))
	for _, s := range students {
		byUser[s.UserID] = s
	}
	require.NotNil(t, byUser["user-1"].Subscription)
	assert.Equal(t, "sub-1", byUser["user-1"].Subscription.ID)
	assert.Nil(t, byUser["user-2"].Subscription)
}

func TestStudentSetApproval(t *testing.T) {
	profiles := &mockProfileRepo{profiles: map[string]models.Profile{
		"user-1": {UserID: "user-1", FullName: "Jane"},
	}}
	svc := NewStudentService(profiles, &mockSubscriptionRepo{}, zap.NewNop())

	profile, err := svc.SetApproval(context.Background(), "user-1", true)
	require.NoError(t, err)
	assert.True(t, profile.AdminApproved)
	assert.True(t, profiles.approvals["user-1"])

	profile, err = svc.SetApproval(context.Background(), "user-1", false)
	require.NoError(t, err)
	assert.False(t, profile.AdminApproved)
	assert.False(t, profiles.approvals["user-1"])
}

func TestStudentSetApprovalNotFound(t *testing.T) {
	svc := NewStudentService(&mockProfileRepo{}, &mockSubscriptionRepo{}, zap.NewNop())

	_, err := svc.SetApproval(context.Background(), "ghost", true)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestStudentResetDevice(t *testing.T) {
	device := "device-1"
	profiles := &mockProfileRepo{profiles: map[string]models.Profile{
		"user-1": {UserID: "user-1", FullName: "Jane", DeviceID: &device},
	}}
	svc := NewStudentService(profiles, &mockSubscriptionRepo{}, zap.NewNop())

	profile, err := svc.ResetDevice(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, profile.DeviceID)
	assert.Equal(t, []string{"user-1"}, profiles.cleared)
}

func TestStudentResetDeviceNotFound(t *testing.T) {
	svc := NewStudentService(&mockProfileRepo{}, &mockSubscriptionRepo{}, zap.NewNop())

	_, err := svc.ResetDevice(context.Background(), "ghost")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
