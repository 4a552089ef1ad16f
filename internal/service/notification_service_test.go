package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nlcorner/admin-api/internal/models"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
)

type mockNotificationRepo struct {
	items      map[string]models.Notification
	lastFilter models.NotificationFilter
}

func (m *mockNotificationRepo) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	m.lastFilter = filter
	out := make([]models.Notification, 0, len(m.items))
	for _, n := range m.items {
		out = append(out, n)
	}
	return out, nil
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if m.items == nil {
		m.items = make(map[string]models.Notification)
	}
	if notification.ID == "" {
		notification.ID = "n-1"
	}
	m.items[notification.ID] = *notification
	return nil
}

func (m *mockNotificationRepo) SetRead(ctx context.Context, id string, read bool, readAt time.Time) (*models.Notification, error) {
	n, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	n.Read = read
	if read {
		n.ReadAt = &readAt
	} else {
		n.ReadAt = nil
	}
	m.items[id] = n
	return &n, nil
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, readAt time.Time) (int, error) {
	count := 0
	for id, n := range m.items {
		if !n.Read {
			n.Read = true
			n.ReadAt = &readAt
			m.items[id] = n
			count++
		}
	}
	return count, nil
}

func TestNotificationCreateValidatesType(t *testing.T) {
	svc := NewNotificationService(&mockNotificationRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateNotificationRequest{Type: "urgent", Title: "t", Message: "m"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestNotificationCreateStoresTargetURL(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(repo, validator.New(), zap.NewNop())

	n, err := svc.Create(context.Background(), CreateNotificationRequest{
		Type: "info", Title: "New upload", Message: "Content available", TargetURL: "/dashboard/content",
	})
	require.NoError(t, err)
	require.NotNil(t, n.TargetURL)
	assert.Equal(t, "/dashboard/content", *n.TargetURL)
	assert.False(t, n.Read)
}

func TestNotificationSetReadDefaultsToRead(t *testing.T) {
	repo := &mockNotificationRepo{items: map[string]models.Notification{
		"n-1": {ID: "n-1", Type: models.NotificationInfo, Title: "t", Message: "m"},
	}}
	svc := NewNotificationService(repo, validator.New(), zap.NewNop())

	n, err := svc.SetRead(context.Background(), MarkReadRequest{NotificationID: "n-1"})
	require.NoError(t, err)
	assert.True(t, n.Read)
	require.NotNil(t, n.ReadAt)
}

func TestNotificationSetReadCanUnread(t *testing.T) {
	readAt := time.Now()
	repo := &mockNotificationRepo{items: map[string]models.Notification{
		"n-1": {ID: "n-1", Read: true, ReadAt: &readAt},
	}}
	svc := NewNotificationService(repo, validator.New(), zap.NewNop())

	unread := false
	n, err := svc.SetRead(context.Background(), MarkReadRequest{NotificationID: "n-1", Read: &unread})
	require.NoError(t, err)
	assert.False(t, n.Read)
	assert.Nil(t, n.ReadAt)
}

func TestNotificationSetReadNotFound(t *testing.T) {
	svc := NewNotificationService(&mockNotificationRepo{}, validator.New(), zap.NewNop())

	_, err := svc.SetRead(context.Background(), MarkReadRequest{NotificationID: "ghost"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestNotificationMarkAllReadReturnsCount(t *testing.T) {
	repo := &mockNotificationRepo{items: map[string]models.Notification{
		"n-1": {ID: "n-1"},
		"n-2": {ID: "n-2"},
		"n-3": {ID: "n-3", Read: true},
	}}
	svc := NewNotificationService(repo, validator.New(), zap.NewNop())

	count, err := svc.MarkAllRead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
