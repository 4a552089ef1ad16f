package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nlcorner/admin-api/internal/models"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
)

type mockAdminRepo struct {
	admins  map[string]models.Admin
	deleted []string
}

func (m *mockAdminRepo) List(ctx context.Context) ([]models.Admin, error) {
	out := make([]models.Admin, 0, len(m.admins))
	for _, a := range m.admins {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAdminRepo) Count(ctx context.Context) (int, error) {
	return len(m.admins), nil
}

func (m *mockAdminRepo) FindByUserID(ctx context.Context, userID string) (*models.Admin, error) {
	if a, ok := m.admins[userID]; ok {
		admin := a
		return &admin, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	if m.admins == nil {
		m.admins = make(map[string]models.Admin)
	}
	if admin.ID == "" {
		admin.ID = "admin-" + admin.UserID
	}
	m.admins[admin.UserID] = *admin
	return nil
}

func (m *mockAdminRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	for userID, a := range m.admins {
		if a.ID == id {
			delete(m.admins, userID)
		}
	}
	return nil
}

type mockSessionInvalidator struct {
	calls int
}

func (m *mockSessionInvalidator) InvalidateCache() { m.calls++ }

func newAdminFixture(userIDs ...string) (*AdminService, *mockAdminRepo, *mockSessionInvalidator) {
	repo := &mockAdminRepo{admins: make(map[string]models.Admin)}
	for _, id := range userIDs {
		repo.admins[id] = models.Admin{ID: "admin-" + id, UserID: id, Email: id + "@nlc.test"}
	}
	sessions := &mockSessionInvalidator{}
	return NewAdminService(repo, sessions, validator.New(), zap.NewNop()), repo, sessions
}

func TestAdminAdd(t *testing.T) {
	svc, repo, sessions := newAdminFixture("user-1")

	admin, err := svc.Add(context.Background(), AddAdminRequest{UserID: "user-2", Email: "two@nlc.test"})
	require.NoError(t, err)
	assert.Equal(t, "user-2", admin.UserID)
	assert.Len(t, repo.admins, 2)
	assert.Equal(t, 1, sessions.calls)
}

func TestAdminAddConflictWhenAlreadyAdmin(t *testing.T) {
	svc, _, sessions := newAdminFixture("user-1")

	_, err := svc.Add(context.Background(), AddAdminRequest{UserID: "user-1", Email: "one@nlc.test"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Zero(t, sessions.calls)
}

func TestAdminRemove(t *testing.T) {
	svc, repo, sessions := newAdminFixture("user-1", "user-2")

	err := svc.Remove(context.Background(), "user-1", RemoveAdminRequest{UserID: "user-2"})
	require.NoError(t, err)
	assert.Len(t, repo.admins, 1)
	assert.Equal(t, 1, sessions.calls)
}

func TestAdminRemoveRejectsSelfRemoval(t *testing.T) {
	svc, repo, _ := newAdminFixture("user-1", "user-2")

	err := svc.Remove(context.Background(), "user-1", RemoveAdminRequest{UserID: "user-1"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Len(t, repo.admins, 2)
}

func TestAdminRemoveRejectsLastAdmin(t *testing.T) {
	svc, repo, _ := newAdminFixture("user-2")

	err := svc.Remove(context.Background(), "user-1", RemoveAdminRequest{UserID: "user-2"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Len(t, repo.admins, 1)
	assert.Empty(t, repo.deleted)
}

func TestAdminRemoveNotFound(t *testing.T) {
	svc, _, _ := newAdminFixture("user-1", "user-2")

	err := svc.Remove(context.Background(), "user-1", RemoveAdminRequest{UserID: "ghost"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
