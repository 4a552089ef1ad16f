package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nlcorner/admin-api/internal/models"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
)

type mockContentRepo struct {
	items   map[string]models.Content
	listed  []models.Content
	deleted []string
}

func (m *mockContentRepo) List(ctx context.Context, filter models.ContentFilter) ([]models.Content, error) {
	return m.listed, nil
}

func (m *mockContentRepo) FindByID(ctx context.Context, id string) (*models.Content, error) {
	if c, ok := m.items[id]; ok {
		content := c
		return &content, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockContentRepo) Create(ctx context.Context, content *models.Content) error {
	if m.items == nil {
		m.items = make(map[string]models.Content)
	}
	if content.ID == "" {
		content.ID = "content-1"
	}
	m.items[content.ID] = *content
	return nil
}

func (m *mockContentRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

type mockBucket struct {
	saved     int
	deleteErr error
	deleted   []string
}

func (m *mockBucket) Save(r io.Reader) (string, error) {
	m.saved++
	_, _ = io.Copy(io.Discard, r)
	return "file-1", nil
}

func (m *mockBucket) Delete(fileID string) error {
	m.deleted = append(m.deleted, fileID)
	return m.deleteErr
}

func newContentFixture(normalize bool) (*ContentService, *mockContentRepo, *mockBucket) {
	repo := &mockContentRepo{items: make(map[string]models.Content)}
	bucket := &mockBucket{}
	svc := NewContentService(repo, bucket, nil, validator.New(), zap.NewNop(), &ContentServiceConfig{NormalizeYearOfStudy: normalize})
	return svc, repo, bucket
}

func TestContentCreateStoresFileThenMetadata(t *testing.T) {
	svc, repo, bucket := newContentFixture(false)

	content, err := svc.Create(context.Background(), CreateContentRequest{
		Title:       "Pharmacology Notes",
		Type:        "PDF",
		YearOfStudy: "Year_One",
		Program:     "nursing",
	}, strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	assert.Equal(t, 1, bucket.saved)
	assert.Equal(t, "file-1", content.StorageFileID)
	assert.Equal(t, "Year_One", content.YearOfStudy)
	assert.Contains(t, repo.items, content.ID)
}

func TestContentCreateNormalizesYearOfStudy(t *testing.T) {
	svc, _, _ := newContentFixture(true)

	content, err := svc.Create(context.Background(), CreateContentRequest{
		Title:       "Anatomy Audio",
		Type:        "AUDIO",
		YearOfStudy: "Year_One",
		Program:     "nursing",
	}, strings.NewReader("audio-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "yearone", content.YearOfStudy)
}

func TestContentCreateRequiresFields(t *testing.T) {
	svc, _, bucket := newContentFixture(true)

	_, err := svc.Create(context.Background(), CreateContentRequest{Title: "No Type"}, strings.NewReader("x"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Zero(t, bucket.saved)
}

func TestContentDeleteIsBestEffortOnFile(t *testing.T) {
	svc, repo, bucket := newContentFixture(true)
	repo.items["content-1"] = models.Content{ID: "content-1", Title: "Old Paper", StorageFileID: "file-1"}
	bucket.deleteErr = errors.New("bucket unavailable")

	err := svc.Delete(context.Background(), "content-1", "file-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"content-1"}, repo.deleted)
	assert.Equal(t, []string{"file-1"}, bucket.deleted)
}

func TestContentDeleteNotFound(t *testing.T) {
	svc, _, _ := newContentFixture(true)

	err := svc.Delete(context.Background(), "ghost", "file-9")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestContentListMediaCombinesPDFAndAudio(t *testing.T) {
	svc, repo, _ := newContentFixture(true)
	repo.listed = []models.Content{
		{ID: "1", Type: models.ContentPDF},
		{ID: "2", Type: models.ContentAudio},
		{ID: "3", Type: models.ContentPastPaper},
		{ID: "4", Type: models.ContentMarkingKey},
	}

	items, err := svc.List(context.Background(), models.ContentFilter{Type: models.ContentFilterMedia})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "2", items[1].ID)
}
