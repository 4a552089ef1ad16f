package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	internalmiddleware "github.com/nlcorner/admin-api/internal/middleware"
	"github.com/nlcorner/admin-api/internal/models"
	"github.com/nlcorner/admin-api/internal/repository"
	"github.com/nlcorner/admin-api/internal/service"
)

type overviewProfilesStub struct{}

func (overviewProfilesStub) CountAll(ctx context.Context) (int, error) { return 5, nil }
func (overviewProfilesStub) Recent(ctx context.Context, limit int) ([]models.Profile, error) {
	return nil, nil
}
func (overviewProfilesStub) DailyNewCounts(ctx context.Context, since time.Time) (map[string]int, error) {
	return nil, nil
}

type overviewSubscriptionsStub struct{}

func (overviewSubscriptionsStub) CountByStatus(ctx context.Context, status models.SubscriptionStatus) (int, error) {
	return 2, nil
}

type overviewContentStub struct{}

func (overviewContentStub) CountAll(ctx context.Context) (int, error) { return 3, nil }
func (overviewContentStub) Recent(ctx context.Context, limit int) ([]models.Content, error) {
	return nil, nil
}

type overviewAccessCodesStub struct{}

func (overviewAccessCodesStub) CountUsed(ctx context.Context) (int, error) { return 1, nil }

func newOverviewTestRouter() *gin.Engine {
	cacheService := service.NewCacheService(repository.NewMemoryCacheRepository(), nil, time.Minute, zap.NewNop(), true)
	svc := service.NewOverviewService(
		overviewProfilesStub{}, overviewSubscriptionsStub{}, overviewContentStub{},
		overviewAccessCodesStub{}, cacheService, zap.NewNop(), nil)
	handler := NewOverviewHandler(svc)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(internalmiddleware.WithResponseMeta())
	router.GET("/admin/overview", handler.Stats)
	return router
}

func TestOverviewEndpointReportsCacheHitInMeta(t *testing.T) {
	router := newOverviewTestRouter()

	fetchMeta := func() map[string]interface{} {
		req, _ := http.NewRequest(http.MethodGet, "/admin/overview", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)

		var envelope struct {
			Meta map[string]interface{} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		require.NotNil(t, envelope.Meta)
		return envelope.Meta
	}

	first := fetchMeta()
	require.Equal(t, false, first["cacheHit"])

	second := fetchMeta()
	require.Equal(t, true, second["cacheHit"])
	require.Contains(t, second, "processingTimeMs")
}
