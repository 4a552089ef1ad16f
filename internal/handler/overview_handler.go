package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nlcorner/admin-api/internal/middleware"
	"github.com/nlcorner/admin-api/internal/service"
	"github.com/nlcorner/admin-api/pkg/response"
)

// OverviewHandler exposes the dashboard statistics endpoint.
type OverviewHandler struct {
	service *service.OverviewService
}

// NewOverviewHandler creates a new handler.
func NewOverviewHandler(svc *service.OverviewService) *OverviewHandler {
	return &OverviewHandler{service: svc}
}

// Stats godoc
// @Summary Dashboard overview
// @Description Aggregated counts, recent activity and the 7-day registration trend
// @Tags Overview
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/overview [get]
func (h *OverviewHandler) Stats(c *gin.Context) {
	stats, fromCache, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, fromCache)
	response.JSON(c, http.StatusOK, stats, nil, middleware.ExtractMeta(c))
}
