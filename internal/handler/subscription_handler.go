package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nlcorner/admin-api/internal/service"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
	"github.com/nlcorner/admin-api/pkg/response"
)

// SubscriptionHandler exposes subscription lifecycle endpoints.
type SubscriptionHandler struct {
	service *service.SubscriptionService
}

// NewSubscriptionHandler creates a new handler.
func NewSubscriptionHandler(svc *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: svc}
}

// Extend godoc
// @Summary Extend a subscription
// @Description Add days to a student subscription, creating one when absent
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param payload body service.ExtendSubscriptionRequest true "Extension parameters"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/extendSubscription [post]
func (h *SubscriptionHandler) Extend(c *gin.Context) {
	var req service.ExtendSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid extension payload"))
		return
	}
	sub, err := h.service.Extend(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true, "newEndDate": sub.EndDate}, nil)
}

// Expire godoc
// @Summary Expire a subscription
// @Description Immediately end a student subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param payload body handler.userIDPayload true "Target user"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/expireSubscription [post]
func (h *SubscriptionHandler) Expire(c *gin.Context) {
	var payload userIDPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "userId is required"))
		return
	}
	if _, err := h.service.Expire(c.Request.Context(), payload.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true}, nil)
}
