package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nlcorner/admin-api/internal/models"
	"github.com/nlcorner/admin-api/internal/service"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
	"github.com/nlcorner/admin-api/pkg/response"
)

// NotificationHandler exposes dashboard notification endpoints.
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler creates a new handler.
func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// List godoc
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param type query string false "info, warning, success or all"
// @Param unreadOnly query bool false "Only unread notifications"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	filter := models.NotificationFilter{
		Type:  c.Query("type"),
		Limit: queryInt(c, "limit", 0),
	}
	if raw := c.Query("unreadOnly"); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unreadOnly must be true or false"))
			return
		}
		filter.UnreadOnly = unread
	}
	notifications, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notifications, nil)
}

// Create godoc
// @Summary Create a notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body service.CreateNotificationRequest true "Notification payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	var req service.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notification payload"))
		return
	}
	notification, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, notification)
}

// SetRead godoc
// @Summary Mark a notification read or unread
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body service.MarkReadRequest true "Target notification"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/notifications [patch]
func (h *NotificationHandler) SetRead(c *gin.Context) {
	var req service.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "notificationId is required"))
		return
	}
	notification, err := h.service.SetRead(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notification, nil)
}

// MarkAllRead godoc
// @Summary Mark every notification read
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/notifications/mark-all-read [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.service.MarkAllRead(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true, "count": count}, nil)
}
