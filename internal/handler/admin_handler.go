package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nlcorner/admin-api/internal/middleware"
	"github.com/nlcorner/admin-api/internal/service"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
	"github.com/nlcorner/admin-api/pkg/response"
)

// AdminHandler exposes the admin roster endpoints.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// List godoc
// @Summary List admins
// @Tags Admins
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/admins [get]
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admins, nil)
}

// Add godoc
// @Summary Grant admin rights
// @Tags Admins
// @Accept json
// @Produce json
// @Param payload body service.AddAdminRequest true "Target user"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/admins [post]
func (h *AdminHandler) Add(c *gin.Context) {
	var req service.AddAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid admin payload"))
		return
	}
	admin, err := h.service.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, admin)
}

// Remove godoc
// @Summary Revoke admin rights
// @Description Remove another admin. Self-removal and removing the last admin are rejected.
// @Tags Admins
// @Accept json
// @Produce json
// @Param payload body service.RemoveAdminRequest true "Target user"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/admins/remove [post]
func (h *AdminHandler) Remove(c *gin.Context) {
	auth := middleware.CurrentAuth(c)
	if auth == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.RemoveAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "userId is required"))
		return
	}
	if err := h.service.Remove(c.Request.Context(), auth.Account.ID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true}, nil)
}
