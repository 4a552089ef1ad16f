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

// StudentHandler exposes the student roster endpoints.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// List godoc
// @Summary List students
// @Description List student profiles with their current subscription
// @Tags Students
// @Produce json
// @Param search query string false "Match against full name"
// @Param yearOfStudy query string false "Filter by year of study"
// @Param program query string false "Filter by program"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Envelope
// @Router /admin/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.ProfileFilter{
		Search:      c.Query("search"),
		YearOfStudy: c.Query("yearOfStudy"),
		Program:     c.Query("program"),
		Limit:       queryInt(c, "limit", 0),
		Offset:      queryInt(c, "offset", 0),
	}
	students, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Approve godoc
// @Summary Toggle student approval
// @Description Set or clear the admin approval flag on a student profile
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body handler.approvalPayload true "Target user and flag"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/approveUser [post]
func (h *StudentHandler) Approve(c *gin.Context) {
	var payload approvalPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "userId is required"))
		return
	}
	approved := true
	if payload.AdminApproved != nil {
		approved = *payload.AdminApproved
	}
	if _, err := h.service.SetApproval(c.Request.Context(), payload.UserID, approved); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true}, nil)
}

// ResetDevice godoc
// @Summary Reset a student device binding
// @Description Clear the registered device so the student can sign in elsewhere
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body handler.userIDPayload true "Target user"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/resetDevice [post]
func (h *StudentHandler) ResetDevice(c *gin.Context) {
	var payload userIDPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "userId is required"))
		return
	}
	if _, err := h.service.ResetDevice(c.Request.Context(), payload.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true}, nil)
}

// userIDPayload targets a single student account.
type userIDPayload struct {
	UserID string `json:"userId" binding:"required"`
}

// approvalPayload carries the approval toggle. A missing flag approves.
type approvalPayload struct {
	UserID        string `json:"userId" binding:"required"`
	AdminApproved *bool  `json:"adminApproved"`
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
