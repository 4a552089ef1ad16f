package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nlcorner/admin-api/internal/models"
	"github.com/nlcorner/admin-api/internal/service"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
	"github.com/nlcorner/admin-api/pkg/response"
)

// ContentHandler exposes the learning material endpoints.
type ContentHandler struct {
	service   *service.ContentService
	maxUpload int64
}

// NewContentHandler creates a new handler.
func NewContentHandler(svc *service.ContentService, maxUpload int64) *ContentHandler {
	return &ContentHandler{service: svc, maxUpload: maxUpload}
}

// List godoc
// @Summary List content
// @Description List learning material metadata. type=media combines PDF and AUDIO.
// @Tags Content
// @Produce json
// @Param search query string false "Match against title"
// @Param type query string false "PDF, AUDIO, PAST_PAPER, MARKING_KEY or media"
// @Param yearOfStudy query string false "Filter by year of study"
// @Param program query string false "Filter by program"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/content [get]
func (h *ContentHandler) List(c *gin.Context) {
	filter := models.ContentFilter{
		Search:      c.Query("search"),
		Type:        c.Query("type"),
		YearOfStudy: c.Query("yearOfStudy"),
		Program:     c.Query("program"),
		Limit:       queryInt(c, "limit", 0),
	}
	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Upload content
// @Description Store a learning material file with its metadata
// @Tags Content
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param type formData string true "Content type"
// @Param yearOfStudy formData string true "Year of study"
// @Param program formData string true "Program"
// @Param subject formData string false "Subject"
// @Param description formData string false "Description"
// @Param file formData file true "Content file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/content [post]
func (h *ContentHandler) Create(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	req := service.CreateContentRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Type:        c.PostForm("type"),
		YearOfStudy: c.PostForm("yearOfStudy"),
		Program:     c.PostForm("program"),
	}
	if subject := c.PostForm("subject"); subject != "" {
		req.Subject = &subject
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read uploaded file"))
		return
	}
	defer file.Close()

	content, err := h.service.Create(c.Request.Context(), req, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, content)
}

// Delete godoc
// @Summary Delete content
// @Description Remove content metadata, then best-effort delete the stored file
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body handler.contentIDPayload true "Target content"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/deleteContent [post]
func (h *ContentHandler) Delete(c *gin.Context) {
	var payload contentIDPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "contentId and storageFileId are required"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), payload.ContentID, payload.StorageFileID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true}, nil)
}

// contentIDPayload targets a single content record and its stored file.
type contentIDPayload struct {
	ContentID     string `json:"contentId" binding:"required"`
	StorageFileID string `json:"storageFileId" binding:"required"`
}
