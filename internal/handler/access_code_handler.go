package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nlcorner/admin-api/internal/models"
	"github.com/nlcorner/admin-api/internal/service"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
	"github.com/nlcorner/admin-api/pkg/export"
	"github.com/nlcorner/admin-api/pkg/response"
)

// AccessCodeHandler exposes access code generation, listing and export.
type AccessCodeHandler struct {
	service *service.AccessCodeService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	maxRows int
}

// NewAccessCodeHandler creates a new handler.
func NewAccessCodeHandler(svc *service.AccessCodeService, maxRows int) *AccessCodeHandler {
	return &AccessCodeHandler{
		service: svc,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		maxRows: maxRows,
	}
}

// List godoc
// @Summary List access codes
// @Tags AccessCodes
// @Produce json
// @Param used query bool false "Filter by redemption state"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Envelope
// @Router /admin/accessCodes [get]
func (h *AccessCodeHandler) List(c *gin.Context) {
	filter := models.AccessCodeFilter{
		Limit:  queryInt(c, "limit", 0),
		Offset: queryInt(c, "offset", 0),
	}
	if raw := c.Query("used"); raw != "" {
		used, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "used must be true or false"))
			return
		}
		filter.Used = &used
	}
	codes, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, codes, pagination)
}

// Generate godoc
// @Summary Generate access codes
// @Description Create a batch of unused subscription access codes
// @Tags AccessCodes
// @Accept json
// @Produce json
// @Param payload body service.GenerateAccessCodesRequest true "Batch parameters"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/accessCodes [post]
func (h *AccessCodeHandler) Generate(c *gin.Context) {
	var req service.GenerateAccessCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	codes, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"success": true, "count": len(codes), "codes": codes}, nil)
}

// Export godoc
// @Summary Export access codes
// @Description Download access codes as CSV or PDF
// @Tags AccessCodes
// @Produce text/csv
// @Produce application/pdf
// @Param used query bool false "Filter by redemption state"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /admin/exportAccessCodes [get]
func (h *AccessCodeHandler) Export(c *gin.Context) {
	filter := models.AccessCodeFilter{}
	if raw := c.Query("used"); raw != "" {
		used, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "used must be true or false"))
			return
		}
		filter.Used = &used
	}

	dataset, err := h.service.ExportDataset(c.Request.Context(), filter, h.maxRows)
	if err != nil {
		response.Error(c, err)
		return
	}

	stamp := time.Now().UTC().Format("2006-01-02")
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, err := h.csv.Render(dataset)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=access-codes-%s.csv", stamp))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.pdf.Render(dataset, "Access Codes")
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=access-codes-%s.pdf", stamp))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}
