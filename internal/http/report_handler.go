package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nnikochann/numero-tg/internal/repository"
	"github.com/nnikochann/numero-tg/internal/service"
)

// ReportHandler sirve los archivos de reporte detrás de enlaces firmados.
type ReportHandler struct {
	logger  *zap.Logger
	reports repository.ReportRepository
	links   *service.ReportLinkService
}

func NewReportHandler(logger *zap.Logger, reports repository.ReportRepository, links *service.ReportLinkService) *ReportHandler {
	return &ReportHandler{logger: logger, reports: reports, links: links}
}

// Download maneja GET /reports/:id/download?token=...
func (h *ReportHandler) Download(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	reportID, err := h.links.Verify(c.Query("token"))
	if err != nil {
		if errors.Is(err, service.ErrLinkExpired) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "download link expired"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid download link"})
		return
	}
	// El token firma un reporte concreto; no sirve para otro id.
	if reportID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "token does not match report"})
		return
	}

	report, err := h.reports.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		h.logger.Error("get report failed", zap.Error(err), zap.Int64("report_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load report"})
		return
	}
	if report.PDFURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "report file not ready"})
		return
	}

	c.FileAttachment(report.PDFURL, filepath.Base(report.PDFURL))
}
