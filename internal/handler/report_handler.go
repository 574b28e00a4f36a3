package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alextrocado/edumanage/internal/response"
	"github.com/alextrocado/edumanage/internal/service"
)

// ReportHandler serves aggregated class and student summaries.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ClassReport godoc
// GET /api/v1/classes/:id/report
func (h *ReportHandler) ClassReport(c *gin.Context) {
	report, err := h.reportService.ClassReport(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// StudentReport godoc
// GET /api/v1/classes/:id/students/:sid/report?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ReportHandler) StudentReport(c *gin.Context) {
	report, err := h.reportService.StudentReport(
		c.Request.Context(),
		userID(c),
		c.Param("id"),
		c.Param("sid"),
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}
