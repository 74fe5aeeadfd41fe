package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rateme/internal/httpapi/middleware"
	"rateme/internal/httpapi/models"
	"rateme/internal/httpapi/repository"
	"rateme/internal/httpapi/service"
	"rateme/internal/report"
)

type ReportHandler struct {
	feedbackService service.FeedbackService
	statsService    service.StatsService
	userRepo        repository.UserRepository
}

func NewReportHandler(
	feedbackService service.FeedbackService,
	statsService service.StatsService,
	userRepo repository.UserRepository,
) *ReportHandler {
	return &ReportHandler{
		feedbackService: feedbackService,
		statsService:    statsService,
		userRepo:        userRepo,
	}
}

// RegisterRoutes registers the lecturer-only report route
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports", middleware.RequireRole(models.RoleLecturer))
	{
		reports.GET("/feedback", h.ExportFeedbackPDF)
	}
}

// ExportFeedbackPDF streams the caller's feedback report as a PDF download.
// GET /api/reports/feedback
func (h *ReportHandler) ExportFeedbackPDF(c *gin.Context) {
	lecturerID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	lecturer, err := h.userRepo.FindByID(lecturerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	feedback, err := h.feedbackService.ListByLecturer(lecturerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(feedback) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No feedback available to export."})
		return
	}

	stats, err := h.statsService.LecturerStats(c.Request.Context(), lecturerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pdfBytes, err := report.FeedbackReportPDF(lecturer, feedback, stats)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := report.ReportFilename(lecturer.Username, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
