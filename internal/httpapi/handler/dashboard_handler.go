package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rateme/internal/httpapi/dto"
	"rateme/internal/httpapi/middleware"
	"rateme/internal/httpapi/models"
	"rateme/internal/httpapi/service"
)

const recentFeedbackLimit = 10

type DashboardHandler struct {
	courseService     service.CourseService
	feedbackService   service.FeedbackService
	statsService      service.StatsService
	suggestionService service.SuggestionService
}

func NewDashboardHandler(
	courseService service.CourseService,
	feedbackService service.FeedbackService,
	statsService service.StatsService,
	suggestionService service.SuggestionService,
) *DashboardHandler {
	return &DashboardHandler{
		courseService:     courseService,
		feedbackService:   feedbackService,
		statsService:      statsService,
		suggestionService: suggestionService,
	}
}

// RegisterRoutes registers the dashboard route (parent group is authenticated)
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.Dashboard)
}

// Dashboard branches on the caller's role: students see the course catalog,
// lecturers see their statistics, recent feedback and latest suggestion.
// GET /api/dashboard
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	role, ok := middleware.CurrentRole(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "role not found in token"})
		return
	}

	switch role {
	case models.RoleStudent:
		h.studentDashboard(c)
	case models.RoleLecturer, models.RoleAdmin:
		h.lecturerDashboard(c, userID)
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid role"})
	}
}

func (h *DashboardHandler) studentDashboard(c *gin.Context) {
	courses, err := h.courseService.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.StudentDashboardResponse{
		Role:    string(models.RoleStudent),
		Courses: dto.FromModelsToCourseResponses(courses),
	})
}

func (h *DashboardHandler) lecturerDashboard(c *gin.Context, lecturerID string) {
	stats, err := h.statsService.LecturerStats(c.Request.Context(), lecturerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	recent, err := h.feedbackService.RecentByLecturer(lecturerID, recentFeedbackLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	courses, err := h.courseService.ListByLecturer(lecturerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := dto.LecturerDashboardResponse{
		Role:             string(models.RoleLecturer),
		AvgRating:        stats.AvgRating,
		AvgTeaching:      stats.AvgTeaching,
		AvgCommunication: stats.AvgCommunication,
		AvgEngagement:    stats.AvgEngagement,
		TotalFeedback:    stats.TotalFeedback,
		RecentFeedback:   dto.FromModelsToFeedbackResponses(recent),
		Courses:          dto.FromModelsToCourseResponses(courses),
		ChartLabels:      service.ChartLabels,
		ChartData:        service.ChartData(stats),
	}

	latest, err := h.suggestionService.Latest(lecturerID)
	if err == nil {
		resp.LatestSuggestion = dto.FromModelToSuggestionResponse(latest)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
