package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rateme/internal/httpapi/dto"
	"rateme/internal/httpapi/middleware"
	"rateme/internal/httpapi/models"
	"rateme/internal/httpapi/service"
)

type SuggestionHandler struct {
	suggestionService service.SuggestionService
}

func NewSuggestionHandler(suggestionService service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// RegisterRoutes registers the lecturer-only suggestion routes
func (h *SuggestionHandler) RegisterRoutes(router *gin.RouterGroup) {
	suggestions := router.Group("/suggestions", middleware.RequireRole(models.RoleLecturer))
	{
		suggestions.POST("", h.Generate)
		suggestions.GET("", h.History)
	}
}

// Generate produces and persists a new suggestion from the caller's feedback.
// POST /api/suggestions
func (h *SuggestionHandler) Generate(c *gin.Context) {
	lecturerID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	suggestion, err := h.suggestionService.Generate(c.Request.Context(), lecturerID)
	if err != nil {
		switch err {
		case service.ErrNoFeedback:
			c.JSON(http.StatusBadRequest, gin.H{"error": "No feedback available yet. Suggestions will be generated once students provide feedback."})
		case service.ErrAINotConfigured:
			c.JSON(http.StatusBadRequest, gin.H{"error": "AI service is not configured. Please contact administrator."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "New AI suggestions generated!",
		"suggestion": dto.FromModelToSuggestionResponse(suggestion),
	})
}

// History returns the caller's suggestion history, most recent first.
// GET /api/suggestions
func (h *SuggestionHandler) History(c *gin.Context) {
	lecturerID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	suggestions, err := h.suggestionService.History(lecturerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": dto.FromModelsToSuggestionResponses(suggestions)})
}
