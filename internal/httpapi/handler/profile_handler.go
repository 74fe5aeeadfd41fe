package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"rateme/internal/httpapi/middleware"
	"rateme/internal/httpapi/service"
)

// uploads larger than this are rejected before processing
const maxUploadBytes = 10 << 20 // 10MB

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// RegisterRoutes registers the profile routes (parent group is authenticated)
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.PUT("/me/profile-picture", h.UpdateProfilePicture)
	}
}

// UpdateProfilePicture accepts a multipart image upload, normalizes it to a
// square bounded JPEG and records it on the caller's profile.
// PUT /api/users/me/profile-picture
func (h *ProfileHandler) UpdateProfilePicture(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	fileHeader, err := c.FormFile("profile_picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_picture file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}

	user, err := h.profileService.UpdateProfilePicture(userID, fileHeader.Filename, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Profile picture updated.",
		"profile_picture": user.ProfilePicture,
	})
}
