package service

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"rateme/internal/httpapi/models"
	"rateme/internal/httpapi/repository"
	"rateme/internal/images"
)

// ProfileService handles profile picture uploads: normalize, store on disk,
// record the stored filename on the user.
type ProfileService interface {
	UpdateProfilePicture(userID, filename string, data []byte) (*models.User, error)
}

type profileService struct {
	userRepo     repository.UserRepository
	userDataPath string
	maxImageSize int
	log          *slog.Logger
}

func NewProfileService(userRepo repository.UserRepository, userDataPath string, maxImageSize int, log *slog.Logger) ProfileService {
	return &profileService{
		userRepo:     userRepo,
		userDataPath: userDataPath,
		maxImageSize: maxImageSize,
		log:          log,
	}
}

// UpdateProfilePicture normalizes the upload (square crop, size bound, JPEG)
// and stores it under the user data path. Normalization failures degrade to
// storing the original upload, never to an error for the caller.
func (s *profileService) UpdateProfilePicture(userID, filename string, data []byte) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	processed, storedName := images.ProcessProfilePicture(s.log, data, filename, s.maxImageSize)

	if err := os.MkdirAll(s.userDataPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create user data dir: %w", err)
	}

	// prefix with the user ID so uploads from different users never collide
	storedName = fmt.Sprintf("%s_%s", userID, storedName)
	if err := os.WriteFile(filepath.Join(s.userDataPath, storedName), processed, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store profile picture: %w", err)
	}

	user.ProfilePicture = &storedName
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}
