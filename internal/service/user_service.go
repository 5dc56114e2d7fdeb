package service

import (
	"database/sql"

	"habitquest/internal/database"
	"habitquest/internal/models"
	"habitquest/internal/repository"
)

// UserService handles user registration and profile logic
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(db *database.DB) *UserService {
	return &UserService{
		userRepo: repository.NewUserRepository(db),
	}
}

// GetOrCreate returns the user for a Telegram account, registering it on
// first contact.
func (s *UserService) GetOrCreate(telegramID int64, username, fullName, languageCode string) (*models.User, error) {
	user, err := s.userRepo.GetByTelegramID(telegramID)
	if err == nil {
		return user, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	if languageCode == "" {
		languageCode = "en"
	}
	return s.userRepo.Create(telegramID, username, fullName, languageCode)
}

// Get returns the user by Telegram id
func (s *UserService) Get(telegramID int64) (*models.User, error) {
	user, err := s.userRepo.GetByTelegramID(telegramID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return user, err
}

// GetByID returns the user by internal id
func (s *UserService) GetByID(id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return user, err
}

// UpdateSettings replaces the user's settings blob
func (s *UserService) UpdateSettings(userID int64, settings models.UserSettings) error {
	return s.userRepo.UpdateSettings(userID, settings)
}

// ListAll returns every registered user
func (s *UserService) ListAll() ([]models.User, error) {
	return s.userRepo.ListAll()
}
