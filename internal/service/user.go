package service

import (
	"fmt"

	"hours-bank-bot/internal/models"
	"hours-bank-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type UserService struct {
	userRepo   repository.UserRepository
	officeRepo repository.OfficeRepository
	logger     *logrus.Logger
}

func NewUserService(userRepo repository.UserRepository, officeRepo repository.OfficeRepository) *UserService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &UserService{
		userRepo:   userRepo,
		officeRepo: officeRepo,
		logger:     logger,
	}
}

// Register creates a worker attached to the default office. Moving the user
// to a real office is an admin operation.
func (s *UserService) Register(chatID int64, username, firstName, lastName string) (*models.User, error) {
	if firstName == "" {
		return nil, fmt.Errorf("first name cannot be empty")
	}

	defaultOffice, err := s.officeRepo.GetByInitials(models.DefaultOfficeInitials)
	if err != nil {
		return nil, err
	}
	if defaultOffice == nil {
		return nil, fmt.Errorf("default office missing: run the bootstrap first")
	}

	user := &models.User{
		ChatID:    chatID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Role:      models.RoleWorker,
		OfficeID:  defaultOffice.ID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.Office = *defaultOffice

	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"office":  defaultOffice.Initials,
	}).Info("User registered")

	return user, nil
}

func (s *UserService) GetByChatID(chatID int64) (*models.User, error) {
	return s.userRepo.GetByChatID(chatID)
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *UserService) GetAll() ([]*models.User, error) {
	return s.userRepo.GetAll()
}

// AssignOffice moves a user to another office.
func (s *UserService) AssignOffice(userID uint, officeID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	office, err := s.officeRepo.GetByID(officeID)
	if err != nil {
		return err
	}
	if office == nil {
		return fmt.Errorf("office not found")
	}

	user.OfficeID = officeID
	user.Office = *office
	return s.userRepo.Update(user)
}

// SetOpeningBalance sets the one-time pre-tracking offset for a user.
func (s *UserService) SetOpeningBalance(userID uint, seconds int) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}
	user.OpeningBalanceSeconds = seconds
	return s.userRepo.Update(user)
}

// InitializeAdmin promotes the configured chat id to admin if that user
// already exists. A zero chat id disables the step.
func (s *UserService) InitializeAdmin(chatID int64) error {
	if chatID == 0 {
		return nil
	}

	user, err := s.userRepo.GetByChatID(chatID)
	if err != nil {
		return err
	}
	if user == nil {
		s.logger.WithField("chat_id", chatID).Info("Admin user not registered yet; will need promotion after /start")
		return nil
	}
	if user.IsAdmin() {
		return nil
	}
	return s.userRepo.UpdateRole(chatID, models.Role(models.RoleAdmin))
}
