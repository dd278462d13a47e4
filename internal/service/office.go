package service

import (
	"fmt"
	"time"

	"hours-bank-bot/internal/models"
	"hours-bank-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type OfficeService struct {
	officeRepo repository.OfficeRepository
	logger     *logrus.Logger
}

func NewOfficeService(officeRepo repository.OfficeRepository) *OfficeService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &OfficeService{officeRepo: officeRepo, logger: logger}
}

// EnsureDefaultOffice creates the sentinel office for unassigned users if it
// does not exist. Called once at startup; never a side effect of user saves.
func (s *OfficeService) EnsureDefaultOffice() (*models.Office, error) {
	office, err := s.officeRepo.GetByInitials(models.DefaultOfficeInitials)
	if err != nil {
		return nil, err
	}
	if office != nil {
		return office, nil
	}

	office = &models.Office{
		Name:                   "No assignment",
		Initials:               models.DefaultOfficeInitials,
		AbsenceDebitOnRestdays: true,
	}
	if err := s.officeRepo.Create(office); err != nil {
		return nil, err
	}

	s.logger.WithField("initials", office.Initials).Info("Default office created")
	return office, nil
}

func (s *OfficeService) Create(office *models.Office) error {
	return s.officeRepo.Create(office)
}

func (s *OfficeService) Update(office *models.Office) error {
	return s.officeRepo.Update(office)
}

func (s *OfficeService) GetByID(id uint) (*models.Office, error) {
	return s.officeRepo.GetByID(id)
}

func (s *OfficeService) GetAll() ([]*models.Office, error) {
	return s.officeRepo.GetAll()
}

// StartControl activates balance tracking for an office from the given date.
func (s *OfficeService) StartControl(officeID uint, startDate time.Time) error {
	office, err := s.officeRepo.GetByID(officeID)
	if err != nil {
		return err
	}
	if office == nil {
		return fmt.Errorf("office not found")
	}

	day := models.DateOf(startDate)
	office.HoursControlStartDate = &day

	s.logger.WithFields(logrus.Fields{
		"office_id": officeID,
		"start":     day.Format("2006-01-02"),
	}).Info("Hours control started")

	return s.officeRepo.Update(office)
}
