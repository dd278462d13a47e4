package service

import (
	"errors"

	"hours-bank-bot/internal/models"
	"hours-bank-bot/internal/repository"
	"hours-bank-bot/internal/timecalc"

	"github.com/sirupsen/logrus"
)

type AbsenceService struct {
	absenceRepo repository.AbsenceRepository
	balanceRepo repository.HoursBalanceRepository
	userRepo    repository.UserRepository
	calc        *timecalc.Calculator
	logger      *logrus.Logger
}

func NewAbsenceService(
	absenceRepo repository.AbsenceRepository,
	balanceRepo repository.HoursBalanceRepository,
	userRepo repository.UserRepository,
	calc *timecalc.Calculator,
) *AbsenceService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &AbsenceService{
		absenceRepo: absenceRepo,
		balanceRepo: balanceRepo,
		userRepo:    userRepo,
		calc:        calc,
		logger:      logger,
	}
}

func (s *AbsenceService) Create(absence *models.Absence) error {
	if err := s.absenceRepo.Create(absence); err != nil {
		return err
	}
	if absence.DebitSeconds != 0 {
		return s.recompute(absence)
	}
	return nil
}

func (s *AbsenceService) Update(absence *models.Absence) error {
	if err := s.absenceRepo.Update(absence); err != nil {
		return err
	}
	return s.recompute(absence)
}

func (s *AbsenceService) Delete(id uint) error {
	absence, err := s.absenceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if absence == nil {
		return errors.New("absence not found")
	}
	if err := s.absenceRepo.Delete(id); err != nil {
		return err
	}
	return s.recompute(absence)
}

func (s *AbsenceService) GetByUserID(userID uint) ([]models.Absence, error) {
	return s.absenceRepo.GetByUserID(userID)
}

// recompute refreshes the existing ledger row for the absence's (user, date).
// When no row exists yet, the lazy daily-balance read will pick the absence
// up on first view.
func (s *AbsenceService) recompute(absence *models.Absence) error {
	row, err := s.balanceRepo.Get(absence.UserID, absence.Date)
	if err != nil {
		return err
	}
	if row == nil {
		return nil
	}

	user, err := s.userRepo.GetByID(absence.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("absence user not found")
	}

	credit, debit, err := s.calc.DayTotals(user, absence.Date)
	if err != nil {
		return err
	}
	if _, err := s.balanceRepo.Upsert(user.ID, absence.Date, int(credit.Seconds()), int(debit.Seconds())); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": absence.UserID,
		"date":    absence.Date.Format("2006-01-02"),
		"cause":   absence.Cause,
	}).Info("Balance recomputed after absence change")

	return nil
}
