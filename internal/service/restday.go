package service

import (
	"errors"
	"time"

	"hours-bank-bot/internal/models"
	"hours-bank-bot/internal/repository"
	"hours-bank-bot/internal/timecalc"

	"github.com/sirupsen/logrus"
)

type RestdayService struct {
	restdayRepo repository.RestdayRepository
	balanceRepo repository.HoursBalanceRepository
	userRepo    repository.UserRepository
	calc        *timecalc.Calculator
	logger      *logrus.Logger
}

func NewRestdayService(
	restdayRepo repository.RestdayRepository,
	balanceRepo repository.HoursBalanceRepository,
	userRepo repository.UserRepository,
	calc *timecalc.Calculator,
) *RestdayService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &RestdayService{
		restdayRepo: restdayRepo,
		balanceRepo: balanceRepo,
		userRepo:    userRepo,
		calc:        calc,
		logger:      logger,
	}
}

func (s *RestdayService) Create(day *models.Restday) error {
	if err := s.restdayRepo.Create(day); err != nil {
		return err
	}
	return s.recomputeDebits(day.Date)
}

func (s *RestdayService) Update(day *models.Restday) error {
	if err := s.restdayRepo.Update(day); err != nil {
		return err
	}
	return s.recomputeDebits(day.Date)
}

func (s *RestdayService) Delete(id uint) error {
	day, err := s.restdayRepo.GetByID(id)
	if err != nil {
		return err
	}
	if day == nil {
		return errors.New("restday not found")
	}
	if err := s.restdayRepo.Delete(id); err != nil {
		return err
	}
	return s.recomputeDebits(day.Date)
}

func (s *RestdayService) GetByYearMonth(year, month int) ([]models.Restday, error) {
	return s.restdayRepo.GetByYearMonth(year, month)
}

// Import bulk-creates restdays from a parsed holiday calendar, then
// recomputes debits for each affected date.
func (s *RestdayService) Import(days []models.Restday) error {
	if err := s.restdayRepo.BulkCreate(days); err != nil {
		return err
	}
	for _, day := range days {
		if err := s.recomputeDebits(day.Date); err != nil {
			return err
		}
	}
	return nil
}

// recomputeDebits refreshes the debit (credit untouched) of every non-admin
// user holding a ledger row on the changed date; their balances cascade
// inside the repository.
func (s *RestdayService) recomputeDebits(date time.Time) error {
	rows, err := s.balanceRepo.GetByDate(date)
	if err != nil {
		return err
	}

	for _, row := range rows {
		user, err := s.userRepo.GetByID(row.UserID)
		if err != nil {
			return err
		}
		if user == nil || user.IsAdmin() {
			continue
		}

		debit, err := s.calc.Debit(user, date)
		if err != nil {
			return err
		}
		if _, err := s.balanceRepo.UpdateDebit(user.ID, date, int(debit.Seconds())); err != nil {
			return err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"date": date.Format("2006-01-02"),
		"rows": len(rows),
	}).Info("Debits recomputed after restday change")

	return nil
}
