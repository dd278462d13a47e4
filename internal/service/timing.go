package service

import (
	"errors"
	"time"

	"hours-bank-bot/internal/models"
	"hours-bank-bot/internal/repository"
	"hours-bank-bot/internal/timecalc"

	"github.com/sirupsen/logrus"
)

// ErrNoCheckinToday is the recoverable outcome of a checkout with no same-day
// check-in. No ticket is persisted; the at-work flag is still forced to OUT.
var ErrNoCheckinToday = errors.New("no check-in recorded for this date")

type TimingService struct {
	ticketRepo  repository.TicketRepository
	userRepo    repository.UserRepository
	balanceRepo repository.HoursBalanceRepository
	calc        *timecalc.Calculator
	loc         *time.Location
	logger      *logrus.Logger
}

func NewTimingService(
	ticketRepo repository.TicketRepository,
	userRepo repository.UserRepository,
	balanceRepo repository.HoursBalanceRepository,
	calc *timecalc.Calculator,
	loc *time.Location,
) *TimingService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &TimingService{
		ticketRepo:  ticketRepo,
		userRepo:    userRepo,
		balanceRepo: balanceRepo,
		calc:        calc,
		loc:         loc,
		logger:      logger,
	}
}

// CheckIn records a check-in ticket and moves the user to IN. Always allowed.
func (s *TimingService) CheckIn(user *models.User, createdByID *uint, clientIP string) (*models.Ticket, error) {
	s.logger.WithField("user_id", user.ID).Info("User checking in")

	ticket := &models.Ticket{
		UserID:      user.ID,
		DateTime:    time.Now(),
		Checkin:     true,
		CreatedByID: createdByID,
		ClientIP:    clientIP,
	}
	if err := s.ticketRepo.Create(ticket); err != nil {
		return nil, err
	}

	if err := s.userRepo.SetAtWork(user.ID, true); err != nil {
		return nil, err
	}
	user.AtWork = true

	return ticket, nil
}

// CheckOut records a check-out ticket and moves the user to OUT. The checkout
// is rejected when no check-in exists for the same local date; in that case
// the at-work flag is still cleared and no ticket is persisted.
func (s *TimingService) CheckOut(user *models.User, createdByID *uint, clientIP string) (*models.Ticket, error) {
	s.logger.WithField("user_id", user.ID).Info("User checking out")

	now := time.Now()
	dayStart, dayEnd := s.localDayBounds(now)

	hasCheckin, err := s.ticketRepo.HasCheckinBetween(user.ID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetAtWork(user.ID, false); err != nil {
		return nil, err
	}
	user.AtWork = false

	if !hasCheckin {
		s.logger.WithField("user_id", user.ID).Warn("Checkout without same-day check-in rejected")
		return nil, ErrNoCheckinToday
	}

	ticket := &models.Ticket{
		UserID:      user.ID,
		DateTime:    now,
		Checkin:     false,
		CreatedByID: createdByID,
		ClientIP:    clientIP,
	}
	if err := s.ticketRepo.Create(ticket); err != nil {
		return nil, err
	}

	if err := s.recomputeDate(user, now); err != nil {
		return nil, err
	}

	return ticket, nil
}

// RegisterTicket records a ticket at an arbitrary timestamp (manual entry by
// an editor). A checkout, or a check-in that completes a pair with a later
// same-day checkout, triggers recomputation of that date.
func (s *TimingService) RegisterTicket(user *models.User, dateTime time.Time, checkin bool, createdByID *uint) (*models.Ticket, error) {
	ticket := &models.Ticket{
		UserID:      user.ID,
		DateTime:    dateTime,
		Checkin:     checkin,
		CreatedByID: createdByID,
	}
	if err := s.ticketRepo.Create(ticket); err != nil {
		return nil, err
	}

	trigger := !checkin
	if checkin {
		_, dayEnd := s.localDayBounds(dateTime)
		hasLaterCheckout, err := s.ticketRepo.HasCheckoutBetween(user.ID, dateTime, dayEnd)
		if err != nil {
			return nil, err
		}
		trigger = hasLaterCheckout
	}

	if trigger {
		if err := s.recomputeDate(user, dateTime); err != nil {
			return nil, err
		}
	}

	return ticket, nil
}

// EditTicketTime corrects a ticket's timestamp and retriggers recomputation
// for both the old and the new local date.
func (s *TimingService) EditTicketTime(ticketID uint, newTime time.Time) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, errors.New("ticket not found")
	}

	user, err := s.userRepo.GetByID(ticket.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("ticket user not found")
	}

	oldDate := ticket.LocalDate(s.loc)
	if err := s.ticketRepo.UpdateDateTime(ticketID, newTime); err != nil {
		return nil, err
	}
	ticket.DateTime = newTime

	if err := s.recomputeDate(user, oldDate); err != nil {
		return nil, err
	}
	newDate := ticket.LocalDate(s.loc)
	if !models.SameDate(oldDate, newDate) {
		if err := s.recomputeDate(user, newDate); err != nil {
			return nil, err
		}
	}

	return ticket, nil
}

// ForgottenCheckouts lists open check-ins from before today: sessions whose
// owner never checked out.
func (s *TimingService) ForgottenCheckouts() ([]*models.Ticket, error) {
	dayStart, _ := s.localDayBounds(time.Now())
	return s.ticketRepo.OpenCheckins(dayStart)
}

func (s *TimingService) TicketHistory(userID uint, limit int) ([]*models.Ticket, error) {
	return s.ticketRepo.GetByUserID(userID, limit)
}

func (s *TimingService) recomputeDate(user *models.User, at time.Time) error {
	date := models.LocalDateOf(at, s.loc)

	credit, debit, err := s.calc.DayTotals(user, date)
	if err != nil {
		return err
	}

	_, err = s.balanceRepo.Upsert(user.ID, date, int(credit.Seconds()), int(debit.Seconds()))
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": user.ID,
			"date":    date.Format("2006-01-02"),
		}).Error("Failed to upsert recomputed balance")
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"date":    date.Format("2006-01-02"),
		"credit":  int(credit.Seconds()),
		"debit":   int(debit.Seconds()),
	}).Info("Balance recomputed after ticket change")

	return nil
}

// localDayBounds returns the absolute instants delimiting the local calendar
// day containing at.
func (s *TimingService) localDayBounds(at time.Time) (time.Time, time.Time) {
	local := at.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}
