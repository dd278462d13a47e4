package service

import (
	"errors"
	"fmt"
	"time"

	"hours-bank-bot/internal/models"
	"hours-bank-bot/internal/repository"
	"hours-bank-bot/internal/timecalc"

	"github.com/sirupsen/logrus"
)

// ErrControlNotStarted is returned when an office has no hours-control start
// date yet: there is nothing to compute balances against.
var ErrControlNotStarted = errors.New("hours control not started for office")

// MonthlyLine is one row of the monthly ledger view.
type MonthlyLine struct {
	Date    time.Time `json:"date"`
	Credit  int       `json:"credit"`
	Debit   int       `json:"debit"`
	Balance int       `json:"balance"`
	Comment string    `json:"comment"`
}

type BalanceService struct {
	balanceRepo repository.HoursBalanceRepository
	officeRepo  repository.OfficeRepository
	restdayRepo repository.RestdayRepository
	absenceRepo repository.AbsenceRepository
	calc        *timecalc.Calculator
	loc         *time.Location
	logger      *logrus.Logger

	// Injectable clock for tests.
	now func() time.Time
}

func NewBalanceService(
	balanceRepo repository.HoursBalanceRepository,
	officeRepo repository.OfficeRepository,
	restdayRepo repository.RestdayRepository,
	absenceRepo repository.AbsenceRepository,
	calc *timecalc.Calculator,
	loc *time.Location,
) *BalanceService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &BalanceService{
		balanceRepo: balanceRepo,
		officeRepo:  officeRepo,
		restdayRepo: restdayRepo,
		absenceRepo: absenceRepo,
		calc:        calc,
		loc:         loc,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock overrides the service clock. Test hook.
func (s *BalanceService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *BalanceService) today() time.Time {
	return models.LocalDateOf(s.now(), s.loc)
}

// DailyBalance returns the ledger row for (user, date), computing and
// persisting it when absent.
func (s *BalanceService) DailyBalance(user *models.User, date time.Time) (*models.HoursBalance, error) {
	day := models.DateOf(date)

	row, err := s.balanceRepo.Get(user.ID, day)
	if err != nil {
		return nil, err
	}
	if row != nil {
		return row, nil
	}

	credit, debit, err := s.calc.DayTotals(user, day)
	if err != nil {
		return nil, err
	}
	return s.balanceRepo.Upsert(user.ID, day, int(credit.Seconds()), int(debit.Seconds()))
}

// Latest returns the user's most recent ledger row, nil when none exists.
func (s *BalanceService) Latest(user *models.User) (*models.HoursBalance, error) {
	return s.balanceRepo.Latest(user.ID)
}

// MonthlyLedger returns one line per day of the month, clipped to
// [max(first of month, control start), min(end of month, today)), creating
// missing rows lazily.
func (s *BalanceService) MonthlyLedger(user *models.User, year, month int) ([]MonthlyLine, error) {
	if user.Office.ID == 0 {
		return nil, fmt.Errorf("user %d: %w", user.ID, timecalc.ErrNoOffice)
	}
	if user.Office.HoursControlStartDate == nil {
		return nil, ErrControlNotStarted
	}

	firstOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endOfMonth := firstOfMonth.AddDate(0, 1, 0)

	first := firstOfMonth
	if start := models.DateOf(*user.Office.HoursControlStartDate); start.After(first) {
		first = start
	}
	last := endOfMonth
	if today := s.today(); today.Before(last) {
		last = today
	}

	var lines []MonthlyLine
	for d := first; d.Before(last); d = d.AddDate(0, 0, 1) {
		row, err := s.DailyBalance(user, d)
		if err != nil {
			return nil, err
		}

		comment, err := s.comment(user, d)
		if err != nil {
			return nil, err
		}

		lines = append(lines, MonthlyLine{
			Date:    d,
			Credit:  row.Credit,
			Debit:   row.Debit,
			Balance: row.Balance,
			Comment: comment,
		})
	}

	return lines, nil
}

func (s *BalanceService) comment(user *models.User, date time.Time) (string, error) {
	msg := ""

	if models.IsWeekend(date) {
		msg += "Weekend. "
	}

	restday, err := s.restdayRepo.GetByDate(date)
	if err != nil {
		return "", err
	}
	if restday != nil {
		msg += restday.Note + ". "
	}

	absence, err := s.absenceRepo.GetByUserAndDate(user.ID, date)
	if err != nil {
		return "", err
	}
	if absence != nil {
		msg += absence.CauseDisplay() + ". "
	}

	if user.Office.IsOpeningBalanceDay(date) {
		msg += "Hours account opening. "
	}

	return msg, nil
}

// RecalculateOffice recomputes credit and debit for every user of the office
// for every date in [from, today), creating missing rows and overwriting
// existing ones, then advances the office watermark. A zero from falls back
// to the office control start date.
func (s *BalanceService) RecalculateOffice(officeID uint, from time.Time) error {
	office, err := s.officeRepo.GetByID(officeID)
	if err != nil {
		return err
	}
	if office == nil {
		return errors.New("office not found")
	}
	if office.HoursControlStartDate == nil {
		return ErrControlNotStarted
	}

	start := models.DateOf(from)
	if from.IsZero() {
		start = models.DateOf(*office.HoursControlStartDate)
	}
	today := s.today()

	users, err := s.officeRepo.GetUsers(officeID)
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"office_id": officeID,
		"from":      start.Format("2006-01-02"),
		"to":        today.Format("2006-01-02"),
		"users":     len(users),
	}).Info("Recalculating office balances")

	for d := start; d.Before(today); d = d.AddDate(0, 0, 1) {
		for _, user := range users {
			user.Office = *office
			credit, debit, err := s.calc.DayTotals(user, d)
			if err != nil {
				return err
			}
			if _, err := s.balanceRepo.Upsert(user.ID, d, int(credit.Seconds()), int(debit.Seconds())); err != nil {
				return err
			}
		}
	}

	return s.officeRepo.SetLastBalanceDate(officeID, today)
}

// FillMissing extends each office user's ledger from its last row through
// yesterday, without touching existing rows.
func (s *BalanceService) FillMissing(officeID uint) error {
	office, err := s.officeRepo.GetByID(officeID)
	if err != nil {
		return err
	}
	if office == nil {
		return errors.New("office not found")
	}
	if office.HoursControlStartDate == nil {
		return ErrControlNotStarted
	}

	users, err := s.officeRepo.GetUsers(officeID)
	if err != nil {
		return err
	}
	today := s.today()

	for _, user := range users {
		user.Office = *office

		next := models.DateOf(*office.HoursControlStartDate)
		if latest, err := s.balanceRepo.Latest(user.ID); err != nil {
			return err
		} else if latest != nil {
			next = latest.Date.AddDate(0, 0, 1)
		}

		for d := next; d.Before(today); d = d.AddDate(0, 0, 1) {
			if _, err := s.DailyBalance(user, d); err != nil {
				return err
			}
		}
	}

	return s.officeRepo.SetLastBalanceDate(officeID, today)
}
