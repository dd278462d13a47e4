package service_test

import (
	"fmt"
	"testing"
	"time"

	"hours-bank-bot/internal/models"
	"hours-bank-bot/internal/repository"
	"hours-bank-bot/internal/service"
	"hours-bank-bot/internal/timecalc"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// env wires the full repository and service stack over one in-memory database.
type env struct {
	offices  repository.OfficeRepository
	users    repository.UserRepository
	tickets  repository.TicketRepository
	restdays repository.RestdayRepository
	absences repository.AbsenceRepository
	balances repository.HoursBalanceRepository
	calc     *timecalc.Calculator
	loc      *time.Location

	timing  *service.TimingService
	balance *service.BalanceService
	restday *service.RestdayService
	absence *service.AbsenceService
	user    *service.UserService
	office  *service.OfficeService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	offices, err := repository.NewGormOfficeRepository(db)
	require.NoError(t, err)
	users, err := repository.NewGormUserRepository(db)
	require.NoError(t, err)
	tickets, err := repository.NewGormTicketRepository(db)
	require.NoError(t, err)
	restdays, err := repository.NewGormRestdayRepository(db)
	require.NoError(t, err)
	absences, err := repository.NewGormAbsenceRepository(db)
	require.NoError(t, err)
	balances, err := repository.NewGormHoursBalanceRepository(db)
	require.NoError(t, err)

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	calc := timecalc.NewCalculator(tickets, restdays, absences, loc)

	return &env{
		offices:  offices,
		users:    users,
		tickets:  tickets,
		restdays: restdays,
		absences: absences,
		balances: balances,
		calc:     calc,
		loc:      loc,

		timing:  service.NewTimingService(tickets, users, balances, calc, loc),
		balance: service.NewBalanceService(balances, offices, restdays, absences, calc, loc),
		restday: service.NewRestdayService(restdays, balances, users, calc),
		absence: service.NewAbsenceService(absences, balances, users, calc),
		user:    service.NewUserService(users, offices),
		office:  service.NewOfficeService(offices),
	}
}

func (e *env) createOffice(t *testing.T, initials string, start *time.Time) *models.Office {
	t.Helper()
	office := &models.Office{
		Name:                     "Office " + initials,
		Initials:                 initials,
		RegularWorkSeconds:       25200,
		CheckinToleranceSeconds:  600,
		CheckoutToleranceSeconds: 300,
		AbsenceDebitOnRestdays:   true,
		HoursControlStartDate:    start,
	}
	require.NoError(t, e.offices.Create(office))
	return office
}

// createUser persists a worker and reloads it so the office association is
// populated the way the handlers see it.
func (e *env) createUser(t *testing.T, chatID int64, officeID uint) *models.User {
	t.Helper()
	u := &models.User{
		ChatID:    chatID,
		FirstName: fmt.Sprintf("Worker %d", chatID),
		Role:      models.RoleWorker,
		OfficeID:  officeID,
	}
	require.NoError(t, e.users.Create(u))

	loaded, err := e.users.GetByID(u.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	return loaded
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
