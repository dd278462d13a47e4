package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hours-bank-bot/internal/api"
	"hours-bank-bot/internal/models"
	"hours-bank-bot/internal/repository"
	"hours-bank-bot/internal/service"
	"hours-bank-bot/internal/timecalc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testServer struct {
	router  http.Handler
	offices repository.OfficeRepository
	users   repository.UserRepository
	tickets repository.TicketRepository
	balance *service.BalanceService
	loc     *time.Location

	office *models.Office
	user   *models.User
}

func newTestServer(t *testing.T) *testServer {
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
	userService := service.NewUserService(users, offices)
	balanceService := service.NewBalanceService(balances, offices, restdays, absences, calc, loc)
	balanceService.SetClock(func() time.Time {
		return time.Date(2016, time.September, 15, 12, 0, 0, 0, loc)
	})

	start := time.Date(2016, time.September, 5, 0, 0, 0, 0, time.UTC)
	office := &models.Office{
		Name:                     "Audit Division",
		Initials:                 "AD",
		RegularWorkSeconds:       25200,
		CheckinToleranceSeconds:  600,
		CheckoutToleranceSeconds: 300,
		AbsenceDebitOnRestdays:   true,
		HoursControlStartDate:    &start,
	}
	require.NoError(t, offices.Create(office))

	user := &models.User{ChatID: 1001, FirstName: "Ana", OfficeID: office.ID}
	require.NoError(t, users.Create(user))

	return &testServer{
		router:  api.NewRouter(api.NewHandler(userService, balanceService)),
		offices: offices,
		users:   users,
		tickets: tickets,
		balance: balanceService,
		loc:     loc,
		office:  office,
		user:    user,
	}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetDailyBalance(t *testing.T) {
	s := newTestServer(t)

	url := fmt.Sprintf("/api/users/%d/balance?date=2016-09-06", s.user.ID)
	rec := s.do(t, http.MethodGet, url, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Date    string `json:"date"`
		Credit  int    `json:"credit"`
		Debit   int    `json:"debit"`
		Balance int    `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2016-09-06", body.Date)
	assert.Equal(t, 0, body.Credit)
	assert.Equal(t, 25200, body.Debit)
	assert.Equal(t, -25200, body.Balance)
}

func TestGetDailyBalance_BadInput(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/users/abc/balance", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d/balance?date=garbage", s.user.ID), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/users/99999/balance?date=2016-09-06", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMonthlyLedger(t *testing.T) {
	s := newTestServer(t)

	url := fmt.Sprintf("/api/users/%d/ledger/2016/9", s.user.ID)
	rec := s.do(t, http.MethodGet, url, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var lines []service.MonthlyLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lines))
	require.Len(t, lines, 10)
	assert.Equal(t, 25200, lines[0].Debit)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d/ledger/2016/13", s.user.ID), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMonthlyLedger_ControlNotStarted(t *testing.T) {
	s := newTestServer(t)

	s.office.HoursControlStartDate = nil
	require.NoError(t, s.offices.Update(s.office))

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d/ledger/2016/9", s.user.ID), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRecalculateOffice(t *testing.T) {
	s := newTestServer(t)

	url := fmt.Sprintf("/api/offices/%d/recalculate", s.office.ID)
	rec := s.do(t, http.MethodPost, url, `{"from":"2016-09-12"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	reloaded, err := s.offices.GetByID(s.office.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastBalanceDate)
	assert.True(t, models.SameDate(*reloaded.LastBalanceDate,
		time.Date(2016, time.September, 15, 0, 0, 0, 0, time.UTC)))

	rec = s.do(t, http.MethodPost, url, `{"from":"nonsense"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/offices/abc/recalculate", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
