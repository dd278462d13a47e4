package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"hours-bank-bot/internal/models"
	"hours-bank-bot/internal/service"
	"hours-bank-bot/internal/timecalc"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	userService    *service.UserService
	balanceService *service.BalanceService
	logger         *logrus.Logger
}

func NewHandler(userService *service.UserService, balanceService *service.BalanceService) *Handler {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Handler{
		userService:    userService,
		balanceService: balanceService,
		logger:         logger,
	}
}

type dailyBalanceResponse struct {
	Date    string `json:"date"`
	Credit  int    `json:"credit"`
	Debit   int    `json:"debit"`
	Balance int    `json:"balance"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetDailyBalance returns the ledger row for ?date=YYYY-MM-DD (default:
// today), creating it lazily.
func (h *Handler) GetDailyBalance(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	date := time.Now()
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{"invalid date"})
			return
		}
		date = parsed
	}

	row, err := h.balanceService.DailyBalance(user, date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dailyBalanceResponse{
		Date:    row.Date.Format("2006-01-02"),
		Credit:  row.Credit,
		Debit:   row.Debit,
		Balance: row.Balance,
	})
}

func (h *Handler) GetMonthlyLedger(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	year, err1 := strconv.Atoi(chi.URLParam(r, "year"))
	month, err2 := strconv.Atoi(chi.URLParam(r, "month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid year/month"})
		return
	}

	lines, err := h.balanceService.MonthlyLedger(user, year, month)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lines)
}

type recalculateRequest struct {
	From string `json:"from"`
}

func (h *Handler) RecalculateOffice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid office id"})
		return
	}

	var req recalculateRequest
	if r.Body != nil {
		// An empty body means "from the control start date".
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	var from time.Time
	if req.From != "" {
		from, err = time.Parse("2006-01-02", req.From)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{"invalid from date"})
			return
		}
	}

	if err := h.balanceService.RecalculateOffice(uint(id), from); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recalculated"})
}

func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid user id"})
		return nil, false
	}

	u, err := h.userService.GetByID(uint(id))
	if err != nil {
		h.writeServiceError(w, err)
		return nil, false
	}
	if u == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{"user not found"})
		return nil, false
	}
	return u, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, timecalc.ErrNoOffice), errors.Is(err, service.ErrControlNotStarted):
		writeJSON(w, http.StatusConflict, errorResponse{err.Error()})
	default:
		h.logger.WithError(err).Error("Internal error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
