package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hours-bank-bot/internal/models"
	"hours-bank-bot/pkg/holidays"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// /restday YYYY-MM-DD <minutes> <note>
func (h *Handler) addRestday(message *tgbotapi.Message, args string) {
	if h.requireAdmin(message) == nil {
		return
	}

	parts := strings.SplitN(strings.TrimSpace(args), " ", 3)
	if len(parts) < 3 {
		h.reply(message.Chat.ID, "Usage: /restday YYYY-MM-DD <work minutes> <note>")
		return
	}

	date, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		h.reply(message.Chat.ID, "❌ Invalid date: "+parts[0])
		return
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 {
		h.reply(message.Chat.ID, "❌ Invalid work minutes: "+parts[1])
		return
	}

	day := &models.Restday{Date: date, Note: parts[2], WorkSeconds: minutes * 60}
	if err := h.restdayService.Create(day); err != nil {
		h.reply(message.Chat.ID, "❌ Failed to create restday: "+err.Error())
		return
	}

	h.reply(message.Chat.ID, fmt.Sprintf("✅ Restday %s (%s) created.", parts[0], parts[2]))
}

// /delrestday YYYY-MM-DD
func (h *Handler) deleteRestday(message *tgbotapi.Message, args string) {
	if h.requireAdmin(message) == nil {
		return
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(args))
	if err != nil {
		h.reply(message.Chat.ID, "Usage: /delrestday YYYY-MM-DD")
		return
	}

	days, err := h.restdayService.GetByYearMonth(date.Year(), int(date.Month()))
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}
	for _, d := range days {
		if models.SameDate(d.Date, date) {
			if err := h.restdayService.Delete(d.ID); err != nil {
				h.reply(message.Chat.ID, "❌ Failed to delete restday: "+err.Error())
				return
			}
			h.reply(message.Chat.ID, "✅ Restday deleted.")
			return
		}
	}
	h.reply(message.Chat.ID, "❌ No restday on that date.")
}

// /absence <user_id> YYYY-MM-DD <cause> <credit seconds> <debit seconds>
func (h *Handler) addAbsence(message *tgbotapi.Message, args string) {
	if h.requireAdmin(message) == nil {
		return
	}

	parts := strings.Fields(args)
	if len(parts) != 5 {
		h.reply(message.Chat.ID, "Usage: /absence <user_id> YYYY-MM-DD <cause> <credit_s> <debit_s>")
		return
	}

	userID, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		h.reply(message.Chat.ID, "❌ Invalid user id: "+parts[0])
		return
	}
	date, err := time.Parse("2006-01-02", parts[1])
	if err != nil {
		h.reply(message.Chat.ID, "❌ Invalid date: "+parts[1])
		return
	}
	if !models.ValidCause(parts[2]) {
		h.reply(message.Chat.ID, "❌ Unknown cause code: "+parts[2])
		return
	}
	credit, err := strconv.Atoi(parts[3])
	if err != nil {
		h.reply(message.Chat.ID, "❌ Invalid credit: "+parts[3])
		return
	}
	debit, err := strconv.Atoi(parts[4])
	if err != nil {
		h.reply(message.Chat.ID, "❌ Invalid debit: "+parts[4])
		return
	}

	absence := &models.Absence{
		UserID:        uint(userID),
		Date:          date,
		Cause:         parts[2],
		CreditSeconds: credit,
		DebitSeconds:  debit,
	}
	if err := h.absenceService.Create(absence); err != nil {
		h.reply(message.Chat.ID, "❌ Failed to create absence: "+err.Error())
		return
	}

	h.reply(message.Chat.ID, fmt.Sprintf("✅ Absence %s on %s recorded.", absence.CauseDisplay(), parts[1]))
}

// /recalc <office_id> [YYYY-MM-DD]
func (h *Handler) recalcOffice(message *tgbotapi.Message, args string) {
	if h.requireAdmin(message) == nil {
		return
	}

	parts := strings.Fields(args)
	if len(parts) < 1 {
		h.reply(message.Chat.ID, "Usage: /recalc <office_id> [YYYY-MM-DD]")
		return
	}

	officeID, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		h.reply(message.Chat.ID, "❌ Invalid office id: "+parts[0])
		return
	}

	var from time.Time
	if len(parts) > 1 {
		from, err = time.Parse("2006-01-02", parts[1])
		if err != nil {
			h.reply(message.Chat.ID, "❌ Invalid date: "+parts[1])
			return
		}
	}

	if err := h.balanceService.RecalculateOffice(uint(officeID), from); err != nil {
		h.reply(message.Chat.ID, "❌ Recalculation failed: "+err.Error())
		return
	}
	h.reply(message.Chat.ID, "✅ Office balances recalculated.")
}

// /fill <office_id>
func (h *Handler) fillOffice(message *tgbotapi.Message, args string) {
	if h.requireAdmin(message) == nil {
		return
	}

	officeID, err := strconv.ParseUint(strings.TrimSpace(args), 10, 32)
	if err != nil {
		h.reply(message.Chat.ID, "Usage: /fill <office_id>")
		return
	}

	if err := h.balanceService.FillMissing(uint(officeID)); err != nil {
		h.reply(message.Chat.ID, "❌ Fill failed: "+err.Error())
		return
	}
	h.reply(message.Chat.ID, "✅ Missing ledger rows filled.")
}

// /importholidays <file>
func (h *Handler) importHolidays(message *tgbotapi.Message, args string) {
	if h.requireAdmin(message) == nil {
		return
	}

	path := strings.TrimSpace(args)
	if path == "" {
		path = h.config.HolidaysFile
	}
	if path == "" {
		h.reply(message.Chat.ID, "Usage: /importholidays <file>")
		return
	}

	parsed, err := holidays.ParseCalendarJSON(path)
	if err != nil {
		h.reply(message.Chat.ID, "❌ Failed to parse calendar: "+err.Error())
		return
	}

	days := make([]models.Restday, 0, len(parsed))
	for _, hd := range parsed {
		days = append(days, models.Restday{
			Date:        hd.Date,
			Note:        hd.Note,
			WorkSeconds: hd.WorkSeconds,
		})
	}
	if err := h.restdayService.Import(days); err != nil {
		h.reply(message.Chat.ID, "❌ Import failed: "+err.Error())
		return
	}

	h.reply(message.Chat.ID, fmt.Sprintf("✅ Imported %d restdays.", len(days)))
}

func (h *Handler) listOffices(message *tgbotapi.Message) {
	if h.requireAdmin(message) == nil {
		return
	}

	offices, err := h.officeService.GetAll()
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}

	var sb strings.Builder
	sb.WriteString("🏢 Offices:\n\n")
	for _, o := range offices {
		start := "not started"
		if o.HoursControlStartDate != nil {
			start = o.HoursControlStartDate.Format("02.01.2006")
		}
		fmt.Fprintf(&sb, "%d — %s (%s), control since %s\n", o.ID, o.Name, o.Initials, start)
	}
	h.reply(message.Chat.ID, sb.String())
}

// /startcontrol <office_id> YYYY-MM-DD
func (h *Handler) startControl(message *tgbotapi.Message, args string) {
	if h.requireAdmin(message) == nil {
		return
	}

	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.reply(message.Chat.ID, "Usage: /startcontrol <office_id> YYYY-MM-DD")
		return
	}

	officeID, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		h.reply(message.Chat.ID, "❌ Invalid office id: "+parts[0])
		return
	}
	date, err := time.Parse("2006-01-02", parts[1])
	if err != nil {
		h.reply(message.Chat.ID, "❌ Invalid date: "+parts[1])
		return
	}

	if err := h.officeService.StartControl(uint(officeID), date); err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}
	h.reply(message.Chat.ID, "✅ Hours control started.")
}

// /assignoffice <user_id> <office_id>
func (h *Handler) assignOffice(message *tgbotapi.Message, args string) {
	if h.requireAdmin(message) == nil {
		return
	}

	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.reply(message.Chat.ID, "Usage: /assignoffice <user_id> <office_id>")
		return
	}

	userID, err1 := strconv.ParseUint(parts[0], 10, 32)
	officeID, err2 := strconv.ParseUint(parts[1], 10, 32)
	if err1 != nil || err2 != nil {
		h.reply(message.Chat.ID, "❌ Invalid ids.")
		return
	}

	if err := h.userService.AssignOffice(uint(userID), uint(officeID)); err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}
	h.reply(message.Chat.ID, "✅ Office assigned.")
}

// /setopening <user_id> <seconds>
func (h *Handler) setOpeningBalance(message *tgbotapi.Message, args string) {
	if h.requireAdmin(message) == nil {
		return
	}

	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.reply(message.Chat.ID, "Usage: /setopening <user_id> <seconds>")
		return
	}

	userID, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		h.reply(message.Chat.ID, "❌ Invalid user id: "+parts[0])
		return
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		h.reply(message.Chat.ID, "❌ Invalid seconds: "+parts[1])
		return
	}

	if err := h.userService.SetOpeningBalance(uint(userID), seconds); err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}
	h.reply(message.Chat.ID, "✅ Opening balance set.")
}
