package handler

import (
	"fmt"
	"strings"
	"time"

	"hours-bank-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) month(message *tgbotapi.Message, args string) {
	user := h.requireUser(message)
	if user == nil {
		return
	}

	now := time.Now().In(h.config.Location)
	year, month := now.Year(), int(now.Month())

	args = strings.TrimSpace(args)
	if args != "" {
		parsed, err := time.Parse("2006-01", args)
		if err != nil {
			h.reply(message.Chat.ID, "Usage: /month [YYYY-MM]")
			return
		}
		year, month = parsed.Year(), int(parsed.Month())
	}

	lines, err := h.balanceService.MonthlyLedger(user, year, month)
	if err != nil {
		h.reply(message.Chat.ID, "❌ Failed to build monthly ledger: "+err.Error())
		return
	}
	if len(lines) == 0 {
		h.reply(message.Chat.ID, "📭 No ledger rows for this month.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📒 Ledger %04d-%02d:\n\n", year, month)
	for _, line := range lines {
		fmt.Fprintf(&sb, "%s  +%s  -%s  = %s",
			line.Date.Format("02.01"),
			models.FormatSeconds(line.Credit),
			models.FormatSeconds(line.Debit),
			models.FormatSeconds(line.Balance))
		if line.Comment != "" {
			fmt.Fprintf(&sb, "  (%s)", strings.TrimSpace(line.Comment))
		}
		sb.WriteString("\n")
	}

	h.reply(message.Chat.ID, sb.String())
}

func (h *Handler) myAbsences(message *tgbotapi.Message) {
	user := h.requireUser(message)
	if user == nil {
		return
	}

	absences, err := h.absenceService.GetByUserID(user.ID)
	if err != nil {
		h.reply(message.Chat.ID, "❌ Failed to list absences: "+err.Error())
		return
	}
	if len(absences) == 0 {
		h.reply(message.Chat.ID, "📭 No absence records.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🗓 Your absences:\n\n")
	for _, a := range absences {
		fmt.Fprintf(&sb, "%s — %s (credit %s, debit %s)\n",
			a.Date.Format("02.01.2006"),
			a.CauseDisplay(),
			models.FormatSeconds(a.CreditSeconds),
			models.FormatSeconds(a.DebitSeconds))
	}

	h.reply(message.Chat.ID, sb.String())
}
