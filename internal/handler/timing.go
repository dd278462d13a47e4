package handler

import (
	"errors"
	"fmt"
	"time"

	"hours-bank-bot/internal/models"
	"hours-bank-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) checkIn(message *tgbotapi.Message) {
	user := h.requireUser(message)
	if user == nil {
		return
	}

	if user.AtWork {
		h.reply(message.Chat.ID, "You are already checked in. Use /out to check out.")
		return
	}

	ticket, err := h.timingService.CheckIn(user, nil, "")
	if err != nil {
		h.reply(message.Chat.ID, "❌ Check-in failed: "+err.Error())
		return
	}

	local := ticket.DateTime.In(h.config.Location)
	h.reply(message.Chat.ID, fmt.Sprintf("✅ Checked in at %s.", local.Format("15:04")))
}

func (h *Handler) checkOut(message *tgbotapi.Message) {
	user := h.requireUser(message)
	if user == nil {
		return
	}

	ticket, err := h.timingService.CheckOut(user, nil, "")
	if errors.Is(err, service.ErrNoCheckinToday) {
		h.reply(message.Chat.ID, "⚠️ No check-in found for today. Checkout not recorded; you are marked as out.")
		return
	}
	if err != nil {
		h.reply(message.Chat.ID, "❌ Check-out failed: "+err.Error())
		return
	}

	local := ticket.DateTime.In(h.config.Location)
	h.reply(message.Chat.ID, fmt.Sprintf("✅ Checked out at %s.", local.Format("15:04")))
}

func (h *Handler) status(message *tgbotapi.Message) {
	user := h.requireUser(message)
	if user == nil {
		return
	}

	if user.AtWork {
		h.reply(message.Chat.ID, "🟢 You are at work.")
	} else {
		h.reply(message.Chat.ID, "⚪ You are not at work.")
	}
}

func (h *Handler) today(message *tgbotapi.Message) {
	user := h.requireUser(message)
	if user == nil {
		return
	}

	now := time.Now().In(h.config.Location)
	row, err := h.balanceService.DailyBalance(user, now)
	if err != nil {
		h.reply(message.Chat.ID, "❌ Failed to compute today's balance: "+err.Error())
		return
	}

	h.reply(message.Chat.ID, fmt.Sprintf(
		"📅 %s\n➕ Credit: %s\n➖ Debit: %s\n💼 Balance: %s",
		now.Format("02.01.2006"),
		models.FormatSeconds(row.Credit),
		models.FormatSeconds(row.Debit),
		models.FormatSeconds(row.Balance),
	))
}

func (h *Handler) balance(message *tgbotapi.Message) {
	user := h.requireUser(message)
	if user == nil {
		return
	}

	row, err := h.balanceService.Latest(user)
	if err != nil {
		h.reply(message.Chat.ID, "❌ Failed to read balance: "+err.Error())
		return
	}
	if row == nil {
		h.reply(message.Chat.ID, "📭 No balance recorded yet.")
		return
	}

	h.reply(message.Chat.ID, fmt.Sprintf(
		"💼 Balance on %s: %s",
		row.Date.Format("02.01.2006"),
		models.FormatSeconds(row.Balance),
	))
}

func (h *Handler) forgotten(message *tgbotapi.Message) {
	if h.requireAdmin(message) == nil {
		return
	}

	tickets, err := h.timingService.ForgottenCheckouts()
	if err != nil {
		h.reply(message.Chat.ID, "❌ Failed to list forgotten checkouts: "+err.Error())
		return
	}
	if len(tickets) == 0 {
		h.reply(message.Chat.ID, "✅ No forgotten checkouts.")
		return
	}

	text := "⚠️ Open check-ins:\n"
	for _, t := range tickets {
		local := t.DateTime.In(h.config.Location)
		text += fmt.Sprintf("user %d — %s\n", t.UserID, local.Format("02.01.2006 15:04"))
	}
	h.reply(message.Chat.ID, text)
}
