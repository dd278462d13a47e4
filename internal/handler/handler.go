package handler

import (
	"hours-bank-bot/internal/config"
	"hours-bank-bot/internal/models"
	"hours-bank-bot/internal/service"
	"hours-bank-bot/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	client         *telegram.Client
	userService    *service.UserService
	officeService  *service.OfficeService
	timingService  *service.TimingService
	balanceService *service.BalanceService
	restdayService *service.RestdayService
	absenceService *service.AbsenceService
	config         *config.BotConfig
}

func NewHandler(
	client *telegram.Client,
	userService *service.UserService,
	officeService *service.OfficeService,
	timingService *service.TimingService,
	balanceService *service.BalanceService,
	restdayService *service.RestdayService,
	absenceService *service.AbsenceService,
	cfg *config.BotConfig,
) *Handler {
	return &Handler{
		client:         client,
		userService:    userService,
		officeService:  officeService,
		timingService:  timingService,
		balanceService: balanceService,
		restdayService: restdayService,
		absenceService: absenceService,
		config:         cfg,
	}
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil {
			continue
		}
		h.handleMessage(update.Message)
	}
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	logrus.Infof("[%s] %s", message.From.UserName, message.Text)

	if message.IsCommand() {
		h.handleCommand(message)
		return
	}

	h.reply(message.Chat.ID, "Use /help for the list of commands.")
}

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start":
		h.start(message)
	case "help":
		h.sendHelp(message)

	// Attendance (all users)
	case "in", "checkin":
		h.checkIn(message)
	case "out", "checkout":
		h.checkOut(message)
	case "status":
		h.status(message)
	case "today":
		h.today(message)
	case "month":
		h.month(message, args)
	case "balance":
		h.balance(message)
	case "myabsences":
		h.myAbsences(message)

	// Admin commands
	case "restday":
		h.addRestday(message, args)
	case "delrestday":
		h.deleteRestday(message, args)
	case "absence":
		h.addAbsence(message, args)
	case "recalc":
		h.recalcOffice(message, args)
	case "fill":
		h.fillOffice(message, args)
	case "importholidays":
		h.importHolidays(message, args)
	case "forgotten":
		h.forgotten(message)
	case "offices":
		h.listOffices(message)
	case "startcontrol":
		h.startControl(message, args)
	case "assignoffice":
		h.assignOffice(message, args)
	case "setopening":
		h.setOpeningBalance(message, args)

	default:
		h.reply(message.Chat.ID, "❌ Unknown command. Use /help for the list of commands.")
	}
}

func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.client.Bot.Send(msg); err != nil {
		logrus.WithError(err).Error("Failed to send message")
	}
}

// requireUser resolves the sender, prompting registration when unknown.
func (h *Handler) requireUser(message *tgbotapi.Message) *models.User {
	user, err := h.userService.GetByChatID(message.Chat.ID)
	if err != nil {
		h.reply(message.Chat.ID, "❌ Internal error: "+err.Error())
		return nil
	}
	if user == nil {
		h.reply(message.Chat.ID, "You are not registered yet. Use /start first.")
		return nil
	}
	return user
}

// requireAdmin resolves the sender and refuses non-admins.
func (h *Handler) requireAdmin(message *tgbotapi.Message) *models.User {
	user := h.requireUser(message)
	if user == nil {
		return nil
	}
	if !user.IsAdmin() {
		h.reply(message.Chat.ID, "❌ Admins only.")
		return nil
	}
	return user
}

func (h *Handler) start(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	existing, err := h.userService.GetByChatID(chatID)
	if err != nil {
		h.reply(chatID, "❌ Internal error: "+err.Error())
		return
	}
	if existing != nil {
		h.reply(chatID, "Welcome back, "+existing.FirstName+"! Use /in to check in.")
		return
	}

	user, err := h.userService.Register(chatID, message.From.UserName, message.From.FirstName, message.From.LastName)
	if err != nil {
		h.reply(chatID, "❌ Registration failed: "+err.Error())
		return
	}

	if h.config.BaseAdminChatID == chatID {
		if err := h.userService.InitializeAdmin(chatID); err != nil {
			logrus.WithError(err).Error("Failed to promote configured admin")
		}
	}

	h.reply(chatID, "✅ Registered, "+user.FirstName+". Use /in to check in and /out to check out.")
}

func (h *Handler) sendHelp(message *tgbotapi.Message) {
	help := `⏱ Hours bank commands:

/in — check in
/out — check out
/status — at work or not
/today — today's credit, debit and balance
/month [YYYY-MM] — monthly ledger
/balance — current accumulated balance
/myabsences — your absence records

Admin:
/restday YYYY-MM-DD <minutes> <note>
/delrestday YYYY-MM-DD
/absence <user_id> YYYY-MM-DD <cause> <credit_s> <debit_s>
/recalc <office_id> [YYYY-MM-DD]
/fill <office_id>
/importholidays <file>
/forgotten — open check-ins from previous days
/offices
/startcontrol <office_id> YYYY-MM-DD
/assignoffice <user_id> <office_id>
/setopening <user_id> <seconds>`

	h.reply(message.Chat.ID, help)
}
