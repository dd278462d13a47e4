package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hours-bank-bot/internal/api"
	"hours-bank-bot/internal/config"
	"hours-bank-bot/internal/handler"
	"hours-bank-bot/internal/repository"
	"hours-bank-bot/internal/service"
	"hours-bank-bot/internal/timecalc"
	"hours-bank-bot/pkg/telegram"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetBotConfig()
	logrus.Info("Config initialized...")

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite limitation
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	// SQLite needs foreign keys enabled per connection.
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logrus.Infof("Warning: Failed to enable foreign keys: %v", err)
	}

	officeRepo, err := repository.NewGormOfficeRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create office repository")
	}

	userRepo, err := repository.NewGormUserRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create user repository")
	}

	ticketRepo, err := repository.NewGormTicketRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create ticket repository")
	}

	restdayRepo, err := repository.NewGormRestdayRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create restday repository")
	}

	absenceRepo, err := repository.NewGormAbsenceRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create absence repository")
	}

	balanceRepo, err := repository.NewGormHoursBalanceRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create hours balance repository")
	}

	calc := timecalc.NewCalculator(ticketRepo, restdayRepo, absenceRepo, cfg.Location)

	officeService := service.NewOfficeService(officeRepo)
	userService := service.NewUserService(userRepo, officeRepo)
	timingService := service.NewTimingService(ticketRepo, userRepo, balanceRepo, calc, cfg.Location)
	balanceService := service.NewBalanceService(balanceRepo, officeRepo, restdayRepo, absenceRepo, calc, cfg.Location)
	restdayService := service.NewRestdayService(restdayRepo, balanceRepo, userRepo, calc)
	absenceService := service.NewAbsenceService(absenceRepo, balanceRepo, userRepo, calc)

	// Explicit bootstrap: the sentinel office for unassigned users exists
	// before any user can register.
	if _, err := officeService.EnsureDefaultOffice(); err != nil {
		logrus.WithError(err).Fatal("Failed to ensure default office")
	}

	if err := userService.InitializeAdmin(cfg.BaseAdminChatID); err != nil {
		logrus.Infof("Warning: Failed to initialize admin: %v", err)
	} else if cfg.BaseAdminChatID != 0 {
		logrus.Infof("Admin initialized with chat ID: %d", cfg.BaseAdminChatID)
	}

	client, err := telegram.NewClient(cfg.TelegramToken)
	if err != nil {
		logrus.Fatal("Failed to create Telegram client:", err)
	}

	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	botHandler := handler.NewHandler(
		client,
		userService,
		officeService,
		timingService,
		balanceService,
		restdayService,
		absenceService,
		cfg,
	)

	httpServer := api.NewServer(cfg.HTTPAddr, userService, balanceService)
	go func() {
		logrus.Infof("HTTP API listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server failed")
		}
	}()

	updates := client.Bot.GetUpdatesChan(client.UpdateConfig)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go botHandler.HandleUpdates(updates)

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.Infof("Error shutting down HTTP server: %v", err)
	}

	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Bot stopped gracefully")
}
