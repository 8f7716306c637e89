package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	authStore "github.com/Stevy-aimery/pantheres-finance/internal/auth/store"
	"github.com/Stevy-aimery/pantheres-finance/internal/budget"
	budgetStore "github.com/Stevy-aimery/pantheres-finance/internal/budget/store"
	"github.com/Stevy-aimery/pantheres-finance/internal/config"
	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
	cotisationStore "github.com/Stevy-aimery/pantheres-finance/internal/cotisation/store"
	"github.com/Stevy-aimery/pantheres-finance/internal/database"
	"github.com/Stevy-aimery/pantheres-finance/internal/email"
	emailStore "github.com/Stevy-aimery/pantheres-finance/internal/email/store"
	pantheresHttp "github.com/Stevy-aimery/pantheres-finance/internal/http"
	authnHandler "github.com/Stevy-aimery/pantheres-finance/internal/http/authn"
	budgetHandler "github.com/Stevy-aimery/pantheres-finance/internal/http/budget"
	cotisationHandler "github.com/Stevy-aimery/pantheres-finance/internal/http/cotisation"
	cronHandler "github.com/Stevy-aimery/pantheres-finance/internal/http/cron"
	exportHandler "github.com/Stevy-aimery/pantheres-finance/internal/http/export"
	memberHandler "github.com/Stevy-aimery/pantheres-finance/internal/http/member"
	messageHandler "github.com/Stevy-aimery/pantheres-finance/internal/http/message"
	reportHandler "github.com/Stevy-aimery/pantheres-finance/internal/http/report"
	settingsHandler "github.com/Stevy-aimery/pantheres-finance/internal/http/settings"
	txHandler "github.com/Stevy-aimery/pantheres-finance/internal/http/transaction"
	"github.com/Stevy-aimery/pantheres-finance/internal/member"
	memberStore "github.com/Stevy-aimery/pantheres-finance/internal/member/store"
	"github.com/Stevy-aimery/pantheres-finance/internal/message"
	messageStore "github.com/Stevy-aimery/pantheres-finance/internal/message/store"
	"github.com/Stevy-aimery/pantheres-finance/internal/report"
	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
	txStore "github.com/Stevy-aimery/pantheres-finance/internal/transaction/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	seasonStart, err := cfg.SeasonStart()
	if err != nil {
		slog.Error("invalid season start", "error", err)
		os.Exit(1)
	}

	seasonEnd, err := cfg.SeasonEnd()
	if err != nil {
		slog.Error("invalid season end", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rates := cotisation.Rates{
		Player:       cfg.Cotisation.PlayerAmount,
		Office:       cfg.Cotisation.OfficeAmount,
		PlayerOffice: cfg.Cotisation.PlayerOfficeAmount,
	}
	season := cotisation.Season{
		Start:          seasonStart,
		DurationMonths: cfg.Season.DurationMonths,
	}

	var mailer email.Mailer = email.ConsoleMailer{}
	if cfg.Email.SendgridKey != "" {
		mailer = email.NewSendgridMailer(cfg.Email.SendgridKey, cfg.Email.FromName, cfg.Email.FromAddress)
	}

	var (
		memberService = member.NewService(memberStore.New(db))
		paymentStore  = cotisationStore.New(db)
		notifier      = email.NewNotifier(
			mailer,
			emailStore.NewLogStore(db),
			memberService,
			paymentStore,
			rates,
			season,
			cfg.Season.CotisationDay,
			cfg.App.ClubName,
			cfg.App.Currency,
		)
		cotisationService  = cotisation.NewService(paymentStore, rates, season, notifier)
		transactionService = transaction.NewService(txStore.New(db))
		budgetService      = budget.NewService(budgetStore.New(db), transactionService)
		reportService      = report.NewService(transactionService, cotisationService, budgetService, seasonStart, seasonEnd, cfg.Cotisation.ReserveFloor)
		authService        = auth.NewService(authStore.New(db), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		hub                = message.NewHub()
		outbox             = message.NewOutbox()
		messageService     = message.NewService(messageStore.NewMessageStore(db), hub)
	)

	handlers := pantheresHttp.Handlers{
		Authn:        authnHandler.NewHandler(authService),
		Members:      memberHandler.NewHandler(memberService),
		Transactions: txHandler.NewHandler(transactionService, reportService),
		Budget:       budgetHandler.NewHandler(budgetService, seasonStart, seasonEnd),
		Cotisations:  cotisationHandler.NewHandler(cotisationService, reportService),
		Messages:     messageHandler.NewHandler(messageService, hub, outbox),
		Reports:      reportHandler.NewHandler(reportService, cotisationService, memberService),
		Exports:      exportHandler.NewHandler(memberService, transactionService, cotisationService, budgetService, seasonStart, seasonEnd),
		Settings:     settingsHandler.NewHandler(authService, emailStore.NewLogStore(db)),
		Cron:         cronHandler.NewHandler(cfg.Cron.Secret, cotisationService, memberService, reportService, transactionService, notifier),
	}

	router := pantheresHttp.New(
		authService,
		pantheresHttp.NewLoginLimiter(cfg.App.LoginPerMinute),
		cfg.App.AllowedOrigins,
		handlers,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "club", cfg.App.ClubName, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
