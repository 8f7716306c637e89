package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/Stevy-aimery/pantheres-finance/cmd/tui/internal/view"
	"github.com/Stevy-aimery/pantheres-finance/internal/config"
	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
	cotisationStore "github.com/Stevy-aimery/pantheres-finance/internal/cotisation/store"
	"github.com/Stevy-aimery/pantheres-finance/internal/database"
	"github.com/Stevy-aimery/pantheres-finance/internal/member"
	memberStore "github.com/Stevy-aimery/pantheres-finance/internal/member/store"
	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
	txStore "github.com/Stevy-aimery/pantheres-finance/internal/transaction/store"
)

type model struct {
	memberService     *member.Service
	cotisationService *cotisation.Service
	txService         *transaction.Service

	currentView View

	cotisationsView  view.CotisationsModel
	transactionsView view.TransactionsModel
	paymentView      view.PaymentModel
}

type View int

const (
	ViewMenu         View = 0
	ViewCotisations  View = 1
	ViewTransactions View = 2
	ViewPayment      View = 3
)

func initialModel() model {
	_ = godotenv.Load()

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

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	rates := cotisation.Rates{
		Player:       cfg.Cotisation.PlayerAmount,
		Office:       cfg.Cotisation.OfficeAmount,
		PlayerOffice: cfg.Cotisation.PlayerOfficeAmount,
	}
	season := cotisation.Season{
		Start:          seasonStart,
		DurationMonths: cfg.Season.DurationMonths,
	}

	memberSvc := member.NewService(memberStore.New(db))
	cotisationSvc := cotisation.NewService(cotisationStore.New(db), rates, season, nil)
	txSvc := transaction.NewService(txStore.New(db))

	return model{
		memberService:     memberSvc,
		cotisationService: cotisationSvc,
		txService:         txSvc,
		currentView:       ViewMenu,
		cotisationsView:   view.NewCotisationsModel(cotisationSvc),
		transactionsView:  view.NewTransactionsModel(txSvc),
		paymentView:       view.NewPaymentModel(cotisationSvc, memberSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCotisations
				m.cotisationsView = view.NewCotisationsModel(m.cotisationService)

				return m, m.cotisationsView.Init()
			case "2":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.txService)

				return m, m.transactionsView.Init()
			case "3":
				m.currentView = ViewPayment
				m.paymentView = view.NewPaymentModel(m.cotisationService, m.memberService)

				return m, m.paymentView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewCotisations:
		var newModel tea.Model
		newModel, cmd = m.cotisationsView.Update(msg)
		m.cotisationsView = newModel.(view.CotisationsModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewPayment:
		var newModel tea.Model
		newModel, cmd = m.paymentView.Update(msg)
		m.paymentView = newModel.(view.PaymentModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Panthères de Fès | Trésorerie\n\n" +
				"1. État des Cotisations\n" +
				"2. Registre des Transactions\n" +
				"3. Enregistrer un Paiement\n\n" +
				"q. Quitter",
		)
	case ViewCotisations:
		return m.cotisationsView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewPayment:
		return m.paymentView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
