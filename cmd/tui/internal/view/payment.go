package view

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
	"github.com/Stevy-aimery/pantheres-finance/internal/member"
	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
)

// The console runs with direct database access, so payments are
// recorded under a local treasurer identity.
var consoleIdentity = &auth.Identity{
	Email: "console@local",
	Role:  rbac.RoleTresorier,
}

type paymentState int

const (
	paymentStateLoading paymentState = iota
	paymentStateForm
	paymentStateDone
)

type PaymentModel struct {
	CommonModel
	cotisations *cotisation.Service
	members     *member.Service

	state  paymentState
	form   *huh.Form
	roster []*member.Member
	status string
	err    error

	// Form bindings
	formMemberID string
	formMonth    string
	formYear     string
	formAmount   string
	formMethod   string
}

func NewPaymentModel(cotisations *cotisation.Service, members *member.Service) PaymentModel {
	return PaymentModel{
		cotisations: cotisations,
		members:     members,
		state:       paymentStateLoading,
	}
}

func (m PaymentModel) Title() string { return "Enregistrer un Paiement" }
func (m PaymentModel) ShortHelp() string {
	return "Navigate form | Esc: retour"
}

type loadRosterMsg struct {
	roster []*member.Member
	err    error
}

func (m PaymentModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		statut := member.StatutActif
		roster, err := m.members.List(ctx, member.ListFilter{Statut: &statut})
		return loadRosterMsg{roster: roster, err: err}
	}
}

func (m PaymentModel) Init() tea.Cmd {
	return m.loadCmd()
}

type paymentSavedMsg struct {
	payment *cotisation.Payment
	err     error
}

func (m PaymentModel) saveCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		memberID, err := uuid.Parse(m.formMemberID)
		if err != nil {
			return paymentSavedMsg{err: err}
		}

		month, _ := strconv.Atoi(m.formMonth)
		year, _ := strconv.Atoi(m.formYear)
		amount, _ := strconv.ParseInt(m.formAmount, 10, 64)

		p, err := m.cotisations.Record(ctx, consoleIdentity, cotisation.RecordParams{
			MemberID: memberID,
			Month:    month,
			Year:     year,
			Amount:   amount,
			Method:   cotisation.Method(m.formMethod),
		})
		return paymentSavedMsg{payment: p, err: err}
	}
}

func (m PaymentModel) buildForm() *huh.Form {
	memberOptions := make([]huh.Option[string], 0, len(m.roster))
	for _, mb := range m.roster {
		memberOptions = append(memberOptions, huh.NewOption(mb.NomPrenom, mb.ID.String()))
	}

	monthOptions := make([]huh.Option[string], 0, 12)
	for i := 1; i <= 12; i++ {
		monthOptions = append(monthOptions, huh.NewOption(time.Month(i).String(), strconv.Itoa(i)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("membre").
				Title("Membre").
				Options(memberOptions...).
				Value(&m.formMemberID),

			huh.NewSelect[string]().
				Key("mois").
				Title("Mois").
				Options(monthOptions...).
				Value(&m.formMonth),

			huh.NewInput().
				Key("annee").
				Title("Année").
				Value(&m.formYear).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(s); err != nil || n < 2000 {
						return fmt.Errorf("année invalide")
					}
					return nil
				}),

			huh.NewInput().
				Key("montant").
				Title("Montant (MAD)").
				Value(&m.formAmount).
				Validate(func(s string) error {
					if n, err := strconv.ParseInt(s, 10, 64); err != nil || n < 0 {
						return fmt.Errorf("montant invalide")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("mode").
				Title("Mode de paiement").
				Options(
					huh.NewOption("Espèces", string(cotisation.MethodEspeces)),
					huh.NewOption("Virement", string(cotisation.MethodVirement)),
					huh.NewOption("Wafacash", string(cotisation.MethodWafacash)),
					huh.NewOption("Chèque", string(cotisation.MethodCheque)),
				).
				Value(&m.formMethod),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m PaymentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRosterMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.roster = msg.roster
		m.formYear = strconv.Itoa(time.Now().Year())
		m.form = m.buildForm()
		m.state = paymentStateForm
		return m, m.form.Init()

	case paymentSavedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, cotisation.ErrDuplicatePayment) {
				m.status = "Ce mois est déjà payé pour ce membre."
			} else {
				m.status = fmt.Sprintf("Erreur: %v", msg.err)
			}
			m.form = m.buildForm()
			m.state = paymentStateForm
			return m, m.form.Init()
		}

		m.status = fmt.Sprintf("Paiement enregistré: %s pour %s/%d",
			FormatAmount(msg.payment.Amount), m.formMonth, msg.payment.Year)
		m.state = paymentStateDone
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
		if m.state == paymentStateDone && keyMsg.String() == "enter" {
			m.form = m.buildForm()
			m.state = paymentStateForm
			return m, m.form.Init()
		}
	}

	if m.state != paymentStateForm || m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.formMemberID = m.form.GetString("membre")
	m.formMonth = m.form.GetString("mois")
	m.formYear = m.form.GetString("annee")
	m.formAmount = m.form.GetString("montant")
	m.formMethod = m.form.GetString("mode")

	m.state = paymentStateLoading
	return m, m.saveCmd()
}

func (m PaymentModel) View() string {
	switch m.state {
	case paymentStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Chargement...")
	case paymentStateDone:
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\nEnter: nouveau paiement | Esc: retour")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Erreur: %v", m.err))
	}

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(54).
		Render("Enregistrer un Paiement\n\n" + m.form.View())

	content := panel
	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
