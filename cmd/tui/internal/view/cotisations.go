package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
)

type CotisationsModel struct {
	CommonModel
	svc *cotisation.Service

	table    table.Model
	states   []cotisation.MemberState
	lateOnly bool
	loading  bool
	err      error
}

func NewCotisationsModel(svc *cotisation.Service) CotisationsModel {
	columns := []table.Column{
		{Title: "Membre", Width: 28},
		{Title: "Mensuel", Width: 10},
		{Title: "Dû", Width: 10},
		{Title: "Payé", Width: 10},
		{Title: "Reste", Width: 10},
		{Title: "%", Width: 5},
		{Title: "Statut", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return CotisationsModel{svc: svc, table: t}
}

func (m CotisationsModel) Title() string { return "État des Cotisations" }
func (m CotisationsModel) ShortHelp() string {
	return "Esc: retour | f: retards seulement | r: actualiser"
}

type loadCotisationsMsg struct {
	states []cotisation.MemberState
	err    error
}

func (m CotisationsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		states, err := m.svc.StatusReport(ctx)
		return loadCotisationsMsg{states: states, err: err}
	}
}

func (m CotisationsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CotisationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCotisationsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.states = msg.states
		m.refreshTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "f":
			m.lateOnly = !m.lateOnly
			m.refreshTable()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *CotisationsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.states))
	for _, st := range m.states {
		if m.lateOnly && st.Status != cotisation.StatusRetard {
			continue
		}
		rows = append(rows, table.Row{
			st.NomPrenom,
			FormatAmount(st.MonthlyDue),
			FormatAmount(st.TotalDue),
			FormatAmount(st.State.TotalPaid),
			FormatAmount(st.Remaining),
			strconv.Itoa(st.PercentagePaid),
			string(st.Status),
		})
	}
	m.table.SetRows(rows)
}

func (m CotisationsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Chargement des cotisations...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Erreur: %v", m.err))
	}

	var late int
	for _, st := range m.states {
		if st.Status == cotisation.StatusRetard {
			late++
		}
	}

	filter := "tous"
	if m.lateOnly {
		filter = "retards"
	}
	header := fmt.Sprintf("%d membres, %d en retard | [f] filtre: %s", len(m.states), late, activeStyle(filter))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}
