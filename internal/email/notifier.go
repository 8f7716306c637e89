package email

import (
	"context"
	"log/slog"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
	"github.com/Stevy-aimery/pantheres-finance/internal/member"
)

// Notification types recorded in the log.
const (
	TypeRelanceCotisation    = "relance_cotisation"
	TypeConfirmationPaiement = "confirmation_paiement"
	TypeRapportMensuel       = "rapport_mensuel"
)

// LogEntry is one row of the delivery log.
type LogEntry struct {
	ID                uuid.UUID  `json:"id"`
	Type              string     `json:"type"`
	DestinataireEmail string     `json:"destinataire_email"`
	DestinataireID    *uuid.UUID `json:"destinataire_id,omitempty"`
	Objet             string     `json:"objet"`
	Corps             string     `json:"corps"`
	Statut            string     `json:"statut"`
	ErrorMessage      string     `json:"error_message,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// LogStore persists delivery outcomes.
type LogStore interface {
	Record(ctx context.Context, entry *LogEntry) error
}

// MemberGetter is the slice of the member service the notifier needs.
type MemberGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*member.Member, error)
}

// Notifier builds and sends the club's transactional emails, logging
// every attempt. All sends are best-effort: a failed delivery is
// recorded, never escalated into the calling operation's failure.
type Notifier struct {
	mailer   Mailer
	log      LogStore
	members  MemberGetter
	payments cotisation.Repository
	rates    cotisation.Rates
	season   cotisation.Season
	dueDay   int
	clubName string
	currency string
	now      func() time.Time
}

func NewNotifier(
	mailer Mailer,
	log LogStore,
	members MemberGetter,
	payments cotisation.Repository,
	rates cotisation.Rates,
	season cotisation.Season,
	dueDay int,
	clubName, currency string,
) *Notifier {
	return &Notifier{
		mailer:   mailer,
		log:      log,
		members:  members,
		payments: payments,
		rates:    rates,
		season:   season,
		dueDay:   dueDay,
		clubName: clubName,
		currency: currency,
		now:      time.Now,
	}
}

func (n *Notifier) record(ctx context.Context, entry *LogEntry) {
	if err := n.log.Record(ctx, entry); err != nil {
		slog.Error("recording notification log", "type", entry.Type, "error", err)
	}
}

func (n *Notifier) deliver(ctx context.Context, typ string, m *member.Member, subject, body string) error {
	err := n.mailer.Send(ctx, Message{
		To:      mail.Address{Name: m.NomPrenom, Address: m.Email},
		Subject: subject,
		Body:    body,
	})

	entry := &LogEntry{
		Type:              typ,
		DestinataireEmail: m.Email,
		DestinataireID:    &m.ID,
		Objet:             subject,
		Corps:             body,
		Statut:            "success",
	}
	if err != nil {
		entry.Statut = "failed"
		entry.ErrorMessage = err.Error()
		entry.Corps = ""
	}

	n.record(ctx, entry)

	return err
}

func (n *Notifier) stateFor(ctx context.Context, m *member.Member) (cotisation.State, error) {
	payments, err := n.payments.ListPayments(ctx, m.ID, n.now().Year())
	if err != nil {
		return cotisation.State{}, err
	}

	var totalPaid int64
	for _, p := range payments {
		totalPaid += p.Amount
	}

	monthlyDue := n.rates.MonthlyDueFor(m.RoleJoueur, m.RoleBureau)

	return cotisation.Derive(monthlyDue, totalPaid, n.season, n.now()), nil
}

// SendDuesReminder emails a late member. The outcome is logged either
// way; the error return lets batch callers tally failures.
func (n *Notifier) SendDuesReminder(ctx context.Context, memberID uuid.UUID) error {
	m, err := n.members.Get(ctx, memberID)
	if err != nil {
		return err
	}

	state, err := n.stateFor(ctx, m)
	if err != nil {
		return err
	}

	body, err := render(reminderTmpl, map[string]any{
		"NomMembre":   m.NomPrenom,
		"Montant":     state.MonthlyDue,
		"Mois":        MonthName(int(n.now().Month())),
		"JourLimite":  n.dueDay,
		"ResteAPayer": state.Remaining,
		"Currency":    n.currency,
		"ClubName":    n.clubName,
	})
	if err != nil {
		return err
	}

	return n.deliver(ctx, TypeRelanceCotisation, m, "Rappel Cotisation - "+n.clubName, body)
}

// SendPaymentConfirmation implements cotisation.ConfirmationSender.
// Fire-and-forget: the payment is already committed, a lost email only
// shows up in the log.
func (n *Notifier) SendPaymentConfirmation(ctx context.Context, p *cotisation.Payment) {
	m, err := n.members.Get(ctx, p.MemberID)
	if err != nil {
		slog.Error("payment confirmation: member lookup", "member_id", p.MemberID, "error", err)
		return
	}

	state, err := n.stateFor(ctx, m)
	if err != nil {
		slog.Error("payment confirmation: dues state", "member_id", p.MemberID, "error", err)
		return
	}

	body, err := render(confirmationTmpl, map[string]any{
		"NomMembre":   m.NomPrenom,
		"Montant":     p.Amount,
		"Mois":        MonthName(p.Month),
		"TotalPaye":   state.TotalPaid,
		"ResteAPayer": state.Remaining,
		"Currency":    n.currency,
		"ClubName":    n.clubName,
	})
	if err != nil {
		slog.Error("payment confirmation: template", "error", err)
		return
	}

	if err := n.deliver(ctx, TypeConfirmationPaiement, m, "Confirmation de Paiement - "+n.clubName, body); err != nil {
		slog.Error("payment confirmation: delivery", "member_id", p.MemberID, "error", err)
	}
}

// MonthlyReportData carries the KPI snapshot rendered into the monthly
// report; the caller computes it so this package stays below reporting.
type MonthlyReportData struct {
	SoldeActuel      int64
	TauxRecouvrement int
	DepensesMois     int64
	TotalRecettes    int64
	TotalDepenses    int64
}

// SendMonthlyReport emails the KPI snapshot to one office member.
func (n *Notifier) SendMonthlyReport(ctx context.Context, m *member.Member, data MonthlyReportData) error {
	body, err := render(monthlyReportTmpl, map[string]any{
		"NomMembre":        m.NomPrenom,
		"Mois":             MonthYear(n.now()),
		"SoldeActuel":      data.SoldeActuel,
		"TauxRecouvrement": data.TauxRecouvrement,
		"DepensesMois":     data.DepensesMois,
		"TotalRecettes":    data.TotalRecettes,
		"TotalDepenses":    data.TotalDepenses,
		"Currency":         n.currency,
		"ClubName":         n.clubName,
	})
	if err != nil {
		return err
	}

	subject := "Rapport Financier Mensuel - " + MonthYear(n.now())

	return n.deliver(ctx, TypeRapportMensuel, m, subject, body)
}
