package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
)

// uniqueViolation is the Postgres error code raised by the
// paiements_membre_mois_annee_key constraint.
const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreatePayment(ctx context.Context, p *cotisation.Payment) error {
	query := `
		INSERT INTO paiements (membre_id, mois, annee, montant, mode_paiement, date_paiement)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.MemberID, p.Month, p.Year, p.Amount, p.Method, p.PaymentDate,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return cotisation.ErrDuplicatePayment
		}

		return fmt.Errorf("creating payment: %w", err)
	}

	return nil
}

func (s *Store) ListPayments(ctx context.Context, memberID uuid.UUID, year int) ([]*cotisation.Payment, error) {
	query := `
		SELECT id, membre_id, mois, annee, montant, mode_paiement, date_paiement, created_at
		FROM paiements
		WHERE membre_id = $1 AND annee = $2
		ORDER BY mois ASC
	`

	rows, err := s.db.QueryContext(ctx, query, memberID, year)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*cotisation.Payment

	for rows.Next() {
		var p cotisation.Payment
		if err := rows.Scan(
			&p.ID, &p.MemberID, &p.Month, &p.Year, &p.Amount, &p.Method, &p.PaymentDate, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}

	return payments, nil
}

func (s *Store) ListMemberDues(ctx context.Context, year int) ([]cotisation.MemberDues, error) {
	query := `
		SELECT m.id, m.nom_prenom, m.email, m.statut, m.role_joueur, m.role_bureau,
			COALESCE(SUM(p.montant), 0) AS total_paye
		FROM membres m
		LEFT JOIN paiements p ON p.membre_id = m.id AND p.annee = $1
		WHERE m.statut = 'Actif'
		GROUP BY m.id, m.nom_prenom, m.email, m.statut, m.role_joueur, m.role_bureau
		ORDER BY m.nom_prenom ASC
	`

	rows, err := s.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("listing member dues: %w", err)
	}
	defer rows.Close()

	var dues []cotisation.MemberDues

	for rows.Next() {
		var d cotisation.MemberDues
		if err := rows.Scan(
			&d.MemberID, &d.NomPrenom, &d.Email, &d.Statut, &d.RoleJoueur, &d.RoleBureau, &d.TotalPaid,
		); err != nil {
			return nil, fmt.Errorf("scanning member dues: %w", err)
		}

		dues = append(dues, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member dues: %w", err)
	}

	return dues, nil
}
