package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/member"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectMemberColumns = `
	id, nom_prenom, telephone, email, statut, role_joueur, role_bureau,
	COALESCE(fonction_bureau, ''), date_entree, created_at, updated_at
`

func scanMember(s scanner) (*member.Member, error) {
	var m member.Member

	if err := s.Scan(
		&m.ID, &m.NomPrenom, &m.Telephone, &m.Email, &m.Statut,
		&m.RoleJoueur, &m.RoleBureau, &m.FonctionBureau,
		&m.DateEntree, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &m, nil
}

func (s *Store) CreateMember(ctx context.Context, m *member.Member) error {
	query := `
		INSERT INTO membres (nom_prenom, telephone, email, statut, role_joueur, role_bureau, fonction_bureau, date_entree)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		m.NomPrenom, m.Telephone, m.Email, m.Statut,
		m.RoleJoueur, m.RoleBureau, m.FonctionBureau, m.DateEntree,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating member: %w", err)
	}

	return nil
}

func (s *Store) GetMember(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM membres WHERE id = $1`

	m, err := scanMember(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, member.ErrNotFound
		}

		return nil, fmt.Errorf("getting member: %w", err)
	}

	return m, nil
}

func (s *Store) ListMembers(ctx context.Context, filter member.ListFilter) ([]*member.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM membres WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Statut != nil {
		query += fmt.Sprintf(" AND statut = $%d", argIdx)

		args = append(args, *filter.Statut)
		argIdx++
	}

	if filter.RoleBureau != nil {
		query += fmt.Sprintf(" AND role_bureau = $%d", argIdx)

		args = append(args, *filter.RoleBureau)
		argIdx++
	}

	query += " ORDER BY nom_prenom ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []*member.Member

	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}

		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}

	return members, nil
}

func (s *Store) UpdateMember(ctx context.Context, m *member.Member) error {
	query := `
		UPDATE membres
		SET nom_prenom = $1, telephone = $2, email = $3, statut = $4,
			role_joueur = $5, role_bureau = $6, fonction_bureau = NULLIF($7, ''),
			date_entree = $8, updated_at = NOW()
		WHERE id = $9
	`

	_, err := s.db.ExecContext(ctx, query,
		m.NomPrenom, m.Telephone, m.Email, m.Statut,
		m.RoleJoueur, m.RoleBureau, m.FonctionBureau, m.DateEntree, m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating member: %w", err)
	}

	return nil
}

func (s *Store) DeleteMember(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM membres WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}

	return nil
}

func (s *Store) CountByStatut(ctx context.Context, statut member.Statut) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM membres WHERE statut = $1`, statut).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting members: %w", err)
	}

	return count, nil
}
