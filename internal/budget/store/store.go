package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/budget"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectLineColumns = `
	id, categorie, type, budget_alloue, periode_debut, periode_fin, created_at, updated_at
`

func (s *Store) CreateLine(ctx context.Context, line *budget.Line) error {
	query := `
		INSERT INTO budget (categorie, type, budget_alloue, periode_debut, periode_fin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		line.Categorie, line.Type, line.BudgetAlloue, line.PeriodeDebut, line.PeriodeFin,
	).Scan(&line.ID, &line.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating budget line: %w", err)
	}

	return nil
}

func (s *Store) GetLine(ctx context.Context, id uuid.UUID) (*budget.Line, error) {
	query := `SELECT ` + selectLineColumns + ` FROM budget WHERE id = $1`

	var line budget.Line
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&line.ID, &line.Categorie, &line.Type, &line.BudgetAlloue,
		&line.PeriodeDebut, &line.PeriodeFin, &line.CreatedAt, &line.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting budget line: %w", err)
	}

	return &line, nil
}

func (s *Store) UpdateLine(ctx context.Context, line *budget.Line) error {
	query := `
		UPDATE budget
		SET categorie = $1, type = $2, budget_alloue = $3, periode_debut = $4, periode_fin = $5, updated_at = NOW()
		WHERE id = $6
	`

	_, err := s.db.ExecContext(ctx, query,
		line.Categorie, line.Type, line.BudgetAlloue, line.PeriodeDebut, line.PeriodeFin, line.ID,
	)
	if err != nil {
		return fmt.Errorf("updating budget line: %w", err)
	}

	return nil
}

func (s *Store) DeleteLine(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM budget WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting budget line: %w", err)
	}

	return nil
}

func (s *Store) ListLines(ctx context.Context, start, end time.Time) ([]budget.Line, error) {
	query := `SELECT ` + selectLineColumns + `
		FROM budget
		WHERE periode_debut >= $1 AND periode_fin <= $2
		ORDER BY type, categorie`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing budget lines: %w", err)
	}
	defer rows.Close()

	var lines []budget.Line

	for rows.Next() {
		var line budget.Line
		if err := rows.Scan(
			&line.ID, &line.Categorie, &line.Type, &line.BudgetAlloue,
			&line.PeriodeDebut, &line.PeriodeFin, &line.CreatedAt, &line.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning budget line: %w", err)
		}

		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget lines: %w", err)
	}

	return lines, nil
}
