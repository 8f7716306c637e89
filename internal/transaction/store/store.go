package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
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

const selectTransactionColumns = `
	id, date, type, categorie, COALESCE(sous_categorie, ''), COALESCE(tiers, ''),
	membre_id, libelle, entree, sortie, mode_paiement, created_at, updated_at
`

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	if err := s.Scan(
		&tx.ID, &tx.Date, &tx.Type, &tx.Categorie, &tx.SousCategorie, &tx.Tiers,
		&tx.MemberID, &tx.Libelle, &tx.Entree, &tx.Sortie, &tx.ModePaiement,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (date, type, categorie, sous_categorie, tiers, membre_id, libelle, entree, sortie, mode_paiement)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.Date, tx.Type, tx.Categorie, tx.SousCategorie, tx.Tiers,
		tx.MemberID, tx.Libelle, tx.Entree, tx.Sortie, tx.ModePaiement,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Categorie != nil {
		query += fmt.Sprintf(" AND categorie = $%d", argIdx)

		args = append(args, *filter.Categorie)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY date DESC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET date = $1, type = $2, categorie = $3, sous_categorie = NULLIF($4, ''),
			tiers = NULLIF($5, ''), membre_id = $6, libelle = $7,
			entree = $8, sortie = $9, mode_paiement = $10, updated_at = NOW()
		WHERE id = $11
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.Date, tx.Type, tx.Categorie, tx.SousCategorie, tx.Tiers,
		tx.MemberID, tx.Libelle, tx.Entree, tx.Sortie, tx.ModePaiement, tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

func (s *Store) SumByTypeAndCategory(ctx context.Context, start, end time.Time) (map[string]int64, error) {
	query := `
		SELECT type, categorie,
			SUM(CASE WHEN type = 'Recette' THEN entree ELSE sortie END) AS realise
		FROM transactions
		WHERE date >= $1 AND date <= $2
		GROUP BY type, categorie
	`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("summing by category: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]int64)

	for rows.Next() {
		var (
			typ, categorie string
			realise        int64
		)

		if err := rows.Scan(&typ, &categorie, &realise); err != nil {
			return nil, fmt.Errorf("scanning category sum: %w", err)
		}

		sums[typ+"-"+categorie] = realise
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category sums: %w", err)
	}

	return sums, nil
}

func (s *Store) Totals(ctx context.Context) (int64, int64, error) {
	var recettes, depenses int64

	query := `SELECT COALESCE(SUM(entree), 0), COALESCE(SUM(sortie), 0) FROM transactions`
	if err := s.db.QueryRowContext(ctx, query).Scan(&recettes, &depenses); err != nil {
		return 0, 0, fmt.Errorf("summing totals: %w", err)
	}

	return recettes, depenses, nil
}
