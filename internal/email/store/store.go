package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/email"
)

type LogStore struct {
	db *sql.DB
}

func NewLogStore(db *sql.DB) *LogStore {
	return &LogStore{db: db}
}

func (s *LogStore) Record(ctx context.Context, entry *email.LogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO notifications_log (id, type, destinataire_email, destinataire_id, objet, corps, statut, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
		RETURNING created_at`

	err := s.db.QueryRowContext(ctx, query,
		entry.ID,
		entry.Type,
		entry.DestinataireEmail,
		entry.DestinataireID,
		entry.Objet,
		entry.Corps,
		entry.Statut,
		entry.ErrorMessage,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting notification log: %w", err)
	}

	return nil
}

func (s *LogStore) ListNotifications(ctx context.Context, limit int) ([]*email.LogEntry, error) {
	query := `
		SELECT id, type, destinataire_email, destinataire_id, objet, corps, statut, COALESCE(error_message, ''), created_at
		FROM notifications_log
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying notification log: %w", err)
	}
	defer rows.Close()

	var entries []*email.LogEntry
	for rows.Next() {
		var e email.LogEntry
		if err := rows.Scan(
			&e.ID,
			&e.Type,
			&e.DestinataireEmail,
			&e.DestinataireID,
			&e.Objet,
			&e.Corps,
			&e.Statut,
			&e.ErrorMessage,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning notification log row: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
