package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/message"
)

type MessageStore struct {
	db *sql.DB
}

func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

const selectMessageColumns = `id, membre_id, parent_id, sujet, contenu, type_message, statut, is_from_tresorier, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(s scanner) (*message.Message, error) {
	var m message.Message
	err := s.Scan(
		&m.ID,
		&m.MembreID,
		&m.ParentID,
		&m.Sujet,
		&m.Contenu,
		&m.TypeMessage,
		&m.Statut,
		&m.IsFromTresorier,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MessageStore) Create(ctx context.Context, m *message.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	query := `
		INSERT INTO messages (id, membre_id, parent_id, sujet, contenu, type_message, statut, is_from_tresorier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := s.db.QueryRowContext(ctx, query,
		m.ID,
		m.MembreID,
		m.ParentID,
		m.Sujet,
		m.Contenu,
		m.TypeMessage,
		m.Statut,
		m.IsFromTresorier,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	return nil
}

func (s *MessageStore) Get(ctx context.Context, id uuid.UUID) (*message.Message, error) {
	query := `SELECT ` + selectMessageColumns + ` FROM messages WHERE id = $1`

	m, err := scanMessage(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, message.ErrNotFound
		}
		return nil, fmt.Errorf("querying message: %w", err)
	}

	return m, nil
}

// ListThreads returns root messages with their replies. When membreID
// is set the listing is scoped to threads that member started.
func (s *MessageStore) ListThreads(ctx context.Context, membreID *uuid.UUID) ([]*message.Thread, error) {
	query := `
		SELECT ` + selectMessageColumns + `
		FROM messages
		WHERE parent_id IS NULL`
	args := []any{}

	if membreID != nil {
		query += ` AND membre_id = $1`
		args = append(args, *membreID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying threads: %w", err)
	}
	defer rows.Close()

	var threads []*message.Thread
	byID := make(map[uuid.UUID]*message.Thread)

	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning thread row: %w", err)
		}
		t := &message.Thread{Message: *m, Replies: []*message.Message{}}
		threads = append(threads, t)
		byID[m.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(threads) == 0 {
		return []*message.Thread{}, nil
	}

	roots := make([]string, 0, len(threads))
	for id := range byID {
		roots = append(roots, id.String())
	}

	replyQuery := `
		SELECT ` + selectMessageColumns + `
		FROM messages
		WHERE parent_id = ANY($1::uuid[])
		ORDER BY created_at ASC`

	replyRows, err := s.db.QueryContext(ctx, replyQuery, roots)
	if err != nil {
		return nil, fmt.Errorf("querying replies: %w", err)
	}
	defer replyRows.Close()

	for replyRows.Next() {
		m, err := scanMessage(replyRows)
		if err != nil {
			return nil, fmt.Errorf("scanning reply row: %w", err)
		}
		if t, ok := byID[*m.ParentID]; ok {
			t.Replies = append(t.Replies, m)
		}
	}

	return threads, replyRows.Err()
}

func (s *MessageStore) UpdateStatut(ctx context.Context, id uuid.UUID, statut message.Statut) error {
	result, err := s.db.ExecContext(ctx, `UPDATE messages SET statut = $1 WHERE id = $2`, statut, id)
	if err != nil {
		return fmt.Errorf("updating message statut: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return message.ErrNotFound
	}

	return nil
}
