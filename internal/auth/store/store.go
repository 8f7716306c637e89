package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
)

// uniqueViolation is the Postgres error code raised by the email
// unique constraint on utilisateurs.
const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `
		SELECT id, email, password_hash, role, created_at
		FROM utilisateurs
		WHERE email = $1
	`

	var user auth.User
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrInvalidCredentials
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO utilisateurs (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.ErrDuplicateEmail
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) FindMemberByEmail(ctx context.Context, email string) (*uuid.UUID, string, error) {
	query := `
		SELECT id, COALESCE(fonction_bureau, '')
		FROM membres
		WHERE email = $1
	`

	var (
		id       uuid.UUID
		fonction string
	)

	err := s.db.QueryRowContext(ctx, query, email).Scan(&id, &fonction)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", nil
		}

		return nil, "", fmt.Errorf("finding member by email: %w", err)
	}

	return &id, fonction, nil
}
