package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// User es la fila mínima de app_user que necesita el core de auth.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash *string // NULL para usuarios solo-OAuth
}

// GetUserByID retorna el usuario o (nil, nil) si no existe.
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash FROM app_user WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail retorna el usuario o (nil, nil) si no existe.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash FROM app_user WHERE email = $1`,
		normalizeEmail(email),
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserta un usuario nuevo. passwordHash es nil para OAuth.
func (s *Store) CreateUser(ctx context.Context, name, email string, passwordHash *string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO app_user (id, name, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		uuid.New(), name, normalizeEmail(email), passwordHash,
	).Scan(&id)
	return id, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
