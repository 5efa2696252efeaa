package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/centavo/internal/oauth"
)

// ResolveOAuthUser busca o crea el usuario para un perfil externo y liga la
// cuenta del proveedor de forma idempotente: re-autenticarse con la misma
// identidad externa mapea siempre al mismo usuario interno aunque el email
// cambie en el proveedor.
func (s *Store) ResolveOAuthUser(ctx context.Context, p oauth.Profile, provider string) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1) ¿La cuenta externa ya está ligada? Esa ligadura manda.
	var userID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT user_id FROM oauth_account WHERE provider = $1 AND provider_user_id = $2`,
		provider, p.ID,
	).Scan(&userID)
	if err == nil {
		return userID, tx.Commit(ctx)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, err
	}

	// 2) Buscar por email, o crear.
	err = tx.QueryRow(ctx,
		`SELECT id FROM app_user WHERE email = $1`, normalizeEmail(p.Email),
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx,
			`INSERT INTO app_user (id, name, email) VALUES ($1, $2, $3) RETURNING id`,
			uuid.New(), p.Name, normalizeEmail(p.Email),
		).Scan(&userID)
	}
	if err != nil {
		return uuid.Nil, err
	}

	// 3) Upsert de la ligadura. DO NOTHING: si otra request ganó la carrera,
	// el unique (provider, provider_user_id) ya apunta al usuario correcto.
	if _, err := tx.Exec(ctx,
		`INSERT INTO oauth_account (user_id, provider, provider_user_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (provider, provider_user_id) DO NOTHING`,
		userID, provider, p.ID,
	); err != nil {
		return uuid.Nil, err
	}

	return userID, tx.Commit(ctx)
}
