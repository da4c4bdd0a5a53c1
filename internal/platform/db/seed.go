package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"paysuite/internal/domain/auth"
	"paysuite/internal/platform/config"
)

// Seed creates the HR admin login from SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD.
// It is a no-op when either is empty or the user already exists.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config, logger *zap.Logger) error {
	created, err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	if created {
		logger.Info("seeded admin user", zap.String("email", cfg.SeedAdminEmail), zap.String("role", auth.RoleHR))
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return false, nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}

	_, err = pool.Exec(ctx, "INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3)", email, hash, auth.RoleHR)
	if err != nil {
		return false, err
	}
	return true, nil
}
