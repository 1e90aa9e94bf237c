package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aradsms/contactbook/internal/auth_service/domain"
	"github.com/aradsms/contactbook/internal/platform/apperror"
	"github.com/aradsms/contactbook/internal/platform/database"
)

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const uniqueViolation = "23505"

type PgUserRepository struct {
	db     database.Querier
	logger *slog.Logger
}

func NewPgUserRepository(db database.Querier, logger *slog.Logger) *PgUserRepository {
	return &PgUserRepository{db: db, logger: logger.With("component", "user_repository_pg")}
}

func (r *PgUserRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, usersSchema); err != nil {
		r.logger.ErrorContext(ctx, "Error creating users table", "error", err)
		return apperror.NewStorageError("ensure_schema", err)
	}
	return nil
}

func (r *PgUserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, password_hash, created_at) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRow(ctx, query, u.Username, u.PasswordHash, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.WarnContext(ctx, "Duplicate username", "username", u.Username)
			return domain.ErrUsernameExists
		}
		r.logger.ErrorContext(ctx, "Error creating user", "error", err, "username", u.Username)
		return apperror.NewStorageError("create_user", err)
	}
	r.logger.InfoContext(ctx, "User created successfully", "user_id", u.ID)
	return nil
}

func (r *PgUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
	u := &domain.User{}
	err := r.db.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting user by username", "error", err, "username", username)
		return nil, apperror.NewStorageError("get_user", err)
	}
	return u, nil
}
