package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/aradsms/contactbook/internal/auth_service/domain"
	"github.com/aradsms/contactbook/internal/platform/apperror"
)

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
)`

type UserRepository struct {
	mu     sync.Mutex
	db     *sql.DB
	logger *slog.Logger
}

func NewUserRepository(db *sql.DB, logger *slog.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger.With("component", "user_repository_sqlite")}
}

func (r *UserRepository) EnsureSchema(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.db.ExecContext(ctx, usersSchema); err != nil {
		r.logger.ErrorContext(ctx, "Error creating users table", "error", err)
		return apperror.NewStorageError("ensure_schema", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		u.Username, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			r.logger.WarnContext(ctx, "Duplicate username", "username", u.Username)
			return domain.ErrUsernameExists
		}
		r.logger.ErrorContext(ctx, "Error creating user", "error", err, "username", u.Username)
		return apperror.NewStorageError("create_user", err)
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return apperror.NewStorageError("create_user", err)
	}
	r.logger.InfoContext(ctx, "User created successfully", "user_id", u.ID)
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting user by username", "error", err, "username", username)
		return nil, apperror.NewStorageError("get_user", err)
	}
	return u, nil
}
