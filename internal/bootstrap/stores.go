// Package bootstrap turns a loaded Config into ready-to-use repositories and services.
// Both the API server and the CLI build their dependencies through it.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	authdomain "github.com/aradsms/contactbook/internal/auth_service/domain"
	authmemory "github.com/aradsms/contactbook/internal/auth_service/repository/memory"
	authpg "github.com/aradsms/contactbook/internal/auth_service/repository/postgres"
	authsqlite "github.com/aradsms/contactbook/internal/auth_service/repository/sqlite"
	contactdomain "github.com/aradsms/contactbook/internal/contact_service/domain"
	contactmemory "github.com/aradsms/contactbook/internal/contact_service/repository/memory"
	contactpg "github.com/aradsms/contactbook/internal/contact_service/repository/postgres"
	contactsqlite "github.com/aradsms/contactbook/internal/contact_service/repository/sqlite"
	"github.com/aradsms/contactbook/internal/platform/config"
	"github.com/aradsms/contactbook/internal/platform/database"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Stores holds the repositories for the configured driver.
type Stores struct {
	Driver   string
	Contacts contactdomain.ContactRepository
	Users    authdomain.UserRepository
	close    func()
}

// Close releases the underlying database handle.
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// OpenStores connects to the configured store and makes sure its tables exist.
func OpenStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	s := &Stores{Driver: driver}

	switch driver {
	case "", DriverSQLite:
		s.Driver = DriverSQLite
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.close = func() { _ = db.Close() }
		s.Contacts = contactsqlite.NewContactRepository(db, logger)
		s.Users = authsqlite.NewUserRepository(db, logger)
		logger.InfoContext(ctx, "Using SQLite store", "path", cfg.SQLitePath)
	case DriverPostgres:
		pool, err := database.NewDBPool(ctx, cfg.PostgresDSN, int32(cfg.PostgresMaxConns))
		if err != nil {
			return nil, err
		}
		s.close = pool.Close
		s.Contacts = contactpg.NewPgContactRepository(pool, logger)
		s.Users = authpg.NewPgUserRepository(pool, logger)
		logger.InfoContext(ctx, "Using PostgreSQL store")
	case DriverMemory:
		s.Contacts = contactmemory.NewContactRepository()
		s.Users = authmemory.NewUserRepository()
		logger.InfoContext(ctx, "Using in-memory store; data is lost on exit")
	default:
		return nil, fmt.Errorf("unknown store driver %q (want sqlite, postgres or memory)", cfg.StoreDriver)
	}

	for _, repo := range []any{s.Contacts, s.Users} {
		if e, ok := repo.(schemaEnsurer); ok {
			if err := e.EnsureSchema(ctx); err != nil {
				s.Close()
				return nil, err
			}
		}
	}
	return s, nil
}
