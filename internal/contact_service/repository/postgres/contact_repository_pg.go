package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
	"github.com/aradsms/contactbook/internal/platform/database"
)

const contactsSchema = `
CREATE TABLE IF NOT EXISTS contacts (
	id    BIGSERIAL PRIMARY KEY,
	name  TEXT NOT NULL,
	phone TEXT NOT NULL,
	email TEXT NOT NULL
)`

type PgContactRepository struct {
	db     database.Querier
	logger *slog.Logger
}

func NewPgContactRepository(db database.Querier, logger *slog.Logger) *PgContactRepository {
	return &PgContactRepository{db: db, logger: logger.With("component", "contact_repository_pg")}
}

// EnsureSchema creates the contacts table if it does not exist yet.
func (r *PgContactRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, contactsSchema); err != nil {
		r.logger.ErrorContext(ctx, "Error creating contacts table", "error", err)
		return domain.NewStorageError("ensure_schema", err)
	}
	return nil
}

func (r *PgContactRepository) Create(ctx context.Context, ct *domain.Contact) error {
	query := `INSERT INTO contacts (name, phone, email) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRow(ctx, query, ct.Name, ct.Phone, ct.Email).Scan(&ct.ID); err != nil {
		r.logger.ErrorContext(ctx, "Error creating contact", "error", err)
		return domain.NewStorageError("create", err)
	}
	r.logger.InfoContext(ctx, "Contact created successfully", "contact_id", ct.ID)
	return nil
}

func (r *PgContactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	query := `SELECT id, name, phone, email FROM contacts WHERE id = $1`
	ct := &domain.Contact{}
	err := r.db.QueryRow(ctx, query, id).Scan(&ct.ID, &ct.Name, &ct.Phone, &ct.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Contact not found", "contact_id", id)
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting contact by ID", "error", err, "contact_id", id)
		return nil, domain.NewStorageError("get", err)
	}
	return ct, nil
}

func (r *PgContactRepository) List(ctx context.Context, f domain.Filter) ([]*domain.Contact, error) {
	query, args := buildListQuery(f)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing contacts", "error", err, "scope", f.Scope.String())
		return nil, domain.NewStorageError("list", err)
	}
	defer rows.Close()

	contacts := []*domain.Contact{}
	for rows.Next() {
		ct := &domain.Contact{}
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Phone, &ct.Email); err != nil {
			r.logger.ErrorContext(ctx, "Error scanning contact row", "error", err)
			return nil, domain.NewStorageError("list", err)
		}
		contacts = append(contacts, ct)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating contact rows", "error", err)
		return nil, domain.NewStorageError("list", err)
	}
	return contacts, nil
}

// foldASCII lowercases A-Z only, matching the sqlite and in-memory stores;
// lower() would also fold non-ASCII letters under most collations.
func foldASCII(expr string) string {
	return fmt.Sprintf("translate(%s, 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz')", expr)
}

// buildListQuery turns the filter into one predicate over the scope's columns.
// strpos treats the search text literally, unlike LIKE.
func buildListQuery(f domain.Filter) (string, []any) {
	const base = `SELECT id, name, phone, email FROM contacts`
	if f.IsEmpty() {
		return base + ` ORDER BY id`, nil
	}

	cols := f.Scope.Columns()
	conds := make([]string, 0, len(cols))
	for _, col := range cols {
		if f.CaseSensitive {
			conds = append(conds, fmt.Sprintf("strpos(%s, $1) > 0", col))
		} else {
			conds = append(conds, fmt.Sprintf("strpos(%s, %s) > 0", foldASCII(col), foldASCII("$1")))
		}
	}
	return base + ` WHERE ` + strings.Join(conds, " OR ") + ` ORDER BY id`, []any{f.Search}
}

func (r *PgContactRepository) Update(ctx context.Context, ct *domain.Contact) error {
	query := `UPDATE contacts SET name = $1, phone = $2, email = $3 WHERE id = $4`
	tag, err := r.db.Exec(ctx, query, ct.Name, ct.Phone, ct.Email, ct.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating contact", "error", err, "contact_id", ct.ID)
		return domain.NewStorageError("update", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Contact not found for update", "contact_id", ct.ID)
		return domain.ErrNotFound
	}
	r.logger.InfoContext(ctx, "Contact updated successfully", "contact_id", ct.ID)
	return nil
}

func (r *PgContactRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM contacts WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error deleting contact", "error", err, "contact_id", id)
		return domain.NewStorageError("delete", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.DebugContext(ctx, "Delete matched no contact", "contact_id", id)
		return nil
	}
	r.logger.InfoContext(ctx, "Contact deleted successfully", "contact_id", id)
	return nil
}
