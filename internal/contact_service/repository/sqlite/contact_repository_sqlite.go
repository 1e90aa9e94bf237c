package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// AUTOINCREMENT keeps ids strictly increasing even after the highest row is deleted.
const contactsSchema = `
CREATE TABLE IF NOT EXISTS contacts (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	name  TEXT NOT NULL,
	phone TEXT NOT NULL,
	email TEXT NOT NULL
)`

// ContactRepository stores contacts in a SQLite file. Each operation holds mu for its single
// statement; the file is not assumed to tolerate concurrent writers.
type ContactRepository struct {
	mu     sync.Mutex
	db     *sql.DB
	logger *slog.Logger
}

func NewContactRepository(db *sql.DB, logger *slog.Logger) *ContactRepository {
	return &ContactRepository{db: db, logger: logger.With("component", "contact_repository_sqlite")}
}

// EnsureSchema creates the contacts table if it does not exist yet.
func (r *ContactRepository) EnsureSchema(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, contactsSchema); err != nil {
		r.logger.ErrorContext(ctx, "Error creating contacts table", "error", err)
		return domain.NewStorageError("ensure_schema", err)
	}
	return nil
}

func (r *ContactRepository) Create(ctx context.Context, ct *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `INSERT INTO contacts (name, phone, email) VALUES (?, ?, ?)`, ct.Name, ct.Phone, ct.Email)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error creating contact", "error", err)
		return domain.NewStorageError("create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		r.logger.ErrorContext(ctx, "Error reading new contact id", "error", err)
		return domain.NewStorageError("create", err)
	}
	ct.ID = id
	r.logger.InfoContext(ctx, "Contact created successfully", "contact_id", ct.ID)
	return nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ct := &domain.Contact{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, phone, email FROM contacts WHERE id = ?`, id).
		Scan(&ct.ID, &ct.Name, &ct.Phone, &ct.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.WarnContext(ctx, "Contact not found", "contact_id", id)
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting contact by ID", "error", err, "contact_id", id)
		return nil, domain.NewStorageError("get", err)
	}
	return ct, nil
}

func (r *ContactRepository) List(ctx context.Context, f domain.Filter) ([]*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, args := buildListQuery(f)
	rows, err := r.db.QueryContext(ctx, query, args...)
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

// buildListQuery ORs one instr() test per scoped column. instr matches the search text
// literally; lower() in SQLite folds ASCII only.
func buildListQuery(f domain.Filter) (string, []any) {
	const base = `SELECT id, name, phone, email FROM contacts`
	if f.IsEmpty() {
		return base + ` ORDER BY id`, nil
	}

	cols := f.Scope.Columns()
	conds := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, col := range cols {
		if f.CaseSensitive {
			conds = append(conds, fmt.Sprintf("instr(%s, ?) > 0", col))
		} else {
			conds = append(conds, fmt.Sprintf("instr(lower(%s), lower(?)) > 0", col))
		}
		args = append(args, f.Search)
	}
	return base + ` WHERE ` + strings.Join(conds, " OR ") + ` ORDER BY id`, args
}

func (r *ContactRepository) Update(ctx context.Context, ct *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `UPDATE contacts SET name = ?, phone = ?, email = ? WHERE id = ?`,
		ct.Name, ct.Phone, ct.Email, ct.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating contact", "error", err, "contact_id", ct.ID)
		return domain.NewStorageError("update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStorageError("update", err)
	}
	if n == 0 {
		r.logger.WarnContext(ctx, "Contact not found for update", "contact_id", ct.ID)
		return domain.ErrNotFound
	}
	r.logger.InfoContext(ctx, "Contact updated successfully", "contact_id", ct.ID)
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error deleting contact", "error", err, "contact_id", id)
		return domain.NewStorageError("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStorageError("delete", err)
	}
	if n == 0 {
		r.logger.DebugContext(ctx, "Delete matched no contact", "contact_id", id)
		return nil
	}
	r.logger.InfoContext(ctx, "Contact deleted successfully", "contact_id", id)
	return nil
}
