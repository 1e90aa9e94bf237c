package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
	"github.com/aradsms/contactbook/internal/contact_service/repository/repotest"
	"github.com/aradsms/contactbook/internal/platform/database"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestContactRepository_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) domain.ContactRepository {
		ctx := context.Background()
		db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "contacts.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		repo := NewContactRepository(db, testLogger())
		require.NoError(t, repo.EnsureSchema(ctx))
		return repo
	})
}

func TestContactRepository_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "contacts.db")

	db, err := database.OpenSQLite(ctx, path)
	require.NoError(t, err)
	repo := NewContactRepository(db, testLogger())
	require.NoError(t, repo.EnsureSchema(ctx))
	ct := &domain.Contact{Name: "Alice", Phone: "111", Email: "a@x.com"}
	require.NoError(t, repo.Create(ctx, ct))
	require.NoError(t, db.Close())

	db, err = database.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	repo = NewContactRepository(db, testLogger())
	require.NoError(t, repo.EnsureSchema(ctx))

	all, err := repo.List(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []*domain.Contact{ct}, all)
}

func setupMockDB(t *testing.T) (*ContactRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContactRepository(db, testLogger()), mock
}

func TestContactRepository_StorageErrors(t *testing.T) {
	ctx := context.Background()
	ioErr := errors.New("disk I/O error")

	t.Run("Create", func(t *testing.T) {
		repo, mock := setupMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO contacts (name, phone, email) VALUES (?, ?, ?)`)).
			WithArgs("A", "1", "e").
			WillReturnError(ioErr)

		err := repo.Create(ctx, &domain.Contact{Name: "A", Phone: "1", Email: "e"})
		var serr *domain.StorageError
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, "create", serr.Op)
		assert.ErrorIs(t, err, ioErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("List", func(t *testing.T) {
		repo, mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, phone, email FROM contacts WHERE instr(lower(name), lower(?)) > 0 ORDER BY id`)).
			WithArgs("al").
			WillReturnError(ioErr)

		_, err := repo.List(ctx, domain.Filter{Search: "al", Scope: domain.ScopeName})
		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListRowError", func(t *testing.T) {
		repo, mock := setupMockDB(t)
		rows := sqlmock.NewRows([]string{"id", "name", "phone", "email"}).
			AddRow(int64(1), "Alice", "111", "a@x.com").
			RowError(0, ioErr)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, phone, email FROM contacts ORDER BY id`)).
			WillReturnRows(rows)

		_, err := repo.List(ctx, domain.Filter{})
		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Update", func(t *testing.T) {
		repo, mock := setupMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE contacts SET name = ?, phone = ?, email = ? WHERE id = ?`)).
			WithArgs("A", "1", "e", int64(3)).
			WillReturnError(ioErr)

		err := repo.Update(ctx, &domain.Contact{ID: 3, Name: "A", Phone: "1", Email: "e"})
		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete", func(t *testing.T) {
		repo, mock := setupMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM contacts WHERE id = ?`)).
			WithArgs(int64(3)).
			WillReturnError(ioErr)

		assert.ErrorIs(t, repo.Delete(ctx, 3), domain.ErrStorage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteRowsAffected", func(t *testing.T) {
		repo, mock := setupMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM contacts WHERE id = ?`)).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewErrorResult(ioErr))

		err := repo.Delete(ctx, 3)
		var serr *domain.StorageError
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, "delete", serr.Op)
		assert.ErrorIs(t, err, ioErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBuildListQuery(t *testing.T) {
	q, args := buildListQuery(domain.Filter{Search: "x"})
	assert.Equal(t,
		`SELECT id, name, phone, email FROM contacts WHERE instr(lower(name), lower(?)) > 0 OR instr(lower(phone), lower(?)) > 0 OR instr(lower(email), lower(?)) > 0 ORDER BY id`,
		q)
	assert.Equal(t, []any{"x", "x", "x"}, args)
}
