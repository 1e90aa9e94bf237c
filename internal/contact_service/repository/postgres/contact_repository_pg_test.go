package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

var contactColumns = []string{"id", "name", "phone", "email"}

func newMockRepo(t *testing.T) (*PgContactRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPgContactRepository(mockPool, logger), mockPool
}

func TestPgContactRepository_EnsureSchema(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	mockPool.ExpectExec(`CREATE TABLE IF NOT EXISTS contacts`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgContactRepository_Create(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO contacts (name, phone, email) VALUES ($1, $2, $3) RETURNING id`)

	t.Run("Success", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectQuery(query).
			WithArgs("Alice", "111", "a@x.com").
			WillReturnRows(mockPool.NewRows([]string{"id"}).AddRow(int64(7)))

		ct := &domain.Contact{Name: "Alice", Phone: "111", Email: "a@x.com"}
		require.NoError(t, repo.Create(ctx, ct))
		assert.Equal(t, int64(7), ct.ID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		dbErr := errors.New("connection reset")
		mockPool.ExpectQuery(query).
			WithArgs("Alice", "111", "a@x.com").
			WillReturnError(dbErr)

		err := repo.Create(ctx, &domain.Contact{Name: "Alice", Phone: "111", Email: "a@x.com"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrStorage))
		assert.True(t, errors.Is(err, dbErr))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgContactRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT id, name, phone, email FROM contacts WHERE id = $1`)

	t.Run("Found", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectQuery(query).WithArgs(int64(1)).
			WillReturnRows(mockPool.NewRows(contactColumns).AddRow(int64(1), "Alice", "111", "a@x.com"))

		ct, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, &domain.Contact{ID: 1, Name: "Alice", Phone: "111", Email: "a@x.com"}, ct)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectQuery(query).WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgContactRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptySearchListsAllInIDOrder", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, phone, email FROM contacts ORDER BY id`)).
			WillReturnRows(mockPool.NewRows(contactColumns).
				AddRow(int64(1), "Alice", "111", "a@x.com").
				AddRow(int64(2), "Bob", "222", "b@x.com"))

		got, err := repo.List(ctx, domain.Filter{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Alice", got[0].Name)
		assert.Equal(t, "Bob", got[1].Name)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NameScopeFoldsCase", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectQuery(regexp.QuoteMeta(`WHERE strpos(`+foldASCII("name")+`, `+foldASCII("$1")+`) > 0 ORDER BY id`)).
			WithArgs("ali").
			WillReturnRows(mockPool.NewRows(contactColumns).AddRow(int64(1), "Alice", "111", "a@x.com"))

		got, err := repo.List(ctx, domain.Filter{Search: "ali", Scope: domain.ScopeName})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NoMatchIsEmptyNotNil", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectQuery(regexp.QuoteMeta(`WHERE strpos(phone, $1) > 0 ORDER BY id`)).
			WithArgs("999").
			WillReturnRows(mockPool.NewRows(contactColumns))

		got, err := repo.List(ctx, domain.Filter{Search: "999", Scope: domain.ScopePhone, CaseSensitive: true})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("QueryError", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectQuery(`SELECT id, name, phone, email FROM contacts`).
			WillReturnError(errors.New("boom"))

		_, err := repo.List(ctx, domain.Filter{})
		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestBuildListQuery(t *testing.T) {
	q, args := buildListQuery(domain.Filter{Search: "x", Scope: domain.ScopeAll, CaseSensitive: true})
	assert.Equal(t,
		`SELECT id, name, phone, email FROM contacts WHERE strpos(name, $1) > 0 OR strpos(phone, $1) > 0 OR strpos(email, $1) > 0 ORDER BY id`,
		q)
	assert.Equal(t, []any{"x"}, args)

	q, args = buildListQuery(domain.Filter{Search: "É", Scope: domain.ScopeName})
	assert.Equal(t,
		`SELECT id, name, phone, email FROM contacts WHERE strpos(translate(name, 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), translate($1, 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz')) > 0 ORDER BY id`,
		q)
	assert.NotContains(t, q, "lower(")
	assert.Equal(t, []any{"É"}, args)

	q, args = buildListQuery(domain.Filter{})
	assert.Equal(t, `SELECT id, name, phone, email FROM contacts ORDER BY id`, q)
	assert.Nil(t, args)
}

func TestPgContactRepository_Update(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`UPDATE contacts SET name = $1, phone = $2, email = $3 WHERE id = $4`)

	t.Run("Success", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectExec(query).WithArgs("Al", "333", "al@x.com", int64(1)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.Update(ctx, &domain.Contact{ID: 1, Name: "Al", Phone: "333", Email: "al@x.com"}))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectExec(query).WithArgs("Al", "333", "al@x.com", int64(42)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(ctx, &domain.Contact{ID: 42, Name: "Al", Phone: "333", Email: "al@x.com"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgContactRepository_Delete(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`DELETE FROM contacts WHERE id = $1`)

	t.Run("Existing", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectExec(query).WithArgs(int64(1)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		require.NoError(t, repo.Delete(ctx, 1))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("MissingIsNoop", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectExec(query).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		require.NoError(t, repo.Delete(ctx, 5))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectExec(query).WithArgs(int64(5)).WillReturnError(errors.New("read-only"))
		assert.ErrorIs(t, repo.Delete(ctx, 5), domain.ErrStorage)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
