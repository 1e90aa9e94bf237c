// Package repotest holds behaviour checks shared by every ContactRepository implementation.
package repotest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// Run exercises repo-level contact semantics against a fresh repository from newRepo.
func Run(t *testing.T, newRepo func(t *testing.T) domain.ContactRepository) {
	ctx := context.Background()

	seed := func(t *testing.T, repo domain.ContactRepository) (alice, bob *domain.Contact) {
		t.Helper()
		alice = &domain.Contact{Name: "Alice", Phone: "111", Email: "a@x.com"}
		bob = &domain.Contact{Name: "Bob", Phone: "222", Email: "b@x.com"}
		require.NoError(t, repo.Create(ctx, alice))
		require.NoError(t, repo.Create(ctx, bob))
		return alice, bob
	}

	t.Run("CreateAssignsIncreasingIDs", func(t *testing.T) {
		repo := newRepo(t)
		alice, bob := seed(t, repo)
		assert.NotZero(t, alice.ID)
		assert.Greater(t, bob.ID, alice.ID)

		all, err := repo.List(ctx, domain.Filter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, alice, all[0])
		assert.Equal(t, bob, all[1])
	})

	t.Run("IDsNotReusedAfterDelete", func(t *testing.T) {
		repo := newRepo(t)
		_, bob := seed(t, repo)
		require.NoError(t, repo.Delete(ctx, bob.ID))

		carol := &domain.Contact{Name: "Carol", Phone: "333", Email: "c@x.com"}
		require.NoError(t, repo.Create(ctx, carol))
		assert.Greater(t, carol.ID, bob.ID)
	})

	t.Run("SearchByScope", func(t *testing.T) {
		repo := newRepo(t)
		alice, bob := seed(t, repo)

		got, err := repo.List(ctx, domain.Filter{Search: "ali", Scope: domain.ScopeName})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Contact{alice}, got)

		got, err = repo.List(ctx, domain.Filter{Search: "222", Scope: domain.ScopePhone})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Contact{bob}, got)

		got, err = repo.List(ctx, domain.Filter{Search: "222", Scope: domain.ScopeName})
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = repo.List(ctx, domain.Filter{Search: "x.com", Scope: domain.ScopeAll})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = repo.List(ctx, domain.Filter{Search: "b@", Scope: domain.ScopeEmail})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Contact{bob}, got)
	})

	t.Run("CaseFolding", func(t *testing.T) {
		repo := newRepo(t)
		alice, _ := seed(t, repo)

		got, err := repo.List(ctx, domain.Filter{Search: "ALI", Scope: domain.ScopeName})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Contact{alice}, got)

		got, err = repo.List(ctx, domain.Filter{Search: "ALI", Scope: domain.ScopeName, CaseSensitive: true})
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = repo.List(ctx, domain.Filter{Search: "Ali", Scope: domain.ScopeName, CaseSensitive: true})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Contact{alice}, got)
	})

	t.Run("CaseFoldingIsASCIIOnly", func(t *testing.T) {
		repo := newRepo(t)
		emile := &domain.Contact{Name: "Émile", Phone: "333", Email: "e@x.com"}
		require.NoError(t, repo.Create(ctx, emile))

		got, err := repo.List(ctx, domain.Filter{Search: "émile", Scope: domain.ScopeName})
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = repo.List(ctx, domain.Filter{Search: "éMILE", Scope: domain.ScopeName})
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = repo.List(ctx, domain.Filter{Search: "ÉMILE", Scope: domain.ScopeName})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Contact{emile}, got)
	})

	t.Run("WildcardsAreLiteral", func(t *testing.T) {
		repo := newRepo(t)
		seed(t, repo)
		pct := &domain.Contact{Name: "100% Real", Phone: "444", Email: "p_q@x.com"}
		require.NoError(t, repo.Create(ctx, pct))

		got, err := repo.List(ctx, domain.Filter{Search: "%"})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Contact{pct}, got)

		got, err = repo.List(ctx, domain.Filter{Search: "_", Scope: domain.ScopeEmail})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Contact{pct}, got)
	})

	t.Run("GetByID", func(t *testing.T) {
		repo := newRepo(t)
		alice, _ := seed(t, repo)

		got, err := repo.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice, got)

		_, err = repo.GetByID(ctx, alice.ID+1000)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UpdateReplacesFieldsKeepsID", func(t *testing.T) {
		repo := newRepo(t)
		alice, bob := seed(t, repo)

		changed := &domain.Contact{ID: alice.ID, Name: "Alicia", Phone: "999", Email: "alicia@x.com"}
		require.NoError(t, repo.Update(ctx, changed))

		all, err := repo.List(ctx, domain.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Contact{changed, bob}, all)
	})

	t.Run("UpdateMissingIsNotFound", func(t *testing.T) {
		repo := newRepo(t)
		alice, bob := seed(t, repo)

		err := repo.Update(ctx, &domain.Contact{ID: bob.ID + 1000, Name: "X", Phone: "1", Email: "x"})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		all, err := repo.List(ctx, domain.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Contact{alice, bob}, all)
	})

	t.Run("DeleteRemovesExactlyOne", func(t *testing.T) {
		repo := newRepo(t)
		alice, bob := seed(t, repo)

		require.NoError(t, repo.Delete(ctx, alice.ID))
		all, err := repo.List(ctx, domain.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Contact{bob}, all)

		require.NoError(t, repo.Delete(ctx, alice.ID))
		require.NoError(t, repo.Delete(ctx, 123456))
		all, err = repo.List(ctx, domain.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []*domain.Contact{bob}, all)
	})

	t.Run("InsertThenDeleteAllLeavesEmpty", func(t *testing.T) {
		repo := newRepo(t)
		var ids []int64
		for i := 0; i < 10; i++ {
			ct := &domain.Contact{Name: fmt.Sprintf("n%d", i), Phone: fmt.Sprint(i), Email: "e"}
			require.NoError(t, repo.Create(ctx, ct))
			ids = append(ids, ct.ID)
		}
		for _, id := range ids {
			require.NoError(t, repo.Delete(ctx, id))
		}
		all, err := repo.List(ctx, domain.Filter{})
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("ConcurrentCreatesGetDistinctIDs", func(t *testing.T) {
		repo := newRepo(t)
		const n = 20
		ids := make(chan int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ct := &domain.Contact{Name: fmt.Sprintf("c%d", i), Phone: "1", Email: "e"}
				if assert.NoError(t, repo.Create(ctx, ct)) {
					ids <- ct.ID
				}
			}(i)
		}
		wg.Wait()
		close(ids)

		seen := map[int64]bool{}
		for id := range ids {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)
	})
}
