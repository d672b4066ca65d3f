//go:build unit

package queries_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"library-lending/internal/infra"
	"library-lending/internal/infra/cache"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBookStore tracks how often the backing store is hit so tests
// can tell cache hits from read-throughs.
type countingBookStore struct {
	mu        sync.Mutex
	books     map[uuid.UUID]*queries.BookView
	findCalls int
	listCalls int
}

func newCountingBookStore() *countingBookStore {
	return &countingBookStore{books: make(map[uuid.UUID]*queries.BookView)}
}

func (s *countingBookStore) add(title string) *queries.BookView {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := &queries.BookView{
		ID:     uuid.New(),
		Title:  title,
		Author: "Frank Herbert",
		ISBN:   "9780441172719",
	}
	s.books[view.ID] = view
	return view
}

func (s *countingBookStore) setTitle(id uuid.UUID, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[id].Title = title
}

func (s *countingBookStore) FindByID(_ context.Context, id uuid.UUID) (*queries.BookView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	b, ok := s.books[id]
	if !ok {
		return nil, infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}
	view := *b
	return &view, nil
}

func (s *countingBookStore) List(_ context.Context, _, _ string, limit, offset int32) ([]*queries.BookView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	var views []*queries.BookView
	for _, b := range s.books {
		view := *b
		views = append(views, &view)
	}
	start := int(offset)
	if start > len(views) {
		start = len(views)
	}
	end := start + int(limit)
	if end > len(views) {
		end = len(views)
	}
	return views[start:end], nil
}

func (s *countingBookStore) Count(_ context.Context, _, _ string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.books)), nil
}

const bookCacheTTL = 300 * time.Second

func newBookQueriesFixture(t *testing.T) (*countingBookStore, *cache.MemoryStore, *clock.MockClock, queries.BookQueries) {
	t.Helper()
	store := newCountingBookStore()
	mockClock := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	memCache := cache.NewMemoryStore(mockClock)
	return store, memCache, mockClock, queries.NewBookQueries(store, memCache, bookCacheTTL)
}

func TestBookQueries_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("second read is served from cache", func(t *testing.T) {
		store, _, _, q := newBookQueriesFixture(t)
		seeded := store.add("Dune")

		first, err := q.GetByID(ctx, seeded.ID)
		require.NoError(t, err)
		second, err := q.GetByID(ctx, seeded.ID)
		require.NoError(t, err)

		assert.Equal(t, 1, store.findCalls, "only the first read hits the store")
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("cached view differs from stored view (-first +second):\n%s", diff)
		}
	})

	t.Run("cached view can lag a direct store mutation until invalidated", func(t *testing.T) {
		store, memCache, _, q := newBookQueriesFixture(t)
		seeded := store.add("Dune")

		_, err := q.GetByID(ctx, seeded.ID)
		require.NoError(t, err)

		// A write that forgets to invalidate leaves the old title visible.
		store.setTitle(seeded.ID, "Dune Messiah")
		stale, err := q.GetByID(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", stale.Title)

		// Deleting the key bounds the staleness: the next read refills.
		memCache.Delete(ctx, cache.BookKey(seeded.ID))
		fresh, err := q.GetByID(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", fresh.Title)
	})

	t.Run("entry expires after the ttl", func(t *testing.T) {
		store, _, mockClock, q := newBookQueriesFixture(t)
		seeded := store.add("Dune")

		_, err := q.GetByID(ctx, seeded.ID)
		require.NoError(t, err)
		store.setTitle(seeded.ID, "Dune Messiah")

		mockClock.Add(bookCacheTTL + time.Second)
		fresh, err := q.GetByID(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", fresh.Title)
		assert.Equal(t, 2, store.findCalls)
	})

	t.Run("disabled cache degrades to plain store reads", func(t *testing.T) {
		store, memCache, _, q := newBookQueriesFixture(t)
		memCache.Disabled = true
		seeded := store.add("Dune")

		first, err := q.GetByID(ctx, seeded.ID)
		require.NoError(t, err)
		second, err := q.GetByID(ctx, seeded.ID)
		require.NoError(t, err)

		assert.Equal(t, 2, store.findCalls, "every read goes to the store")
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("uncached reads disagree (-first +second):\n%s", diff)
		}
	})

	t.Run("corrupt cache entry falls back to the store", func(t *testing.T) {
		store, memCache, _, q := newBookQueriesFixture(t)
		seeded := store.add("Dune")
		memCache.Set(ctx, cache.BookKey(seeded.ID), []byte("{not json"), bookCacheTTL)

		view, err := q.GetByID(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", view.Title)
		assert.Equal(t, 1, store.findCalls)
	})

	t.Run("unknown book", func(t *testing.T) {
		_, _, _, q := newBookQueriesFixture(t)
		_, err := q.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, queries.ErrBookNotFound)
	})
}

func TestBookQueries_List(t *testing.T) {
	ctx := context.Background()

	t.Run("pages are cached per filter", func(t *testing.T) {
		store, _, _, q := newBookQueriesFixture(t)
		store.add("Dune")
		store.add("Neuromancer")

		first, err := q.List(ctx, queries.ListBooksFilter{Page: 1, PerPage: 10})
		require.NoError(t, err)
		second, err := q.List(ctx, queries.ListBooksFilter{Page: 1, PerPage: 10})
		require.NoError(t, err)

		assert.Equal(t, 1, store.listCalls)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("cached page differs (-first +second):\n%s", diff)
		}

		// A different filter is a different key.
		_, err = q.List(ctx, queries.ListBooksFilter{Page: 2, PerPage: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, store.listCalls)
	})

	t.Run("filter normalization and page math", func(t *testing.T) {
		store, _, _, q := newBookQueriesFixture(t)
		for i := 0; i < 21; i++ {
			store.add("Book")
		}

		page, err := q.List(ctx, queries.ListBooksFilter{Page: 0, PerPage: 0})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 10, page.PerPage)
		assert.Equal(t, int64(21), page.TotalItems)
		assert.Equal(t, 3, page.TotalPages)
		assert.Len(t, page.Books, 10)

		page, err = q.List(ctx, queries.ListBooksFilter{Page: 1, PerPage: 1000})
		require.NoError(t, err)
		assert.Equal(t, 100, page.PerPage, "per_page is capped")
	})

	t.Run("listing pages only ever expire", func(t *testing.T) {
		store, _, mockClock, q := newBookQueriesFixture(t)
		store.add("Dune")

		_, err := q.List(ctx, queries.ListBooksFilter{Page: 1, PerPage: 10})
		require.NoError(t, err)
		store.add("Neuromancer")

		stale, err := q.List(ctx, queries.ListBooksFilter{Page: 1, PerPage: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), stale.TotalItems, "page stays stale inside the ttl")

		mockClock.Add(bookCacheTTL + time.Second)
		fresh, err := q.List(ctx, queries.ListBooksFilter{Page: 1, PerPage: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), fresh.TotalItems)
	})
}
