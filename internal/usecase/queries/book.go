package queries

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"library-lending/internal/infra"
	"library-lending/internal/infra/cache"
	"library-lending/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound  = errs.New("book not found")
	ErrBookQueryFail = errs.New("failed to query books")
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type ListBooksFilter struct {
	Page     int
	PerPage  int
	Query    string
	Category string
}

type BookQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	List(ctx context.Context, filter ListBooksFilter) (*BookListPage, error)
}

type BookViewStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	List(ctx context.Context, query, category string, limit, offset int32) ([]*BookView, error)
	Count(ctx context.Context, query, category string) (int64, error)
}

type bookQueriesImpl struct {
	store BookViewStore
	cache cache.Store
	ttl   time.Duration
}

func NewBookQueries(store BookViewStore, cacheStore cache.Store, ttl time.Duration) BookQueries {
	return &bookQueriesImpl{
		store: store,
		cache: cacheStore,
		ttl:   ttl,
	}
}

// GetByID is read-through: the detail key is filled on miss and deleted
// synchronously by catalog mutations, so a hit is never staler than the
// last invalidation.
func (q *bookQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookView, error) {
	key := cache.BookKey(id)

	if raw, ok := q.cache.Get(ctx, key); ok {
		var view BookView
		if err := json.Unmarshal(raw, &view); err == nil {
			return &view, nil
		}
		slog.Warn("corrupt cache entry, falling back to store", "key", key)
	}

	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, errs.Mark(err, ErrBookQueryFail)
	}

	if raw, err := json.Marshal(view); err == nil {
		q.cache.Set(ctx, key, raw, q.ttl)
	}

	return view, nil
}

// List caches whole pages under filter-derived keys. Listing keys are
// never invalidated, they only expire, so a page may lag mutations by
// at most the TTL.
func (q *bookQueriesImpl) List(ctx context.Context, filter ListBooksFilter) (*BookListPage, error) {
	filter = normalizeFilter(filter)
	key := cache.BookListKey(filter.Page, filter.PerPage, filter.Query, filter.Category)

	if raw, ok := q.cache.Get(ctx, key); ok {
		var page BookListPage
		if err := json.Unmarshal(raw, &page); err == nil {
			return &page, nil
		}
		slog.Warn("corrupt cache entry, falling back to store", "key", key)
	}

	offset := int32((filter.Page - 1) * filter.PerPage)
	books, err := q.store.List(ctx, filter.Query, filter.Category, int32(filter.PerPage), offset)
	if err != nil {
		return nil, errs.Mark(err, ErrBookQueryFail)
	}

	total, err := q.store.Count(ctx, filter.Query, filter.Category)
	if err != nil {
		return nil, errs.Mark(err, ErrBookQueryFail)
	}

	page := &BookListPage{
		Books:      books,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalItems: total,
		TotalPages: int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage)),
	}

	if raw, err := json.Marshal(page); err == nil {
		q.cache.Set(ctx, key, raw, q.ttl)
	}

	return page, nil
}

func normalizeFilter(filter ListBooksFilter) ListBooksFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = defaultPerPage
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}
	return filter
}
