//go:build unit

package cache_test

import (
	"testing"

	"library-lending/internal/infra/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBookKey(t *testing.T) {
	id := uuid.MustParse("a2f1f9d4-7c83-4a2e-9a41-1f0dbd6c0f43")
	assert.Equal(t, "book:a2f1f9d4-7c83-4a2e-9a41-1f0dbd6c0f43", cache.BookKey(id))
}

func TestBookListKey(t *testing.T) {
	assert.Equal(t, "books:page=1:per_page=10:q=:cat=", cache.BookListKey(1, 10, "", ""))
	assert.Equal(t, "books:page=3:per_page=25:q=dune:cat=fiction", cache.BookListKey(3, 25, "dune", "fiction"))

	// Distinct filters must never share a key.
	assert.NotEqual(t, cache.BookListKey(1, 10, "dune", ""), cache.BookListKey(1, 10, "", "dune"))
}
