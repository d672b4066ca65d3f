package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// Key layout shared with the invalidation paths. Detail keys are deleted
// synchronously by catalog mutations; listing keys only ever expire.
func BookKey(id uuid.UUID) string {
	return fmt.Sprintf("book:%s", id)
}

func BookListKey(page, perPage int, query, category string) string {
	return fmt.Sprintf("books:page=%d:per_page=%d:q=%s:cat=%s", page, perPage, query, category)
}
