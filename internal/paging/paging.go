// Package paging normalizes 1-indexed page windows for list queries.
package paging

const defaultPageSize = 10

// Normalize clamps page to at least 1 and falls back to the default page
// size when the requested size is not positive.
func Normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	return page, pageSize
}

// Offset converts a 1-indexed page window into a row offset.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
