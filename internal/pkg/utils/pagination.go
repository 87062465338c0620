package utils

import (
	"fmt"
	"math"
)

// Offset returns the row offset of a 1-based page.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// TotalPages rounds up; zero rows is zero pages.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// Showing renders "first-last of total" for a page, e.g. "21-40 of 57".
func Showing(page, limit int, total int64) string {
	if total == 0 {
		return "0 of 0"
	}
	first := Offset(page, limit) + 1
	last := min(page*limit, int(total))
	return fmt.Sprintf("%d-%d of %d", first, last, total)
}
