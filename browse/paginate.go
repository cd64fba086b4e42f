package browse

import "webbuses/models"

// PageCount is ceil(n/size), never below 1: an empty grid still reads
// "page 1 of 1".
func PageCount(n, size int) int {
	if size <= 0 {
		return 1
	}
	count := (n + size - 1) / size
	if count < 1 {
		return 1
	}
	return count
}

// Paginate slices one fixed-size page out of a collection. Page indexes
// are 1-based; an out-of-range index yields page 1, matching the grid's
// reset-on-change behavior.
func Paginate(items []models.Listing, size, page int) ([]models.Listing, int) {
	count := PageCount(len(items), size)
	if page < 1 || page > count {
		page = 1
	}

	start := (page - 1) * size
	if start >= len(items) {
		return nil, count
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], count
}
