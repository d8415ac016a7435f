package question

// Paginate returns the 1-based page of items using PageSize. Out-of-range pages,
// including page < 1, yield an empty slice. Items are not reordered.
func Paginate[T any](items []T, page int) []T {
	pages := (len(items) + PageSize - 1) / PageSize
	if page < 1 || page > pages {
		return []T{}
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
