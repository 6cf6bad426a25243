package domain

// Page is a fixed-size slice of a fully loaded, ordered list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// Paginate slices items into 1-based pages of size. Pages past the end clamp to the last page.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = 10
	}
	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * size
	end := min(start+size, total)
	out := make([]T, 0, end-start)
	out = append(out, items[start:end]...)
	return Page[T]{Items: out, Page: page, TotalPages: totalPages, TotalItems: total}
}
