package query

import "github.com/JRocha1994/archi-track/internal/domain/revision"

// PageSizes are the selectable page sizes.
var PageSizes = []int{100, 500, 1000}

// DefaultPageSize is used when a requested size isn't one of PageSizes.
const DefaultPageSize = 100

// NormalizePageSize returns size when it is a preset, DefaultPageSize otherwise.
func NormalizePageSize(size int) int {
	for _, preset := range PageSizes {
		if size == preset {
			return size
		}
	}
	return DefaultPageSize
}

// TotalPages is ceil(count/size), at least 1.
func TotalPages(count, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage bounds page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Page is one slice of an ordered collection.
type Page struct {
	Items      []revision.Revision `json:"items"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
	Total      int                 `json:"total"`
}

// IDs returns the ids of the page's items.
func (p Page) IDs() []string {
	ids := make([]string, len(p.Items))
	for i, rev := range p.Items {
		ids[i] = rev.ID
	}
	return ids
}

// Paginate slices the 1-based page out of revs. Out-of-range pages are clamped.
func Paginate(revs []revision.Revision, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(revs)
	pages := TotalPages(total, size)
	page = ClampPage(page, pages)

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	items := make([]revision.Revision, 0, end-start)
	items = append(items, revs[start:end]...)
	return Page{Items: items, Page: page, PageSize: size, TotalPages: pages, Total: total}
}
