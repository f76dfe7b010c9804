package domain

import (
	"slices"
	"strings"
)

// DefaultPageSize is used whenever a page size is missing or not positive
const DefaultPageSize = 8

// SortOrder controls price ordering of the filtered set
type SortOrder string

const (
	SortUnset      SortOrder = ""
	SortDefault    SortOrder = "default"
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ParseSortOrder converts a raw sort parameter into a SortOrder
func ParseSortOrder(raw string) (SortOrder, error) {
	switch order := SortOrder(raw); order {
	case SortUnset, SortDefault, SortAscending, SortDescending:
		return order, nil
	default:
		return SortUnset, ErrInvalidSortOrder
	}
}

// FilterState holds the user's active filters.
// An empty Category means no category is selected.
type FilterState struct {
	SearchText    string
	Category      string
	FavoritesOnly bool
	SortOrder     SortOrder
}

// Active lists the active filters as short labels, in display order
func (f FilterState) Active() []string {
	active := make([]string, 0, 4)
	if f.FavoritesOnly {
		active = append(active, "favorites")
	}
	if f.SortOrder == SortAscending || f.SortOrder == SortDescending {
		active = append(active, "sort:"+string(f.SortOrder))
	}
	if f.Category != "" {
		active = append(active, "category:"+f.Category)
	}
	if strings.TrimSpace(f.SearchText) != "" {
		active = append(active, "search:"+f.SearchText)
	}
	return active
}

// PageState selects one page of the filtered set. Pages are 1-based.
type PageState struct {
	CurrentPage int
	PageSize    int
}

// PageResult is what the presentation layer renders
type PageResult struct {
	Items      []Product
	TotalCount int
	TotalPages int
	Page       int
	PageSize   int
	// RangeStart and RangeEnd are the 1-based inclusive positions of Items
	// within the filtered set, both 0 when Items is empty.
	RangeStart int
	RangeEnd   int
}

// Select applies the favorites, category and search predicates in that order,
// then sorts by price when an explicit direction is requested.
// The input slice is never modified.
func Select(products []Product, filter FilterState, favorites FavoriteSet) []Product {
	query := ""
	if strings.TrimSpace(filter.SearchText) != "" {
		query = strings.ToLower(filter.SearchText)
	}

	selected := make([]Product, 0, len(products))
	for _, p := range products {
		if filter.FavoritesOnly && !favorites.Contains(p.ID) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Title), query) {
			continue
		}
		selected = append(selected, p)
	}

	switch filter.SortOrder {
	case SortAscending:
		slices.SortStableFunc(selected, func(a, b Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortDescending:
		slices.SortStableFunc(selected, func(a, b Product) int {
			return b.Price.Cmp(a.Price)
		})
	}

	return selected
}

// TotalPages returns max(1, ceil(count/pageSize))
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := count / pageSize
	if count%pageSize > 0 {
		pages++
	}
	return max(1, pages)
}

// ClampPage bounds page to [1, totalPages]
func ClampPage(page, totalPages int) int {
	return min(max(1, page), max(1, totalPages))
}

// Paginate slices items at [(page-1)*size, page*size).
// Pages outside [1, TotalPages] yield no items; the page is not clamped here.
func Paginate(items []Product, page PageState) PageResult {
	size := page.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	result := PageResult{
		Items:      []Product{},
		TotalCount: len(items),
		TotalPages: TotalPages(len(items), size),
		Page:       page.CurrentPage,
		PageSize:   size,
	}

	// Bounds are checked against the page count so the offset cannot overflow
	if len(items) == 0 || page.CurrentPage < 1 || page.CurrentPage > result.TotalPages {
		return result
	}

	start := (page.CurrentPage - 1) * size
	end := start + min(size, len(items)-start)

	result.Items = items[start:end]
	result.RangeStart = start + 1
	result.RangeEnd = end
	return result
}

// Run is the full filter, sort and paginate pipeline
func Run(products []Product, filter FilterState, favorites FavoriteSet, page PageState) PageResult {
	return Paginate(Select(products, filter, favorites), page)
}

// PageWindow returns up to maxButtons consecutive page numbers around current,
// shifted so the window stays inside [1, total].
func PageWindow(current, total, maxButtons int) []int {
	if total < 1 || maxButtons < 1 {
		return []int{}
	}

	maxButtons = min(maxButtons, total)
	current = ClampPage(current, total)

	half := maxButtons / 2
	start := max(1, current-half)
	end := min(total, start+maxButtons-1)
	if end-start+1 < maxButtons {
		start = max(1, end-maxButtons+1)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
