package domain_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/mrops-br/product-explorer/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int, price float64, title, category string) domain.Product {
	return domain.Product{
		ID:       id,
		Title:    title,
		Price:    decimal.NewFromFloat(price),
		Category: category,
	}
}

func sampleCatalog() []domain.Product {
	return []domain.Product{
		product(1, 10, "Red Shoe", "shoes"),
		product(2, 5, "Blue Shoe", "shoes"),
		product(3, 20, "Red Hat", "hats"),
	}
}

func ids(products []domain.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestSelect_SearchKeepsCatalogOrder(t *testing.T) {
	got := domain.Select(sampleCatalog(), domain.FilterState{SearchText: "red"}, nil)
	assert.Equal(t, []int{1, 3}, ids(got))

	got = domain.Select(sampleCatalog(), domain.FilterState{SearchText: "red", SortOrder: domain.SortAscending}, nil)
	assert.Equal(t, []int{1, 3}, ids(got))

	got = domain.Select(sampleCatalog(), domain.FilterState{SearchText: "RED", SortOrder: domain.SortDescending}, nil)
	assert.Equal(t, []int{3, 1}, ids(got))
}

func TestSelect_FavoritesOnly(t *testing.T) {
	favorites := domain.NewFavoriteSet(2)

	for _, order := range []domain.SortOrder{domain.SortUnset, domain.SortDefault, domain.SortAscending, domain.SortDescending} {
		got := domain.Select(sampleCatalog(), domain.FilterState{FavoritesOnly: true, SortOrder: order}, favorites)
		assert.Equal(t, []int{2}, ids(got), "sort %q", order)
	}

	got := domain.Select(sampleCatalog(), domain.FilterState{FavoritesOnly: true}, nil)
	assert.Empty(t, got)
}

func TestSelect_Predicates(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.FilterState
		want   []int
	}{
		{"no filters", domain.FilterState{}, []int{1, 2, 3}},
		{"blank search is ignored", domain.FilterState{SearchText: "   "}, []int{1, 2, 3}},
		{"category exact match", domain.FilterState{Category: "shoes"}, []int{1, 2}},
		{"category is case sensitive", domain.FilterState{Category: "Shoes"}, []int{}},
		{"unknown category", domain.FilterState{Category: "bags"}, []int{}},
		{"category and search", domain.FilterState{Category: "shoes", SearchText: "blue"}, []int{2}},
		{"ascending price", domain.FilterState{SortOrder: domain.SortAscending}, []int{2, 1, 3}},
		{"descending price", domain.FilterState{SortOrder: domain.SortDescending}, []int{3, 1, 2}},
		{"default keeps catalog order", domain.FilterState{SortOrder: domain.SortDefault}, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(domain.Select(sampleCatalog(), tt.filter, nil)))
		})
	}
}

func TestSelect_StableOnPriceTies(t *testing.T) {
	catalog := []domain.Product{
		product(1, 5, "a", "x"),
		product(2, 3, "b", "x"),
		product(3, 5, "c", "x"),
		product(4, 3, "d", "x"),
	}

	asc := domain.Select(catalog, domain.FilterState{SortOrder: domain.SortAscending}, nil)
	assert.Equal(t, []int{2, 4, 1, 3}, ids(asc))

	desc := domain.Select(catalog, domain.FilterState{SortOrder: domain.SortDescending}, nil)
	assert.Equal(t, []int{1, 3, 2, 4}, ids(desc))
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	catalog := sampleCatalog()
	domain.Select(catalog, domain.FilterState{SortOrder: domain.SortDescending}, nil)
	assert.Equal(t, []int{1, 2, 3}, ids(catalog))
}

func TestRun_EmptyCatalog(t *testing.T) {
	filters := []domain.FilterState{
		{},
		{SearchText: "red", Category: "hats", FavoritesOnly: true, SortOrder: domain.SortDescending},
	}
	for _, f := range filters {
		result := domain.Run(nil, f, domain.NewFavoriteSet(1), domain.PageState{CurrentPage: 1, PageSize: 8})
		assert.NotNil(t, result.Items)
		assert.Empty(t, result.Items)
		assert.Equal(t, 0, result.TotalCount)
		assert.Equal(t, 1, result.TotalPages)
		assert.Equal(t, 0, result.RangeStart)
		assert.Equal(t, 0, result.RangeEnd)
	}
}

func TestPaginate_LastPartialPage(t *testing.T) {
	catalog := make([]domain.Product, 17)
	for i := range catalog {
		catalog[i] = product(i+1, float64(i), fmt.Sprintf("item %d", i+1), "x")
	}

	result := domain.Paginate(catalog, domain.PageState{CurrentPage: 3, PageSize: 8})
	require.Len(t, result.Items, 1)
	assert.Equal(t, 17, result.Items[0].ID)
	assert.Equal(t, 17, result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 17, result.RangeStart)
	assert.Equal(t, 17, result.RangeEnd)

	result = domain.Paginate(catalog, domain.PageState{CurrentPage: 2, PageSize: 8})
	assert.Equal(t, []int{9, 10, 11, 12, 13, 14, 15, 16}, ids(result.Items))
	assert.Equal(t, 9, result.RangeStart)
	assert.Equal(t, 16, result.RangeEnd)
}

func TestPaginate_OutOfRangeIsNotClamped(t *testing.T) {
	catalog := sampleCatalog()

	result := domain.Paginate(catalog, domain.PageState{CurrentPage: 5, PageSize: 2})
	assert.Empty(t, result.Items)
	assert.Equal(t, 5, result.Page)
	assert.Equal(t, 2, result.TotalPages)

	result = domain.Paginate(catalog, domain.PageState{CurrentPage: 0, PageSize: 2})
	assert.Empty(t, result.Items)
}

func TestPaginate_HugePageOrSize(t *testing.T) {
	tests := []struct {
		name      string
		page      domain.PageState
		wantItems []int
		wantPages int
	}{
		{"max page", domain.PageState{CurrentPage: math.MaxInt, PageSize: 8}, []int{}, 1},
		{"min page", domain.PageState{CurrentPage: math.MinInt, PageSize: 8}, []int{}, 1},
		{"huge size, later page", domain.PageState{CurrentPage: 3, PageSize: math.MaxInt/2 + 1}, []int{}, 1},
		{"max size, first page", domain.PageState{CurrentPage: 1, PageSize: math.MaxInt}, []int{1, 2, 3}, 1},
		{"max page and size", domain.PageState{CurrentPage: math.MaxInt, PageSize: math.MaxInt}, []int{}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result domain.PageResult
			require.NotPanics(t, func() {
				result = domain.Run(sampleCatalog(), domain.FilterState{}, nil, tt.page)
			})
			assert.Equal(t, tt.wantItems, ids(result.Items))
			assert.Equal(t, tt.wantPages, result.TotalPages)
			assert.Equal(t, 3, result.TotalCount)
		})
	}
}

func TestPaginate_DefaultPageSize(t *testing.T) {
	result := domain.Paginate(sampleCatalog(), domain.PageState{CurrentPage: 1})
	assert.Equal(t, domain.DefaultPageSize, result.PageSize)
	assert.Len(t, result.Items, 3)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{0, 8, 1},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{17, 8, 3},
		{20, 1, 20},
		{5, 0, 1},
		{3, math.MaxInt, 1},
		{math.MaxInt, 1, math.MaxInt},
		{math.MaxInt, 2, math.MaxInt/2 + 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.TotalPages(tt.count, tt.size), "count=%d size=%d", tt.count, tt.size)
	}
}

func TestRun_PageItemsAreBoundedSubsequence(t *testing.T) {
	catalog := make([]domain.Product, 0, 30)
	for i := 1; i <= 30; i++ {
		category := "even"
		if i%2 == 1 {
			category = "odd"
		}
		catalog = append(catalog, product(i, float64(i%7), fmt.Sprintf("Item %d", i), category))
	}
	favorites := domain.NewFavoriteSet(1, 2, 3, 10, 11, 21)

	filters := []domain.FilterState{
		{},
		{Category: "odd"},
		{FavoritesOnly: true},
		{SearchText: "item 1"},
		{SearchText: "1", SortOrder: domain.SortAscending},
		{Category: "even", SortOrder: domain.SortDescending},
	}

	for _, f := range filters {
		for _, size := range []int{1, 3, 8, 50} {
			filtered := domain.Select(catalog, f, favorites)
			pages := domain.TotalPages(len(filtered), size)
			seen := 0
			for page := 1; page <= pages; page++ {
				result := domain.Run(catalog, f, favorites, domain.PageState{CurrentPage: page, PageSize: size})
				assert.LessOrEqual(t, len(result.Items), size)
				assert.Equal(t, len(filtered), result.TotalCount)
				assert.Equal(t, pages, result.TotalPages)
				assert.Equal(t, filtered[seen:seen+len(result.Items)], result.Items)
				seen += len(result.Items)
			}
			assert.Equal(t, len(filtered), seen)
		}
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, domain.ClampPage(0, 3))
	assert.Equal(t, 1, domain.ClampPage(-4, 3))
	assert.Equal(t, 2, domain.ClampPage(2, 3))
	assert.Equal(t, 3, domain.ClampPage(9, 3))
	assert.Equal(t, 1, domain.ClampPage(9, 0))
}

func TestPageWindow(t *testing.T) {
	assert.Equal(t, []int{1}, domain.PageWindow(1, 1, 5))
	assert.Equal(t, []int{1, 2, 3}, domain.PageWindow(2, 3, 5))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, domain.PageWindow(1, 10, 5))
	assert.Equal(t, []int{3, 4, 5, 6, 7}, domain.PageWindow(5, 10, 5))
	assert.Equal(t, []int{6, 7, 8, 9, 10}, domain.PageWindow(10, 10, 5))
	assert.Empty(t, domain.PageWindow(1, 0, 5))
	assert.Equal(t, []int{1, 2, 3}, domain.PageWindow(math.MaxInt, 3, math.MaxInt))
	assert.Equal(t, []int{1, 2}, domain.PageWindow(math.MinInt, 10, 2))
}

func TestParseSortOrder(t *testing.T) {
	for _, raw := range []string{"", "default", "asc", "desc"} {
		order, err := domain.ParseSortOrder(raw)
		require.NoError(t, err)
		assert.Equal(t, domain.SortOrder(raw), order)
	}

	_, err := domain.ParseSortOrder("price")
	assert.ErrorIs(t, err, domain.ErrInvalidSortOrder)
}

func TestFilterState_Active(t *testing.T) {
	assert.Empty(t, domain.FilterState{SortOrder: domain.SortDefault}.Active())

	f := domain.FilterState{
		SearchText:    "red",
		Category:      "hats",
		FavoritesOnly: true,
		SortOrder:     domain.SortAscending,
	}
	assert.Equal(t, []string{"favorites", "sort:asc", "category:hats", "search:red"}, f.Active())
}

func ExampleRun() {
	catalog := []domain.Product{
		{ID: 1, Title: "Red Shoe", Price: decimal.NewFromInt(10), Category: "shoes"},
		{ID: 2, Title: "Blue Shoe", Price: decimal.NewFromInt(5), Category: "shoes"},
		{ID: 3, Title: "Red Hat", Price: decimal.NewFromInt(20), Category: "hats"},
	}

	result := domain.Run(catalog,
		domain.FilterState{SearchText: "red", SortOrder: domain.SortDescending},
		nil,
		domain.PageState{CurrentPage: 1, PageSize: 8},
	)
	for _, p := range result.Items {
		fmt.Println(p.ID, p.Title, p.Price)
	}
	fmt.Println("pages:", result.TotalPages)
	// Output:
	// 3 Red Hat 20
	// 1 Red Shoe 10
	// pages: 1
}
