package dto

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mrops-br/product-explorer/internal/domain"
)

// ErrInvalidRequest marks a request rejected by validation
var ErrInvalidRequest = errors.New("invalid request")

var validate = validator.New(validator.WithRequiredStructEnabled())

// ListProductsRequest represents the query of a catalog page request.
// Zero Page and PageSize mean first page and configured size.
type ListProductsRequest struct {
	Search        string `validate:"max=200"`
	Category      string `validate:"max=100"`
	FavoritesOnly bool
	Sort          string `validate:"omitempty,oneof=default asc desc"`
	Page          int    `validate:"gte=0"`
	PageSize      int    `validate:"gte=0,lte=100"`
}

// Validate checks the request against its constraints
func (r *ListProductsRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// Filter converts the request into pipeline filters
func (r *ListProductsRequest) Filter() (domain.FilterState, error) {
	order, err := domain.ParseSortOrder(r.Sort)
	if err != nil {
		return domain.FilterState{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return domain.FilterState{
		SearchText:    r.Search,
		Category:      r.Category,
		FavoritesOnly: r.FavoritesOnly,
		SortOrder:     order,
	}, nil
}

// RatingResponse represents a product rating
type RatingResponse struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID           int            `json:"id"`
	Title        string         `json:"title"`
	Price        float64        `json:"price"`
	PriceDisplay string         `json:"price_display"`
	Category     string         `json:"category"`
	Image        string         `json:"image"`
	Description  string         `json:"description"`
	Rating       RatingResponse `json:"rating"`
	Favorite     bool           `json:"favorite"`
}

// ProductPageResponse is one rendered page of the filtered catalog
type ProductPageResponse struct {
	Items         []*ProductResponse `json:"items"`
	TotalCount    int                `json:"total_count"`
	TotalPages    int                `json:"total_pages"`
	Page          int                `json:"page"`
	PageSize      int                `json:"page_size"`
	RangeStart    int                `json:"range_start"`
	RangeEnd      int                `json:"range_end"`
	PageWindow    []int              `json:"page_window"`
	ActiveFilters []string           `json:"active_filters"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product, favorites domain.FavoriteSet) *ProductResponse {
	return &ProductResponse{
		ID:           p.ID,
		Title:        p.Title,
		Price:        p.Price.InexactFloat64(),
		PriceDisplay: "$" + p.Price.StringFixed(2),
		Category:     p.Category,
		Image:        p.Image,
		Description:  p.Description,
		Rating: RatingResponse{
			Rate:  p.Rating.Rate,
			Count: p.Rating.Count,
		},
		Favorite: favorites.Contains(p.ID),
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []domain.Product, favorites domain.FavoriteSet) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i], favorites)
	}
	return responses
}
