package domain

import (
	"github.com/shopspring/decimal"
)

// Product is a catalog entry as served by the remote catalog API.
// Products are immutable once fetched.
type Product struct {
	ID          int
	Title       string
	Price       decimal.Decimal
	Category    string
	Image       string
	Description string
	Rating      Rating
}

// Rating is the aggregated review score of a product
type Rating struct {
	Rate  float64
	Count int
}

// FavoriteSet is the set of product identifiers marked as favorite
type FavoriteSet map[int]struct{}

// NewFavoriteSet builds a set from the given ids, dropping duplicates
func NewFavoriteSet(ids ...int) FavoriteSet {
	set := make(FavoriteSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is in the set. A nil set contains nothing.
func (s FavoriteSet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of favorites
func (s FavoriteSet) Len() int {
	return len(s)
}
