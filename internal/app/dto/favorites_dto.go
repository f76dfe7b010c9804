package dto

// FavoritesResponse lists favorite product ids in stored order
type FavoritesResponse struct {
	IDs []int `json:"ids"`
}

// FavoriteStatusResponse reports the membership of one product
type FavoriteStatusResponse struct {
	ID       int  `json:"id"`
	Favorite bool `json:"favorite"`
}
