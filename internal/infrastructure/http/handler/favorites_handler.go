package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/product-explorer/internal/app/dto"
	"github.com/mrops-br/product-explorer/internal/app/service"
	"github.com/mrops-br/product-explorer/internal/infrastructure/http/response"
)

// FavoritesHandler handles HTTP requests for favorites
type FavoritesHandler struct {
	service *service.FavoritesService
	logger  *slog.Logger
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(service *service.FavoritesService, logger *slog.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /favorites
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, dto.FavoritesResponse{IDs: h.service.List(r.Context())})
}

// Status handles GET /favorites/{id}
func (h *FavoritesHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	h.status(w, id, h.service.IsFavorite(r.Context(), id))
}

// Add handles PUT /favorites/{id}
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	h.service.AddFavorite(r.Context(), id)
	h.status(w, id, h.service.IsFavorite(r.Context(), id))
}

// Remove handles DELETE /favorites/{id}
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	h.service.RemoveFavorite(r.Context(), id)
	h.status(w, id, h.service.IsFavorite(r.Context(), id))
}

// Toggle handles POST /favorites/{id}/toggle
func (h *FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	h.status(w, id, h.service.ToggleFavorite(r.Context(), id))
}

func (h *FavoritesHandler) status(w http.ResponseWriter, id int, favorite bool) {
	response.JSON(w, http.StatusOK, dto.FavoriteStatusResponse{ID: id, Favorite: favorite})
}

func (h *FavoritesHandler) productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid favorite id",
			slog.String("id", raw),
		)
		response.Error(w, http.StatusBadRequest, fmt.Errorf("%w: product id must be a number", dto.ErrInvalidRequest))
		return 0, false
	}
	return id, true
}
