package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/product-explorer/internal/app/dto"
	"github.com/mrops-br/product-explorer/internal/app/service"
	"github.com/mrops-br/product-explorer/internal/domain"
	"github.com/mrops-br/product-explorer/internal/infrastructure/http/response"
)

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid list query",
			slog.String("error", err.Error()),
		)
		response.FromError(w, err)
		return
	}

	page, err := h.service.ListProducts(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, page)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, domain.ErrInvalidProductID)
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// ListCategories handles GET /categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, categories)
}

// Refresh handles POST /catalog/refresh
func (h *ProductHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.service.Refresh(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func parseListRequest(q url.Values) (*dto.ListProductsRequest, error) {
	req := &dto.ListProductsRequest{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	}

	var err error
	if raw := q.Get("favorites"); raw != "" {
		if req.FavoritesOnly, err = strconv.ParseBool(raw); err != nil {
			return nil, fmt.Errorf("%w: favorites must be a boolean", dto.ErrInvalidRequest)
		}
	}
	if raw := q.Get("page"); raw != "" {
		if req.Page, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("%w: page must be a number", dto.ErrInvalidRequest)
		}
	}
	if raw := q.Get("page_size"); raw != "" {
		if req.PageSize, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("%w: page_size must be a number", dto.ErrInvalidRequest)
		}
	}
	return req, nil
}
