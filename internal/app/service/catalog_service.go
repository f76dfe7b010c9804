package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/product-explorer/internal/app/dto"
	"github.com/mrops-br/product-explorer/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// pageWindowSize is the number of page buttons offered to the shell
const pageWindowSize = 5

// Invalidator is implemented by catalog repositories that cache responses
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// CatalogService handles catalog browsing use cases
type CatalogService struct {
	repo       domain.CatalogRepository
	favorites  *FavoritesService
	pageSize   int
	tracer     trace.Tracer
	logger     *slog.Logger
	operations metric.Int64Counter
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	repo domain.CatalogRepository,
	favorites *FavoritesService,
	pageSize int,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogService {
	operations, _ := meter.Int64Counter(
		"catalog.operations",
		metric.WithDescription("Total number of catalog operations"),
	)

	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}

	return &CatalogService{
		repo:       repo,
		favorites:  favorites,
		pageSize:   pageSize,
		tracer:     tracer,
		logger:     logger,
		operations: operations,
	}
}

// ListProducts fetches the catalog and renders one page of it.
// The requested page is clamped to the available pages.
func (s *CatalogService) ListProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ProductPageResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, s.fail(ctx, span, "list", "invalid", err)
	}
	filter, err := req.Filter()
	if err != nil {
		return nil, s.fail(ctx, span, "list", "invalid", err)
	}

	size := req.PageSize
	if size <= 0 {
		size = s.pageSize
	}

	span.SetAttributes(
		attribute.String("filter.search", filter.SearchText),
		attribute.String("filter.category", filter.Category),
		attribute.Bool("filter.favorites_only", filter.FavoritesOnly),
		attribute.String("filter.sort", string(filter.SortOrder)),
		attribute.Int("page.requested", req.Page),
		attribute.Int("page.size", size),
	)

	products, err := s.repo.FetchAllProducts(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "list", "failure", err)
	}

	favorites := s.favorites.GetFavorites(ctx)
	selected := domain.Select(products, filter, favorites)
	page := domain.ClampPage(req.Page, domain.TotalPages(len(selected), size))
	result := domain.Paginate(selected, domain.PageState{CurrentPage: page, PageSize: size})

	span.SetAttributes(
		attribute.Int("product.count", len(products)),
		attribute.Int("filtered.count", result.TotalCount),
		attribute.Int("page.current", result.Page),
	)

	s.logger.InfoContext(ctx, "Catalog page rendered",
		slog.Int("total_count", result.TotalCount),
		slog.Int("page", result.Page),
		slog.Int("total_pages", result.TotalPages),
	)

	s.record(ctx, "list", "success")
	span.SetStatus(codes.Ok, "Catalog page rendered")

	return &dto.ProductPageResponse{
		Items:         dto.ToProductResponseList(result.Items, favorites),
		TotalCount:    result.TotalCount,
		TotalPages:    result.TotalPages,
		Page:          result.Page,
		PageSize:      result.PageSize,
		RangeStart:    result.RangeStart,
		RangeEnd:      result.RangeEnd,
		PageWindow:    domain.PageWindow(result.Page, result.TotalPages, pageWindowSize),
		ActiveFilters: filter.Active(),
	}, nil
}

// GetProduct retrieves a single product with its favorite flag
func (s *CatalogService) GetProduct(ctx context.Context, id int) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	product, err := s.repo.FetchProductByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "read", "failure", err)
	}

	favorites := domain.NewFavoriteSet()
	if s.favorites.IsFavorite(ctx, id) {
		favorites = domain.NewFavoriteSet(id)
	}

	s.logger.InfoContext(ctx, "Product retrieved successfully",
		slog.Int("product_id", id),
	)
	s.record(ctx, "read", "success")
	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product, favorites), nil
}

// ListCategories retrieves the category list
func (s *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListCategories")
	defer span.End()

	categories, err := s.repo.FetchCategories(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "categories", "failure", err)
	}

	span.SetAttributes(attribute.Int("category.count", len(categories)))
	s.record(ctx, "categories", "success")
	span.SetStatus(codes.Ok, "Categories listed successfully")
	return categories, nil
}

// Refresh drops cached catalog responses so the next read re-fetches
func (s *CatalogService) Refresh(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Refresh")
	defer span.End()

	if inv, ok := s.repo.(Invalidator); ok {
		inv.Invalidate(ctx)
	}
	s.record(ctx, "refresh", "success")
}

func (s *CatalogService) fail(ctx context.Context, span trace.Span, operation, result string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "Catalog operation failed")
	s.logger.WarnContext(ctx, "Catalog operation failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	s.record(ctx, operation, result)
	return err
}

func (s *CatalogService) record(ctx context.Context, operation, result string) {
	s.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
