package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mrops-br/product-explorer/internal/domain"
	"github.com/mrops-br/product-explorer/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxErrorBody bounds how much of a failed response is kept for the error message
const maxErrorBody = 4 << 10

// Client reads products and categories from the remote catalog API.
// Every call issues a new request; there is no caching or de-duplication here.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewClient creates a catalog API client
func NewClient(cfg *config.CatalogConfig, tracer trace.Tracer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
		validate: newValidator(),
		tracer:   tracer,
		logger:   logger,
	}
}

// FetchAllProducts handles GET /products
func (c *Client) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.FetchAllProducts")
	defer span.End()

	const op = "fetch products"

	var payload []productPayload
	if err := c.get(ctx, op, "/products", &payload); err != nil {
		return nil, c.fail(ctx, span, op, err)
	}

	products := make([]domain.Product, 0, len(payload))
	for i, p := range payload {
		if err := c.validate.Struct(p); err != nil {
			return nil, c.fail(ctx, span, op, &domain.DecodeError{
				Op:  op,
				Err: fmt.Errorf("product at index %d: %w", i, err),
			})
		}
		products = append(products, p.toDomain())
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products fetched")
	return products, nil
}

// FetchProductByID handles GET /products/{id}
func (c *Client) FetchProductByID(ctx context.Context, id int) (*domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.FetchProductByID")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))
	op := fmt.Sprintf("fetch product %d", id)

	var payload *productPayload
	if err := c.get(ctx, op, fmt.Sprintf("/products/%d", id), &payload); err != nil {
		return nil, c.fail(ctx, span, op, err)
	}

	// The public catalog answers unknown ids with 200 and an empty body
	if payload == nil {
		return nil, c.fail(ctx, span, op, &domain.DecodeError{Op: op, Err: domain.ErrProductNotFound})
	}
	if err := c.validate.Struct(payload); err != nil {
		return nil, c.fail(ctx, span, op, &domain.DecodeError{Op: op, Err: err})
	}

	product := payload.toDomain()
	span.SetStatus(codes.Ok, "Product fetched")
	return &product, nil
}

// FetchCategories handles GET /products/categories
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.FetchCategories")
	defer span.End()

	const op = "fetch categories"

	var categories []string
	if err := c.get(ctx, op, "/products/categories", &categories); err != nil {
		return nil, c.fail(ctx, span, op, err)
	}
	if categories == nil {
		categories = []string{}
	}

	span.SetAttributes(attribute.Int("category.count", len(categories)))
	span.SetStatus(codes.Ok, "Categories fetched")
	return categories, nil
}

// get performs one GET request and decodes a 2xx JSON body into out
func (c *Client) get(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := "<unable to read body>"
		if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); readErr == nil {
			body = strings.TrimSpace(string(raw))
		}
		return &domain.HTTPError{
			Op:         op,
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		raw = []byte("null")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.DecodeError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) fail(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "Catalog request failed")

	attrs := []any{
		slog.String("operation", op),
		slog.String("error", err.Error()),
	}
	var httpErr *domain.HTTPError
	if errors.As(err, &httpErr) {
		attrs = append(attrs, slog.Int("status", httpErr.Status))
	}
	c.logger.ErrorContext(ctx, "Catalog request failed", attrs...)
	return err
}
