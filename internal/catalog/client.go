package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

// Page is one page of catalog results plus the server's pagination
// signals.
type Page struct {
	Products    []domain.Product
	TotalItems  int
	HasNextPage bool
}

// Endpoints are the upstream URLs the client talks to.
type Endpoints struct {
	Products   string
	Categories string
	Novedades  string
	Ofertas    string
}

// Client talks to the remote products API. Page fetches go through a
// circuit breaker so a flapping upstream fails fast instead of tying
// up every caller.
type Client struct {
	endpoints Endpoints
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[*Page]
	logger    *zap.Logger

	// Collapses concurrent category fetches into one upstream request.
	sfg singleflight.Group
}

func NewClient(endpoints Endpoints, logger *zap.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[*Page](gobreaker.Settings{
		Name:    "catalog",
		Timeout: 15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		endpoints: endpoints,
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
		logger:  logger,
	}
}

type productDTO struct {
	ID       int64   `json:"id"`
	SKU      string  `json:"sku"`
	Title    string  `json:"titulo"`
	Price    float64 `json:"precio_mayorista"`
	Image    string  `json:"image"`
	Stock    int     `json:"stock"`
	Category string  `json:"categoria"`
	Type     string  `json:"tipo"`
}

type paginatedResponse struct {
	Data       []productDTO `json:"data"`
	Pagination struct {
		TotalItems  int  `json:"totalItems"`
		HasNextPage bool `json:"hasNextPage"`
	} `json:"pagination"`
}

// FetchPage requests one page of products for the given filter
// snapshot.
func (c *Client) FetchPage(ctx context.Context, filters domain.Filters, page, limit int) (*Page, error) {
	return c.breaker.Execute(func() (*Page, error) {
		return c.fetchPage(ctx, filters, page, limit)
	})
}

func (c *Client) fetchPage(ctx context.Context, filters domain.Filters, page, limit int) (*Page, error) {
	reqURL := c.endpoints.Products + "?" + buildQuery(filters, page, limit).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build products request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("products request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("products request failed: status %d", resp.StatusCode)
	}

	var body paginatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode products response: %w", err)
	}

	return &Page{
		Products:    mapProducts(body.Data),
		TotalItems:  body.Pagination.TotalItems,
		HasNextPage: body.Pagination.HasNextPage,
	}, nil
}

func mapProducts(dtos []productDTO) []domain.Product {
	products := make([]domain.Product, 0, len(dtos))
	for _, dto := range dtos {
		products = append(products, domain.Product{
			ID:          dto.ID,
			SKU:         dto.SKU,
			Title:       dto.Title,
			Price:       dto.Price,
			Image:       dto.Image,
			Stock:       dto.Stock,
			Category:    dto.Category,
			ProductType: dto.Type,
		})
	}
	return products
}

// Novedades fetches the new-arrivals showcase for the home page.
func (c *Client) Novedades(ctx context.Context) ([]domain.Product, error) {
	return c.fetchShowcase(ctx, c.endpoints.Novedades)
}

// Ofertas fetches the on-sale showcase for the home page.
func (c *Client) Ofertas(ctx context.Context) ([]domain.Product, error) {
	return c.fetchShowcase(ctx, c.endpoints.Ofertas)
}

// fetchShowcase handles the flat product-array endpoints, which carry
// no pagination envelope.
func (c *Client) fetchShowcase(ctx context.Context, endpoint string) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build showcase request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("showcase request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("showcase request failed: status %d", resp.StatusCode)
	}

	var dtos []productDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("failed to decode showcase response: %w", err)
	}
	return mapProducts(dtos), nil
}

// Categories fetches the category list. Concurrent callers share one
// upstream request.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	v, err, _ := c.sfg.Do("categories", func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoints.Categories, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build categories request: %w", err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("categories request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("categories request failed: status %d", resp.StatusCode)
		}

		var categories []string
		if err := json.NewDecoder(resp.Body).Decode(&categories); err != nil {
			return nil, fmt.Errorf("failed to decode categories response: %w", err)
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// buildQuery translates a filter snapshot into the products API's
// query parameters. Zero-valued optional filters are omitted, matching
// the upstream contract.
func buildQuery(f domain.Filters, page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.SortBy != "" {
		q.Set("sortBy", f.SortBy)
	}
	q.Set("min_price", strconv.FormatFloat(f.PriceMin, 'f', -1, 64))
	q.Set("max_price", strconv.FormatFloat(f.PriceMax, 'f', -1, 64))
	if len(f.ProductTypes) > 0 {
		q.Set("productTypes", strings.Join(f.ProductTypes, ","))
	}
	if f.HideOutOfStock {
		q.Set("hideOutOfStock", "true")
	}
	return q
}
