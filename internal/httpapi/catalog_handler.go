package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/catalog"
	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

// ProductFeed is the catalog surface the handlers need.
type ProductFeed interface {
	SetFilters(ctx context.Context, filters domain.Filters) error
	Nudge(ctx context.Context) error
	Snapshot() catalog.Snapshot
	Product(id int64) (domain.Product, bool)
}

// CatalogSource is the upstream surface proxied through unchanged:
// category names and the home page showcases.
type CatalogSource interface {
	Categories(ctx context.Context) ([]string, error)
	Novedades(ctx context.Context) ([]domain.Product, error)
	Ofertas(ctx context.Context) ([]domain.Product, error)
}

type CatalogHandler struct {
	feed    ProductFeed
	source  CatalogSource
	timeout time.Duration
}

func NewCatalogHandler(feed ProductFeed, source CatalogSource, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{feed: feed, source: source, timeout: timeout}
}

type productJSON struct {
	ID          int64   `json:"id"`
	SKU         string  `json:"sku"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category,omitempty"`
	ProductType string  `json:"product_type,omitempty"`
}

func toProductJSON(p domain.Product) productJSON {
	return productJSON{
		ID:          p.ID,
		SKU:         p.SKU,
		Title:       p.Title,
		Price:       p.Price,
		Image:       p.Image,
		Stock:       p.Stock,
		Category:    p.Category,
		ProductType: p.ProductType,
	}
}

type feedResponse struct {
	Products   []productJSON `json:"products"`
	Page       int           `json:"page"`
	TotalItems int           `json:"total_items"`
	HasMore    bool          `json:"has_more"`
	Loading    bool          `json:"loading"`
	Error      string        `json:"error,omitempty"`
}

// ListProducts applies the filters from the query string and returns
// the feed's current state. A debounced search change may still be
// settling, in which case the previous list is returned with the
// loading flag set.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	filters, err := filtersFromQuery(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_filters", err.Error())
		return
	}

	// A fetch error keeps the previous list; it is reported in the
	// snapshot rather than failing the request.
	_ = h.feed.SetFilters(ctx, filters)

	h.respondFeed(w)
}

// LoadMore is the infinite-scroll trigger.
func (h *CatalogHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	_ = h.feed.Nudge(ctx)

	h.respondFeed(w)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.source.Categories(ctx)
	if err != nil {
		respondError(w, r, http.StatusBadGateway, "upstream_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

// GetProduct serves the detail view for a product already present in
// the loaded feed.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	product, found := h.feed.Product(productID)
	if !found {
		respondError(w, r, http.StatusNotFound, "product_not_found", "product not found")
		return
	}

	respondJSON(w, http.StatusOK, toProductJSON(product))
}

// Novedades proxies the home page's new-arrivals showcase.
func (h *CatalogHandler) Novedades(w http.ResponseWriter, r *http.Request) {
	h.respondShowcase(w, r, h.source.Novedades)
}

// Ofertas proxies the home page's on-sale showcase.
func (h *CatalogHandler) Ofertas(w http.ResponseWriter, r *http.Request) {
	h.respondShowcase(w, r, h.source.Ofertas)
}

func (h *CatalogHandler) respondShowcase(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]domain.Product, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := fetch(ctx)
	if err != nil {
		respondError(w, r, http.StatusBadGateway, "upstream_failed", err.Error())
		return
	}

	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, toProductJSON(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) respondFeed(w http.ResponseWriter) {
	snap := h.feed.Snapshot()

	products := make([]productJSON, 0, len(snap.Products))
	for _, p := range snap.Products {
		products = append(products, toProductJSON(p))
	}

	resp := feedResponse{
		Products:   products,
		Page:       snap.Page,
		TotalItems: snap.TotalItems,
		HasMore:    snap.HasMore,
		Loading:    snap.Loading,
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}

	respondJSON(w, http.StatusOK, resp)
}

func filtersFromQuery(r *http.Request) (domain.Filters, error) {
	q := r.URL.Query()

	filters := domain.Filters{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		SortBy:   q.Get("sortBy"),
		PriceMax: 150000,
	}

	if v := q.Get("min_price"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.Filters{}, err
		}
		filters.PriceMin = min
	}
	if v := q.Get("max_price"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.Filters{}, err
		}
		filters.PriceMax = max
	}
	if v := q.Get("productTypes"); v != "" {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filters.ProductTypes = append(filters.ProductTypes, t)
			}
		}
	}
	if v := q.Get("hideOutOfStock"); v != "" {
		hide, err := strconv.ParseBool(v)
		if err != nil {
			return domain.Filters{}, err
		}
		filters.HideOutOfStock = hide
	}

	return filters, nil
}
