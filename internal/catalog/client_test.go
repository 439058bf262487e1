package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

func TestBuildQuery_AllFilters(t *testing.T) {
	f := domain.Filters{
		Search:         "mask",
		Category:       "cotillon",
		PriceMin:       100,
		PriceMax:       5000,
		ProductTypes:   []string{"disfraz", "accesorio"},
		SortBy:         "price_asc",
		HideOutOfStock: true,
	}

	q := buildQuery(f, 2, 12)

	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "12", q.Get("limit"))
	assert.Equal(t, "mask", q.Get("search"))
	assert.Equal(t, "cotillon", q.Get("category"))
	assert.Equal(t, "price_asc", q.Get("sortBy"))
	assert.Equal(t, "100", q.Get("min_price"))
	assert.Equal(t, "5000", q.Get("max_price"))
	assert.Equal(t, "disfraz,accesorio", q.Get("productTypes"))
	assert.Equal(t, "true", q.Get("hideOutOfStock"))
}

func TestBuildQuery_OptionalFiltersOmitted(t *testing.T) {
	q := buildQuery(domain.Filters{PriceMax: 150000}, 1, 12)

	assert.False(t, q.Has("search"))
	assert.False(t, q.Has("category"))
	assert.False(t, q.Has("sortBy"))
	assert.False(t, q.Has("productTypes"))
	assert.False(t, q.Has("hideOutOfStock"))
	assert.Equal(t, "0", q.Get("min_price"))
	assert.Equal(t, "150000", q.Get("max_price"))
}

func TestFetchPage_DecodesUpstreamShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "12", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": 1, "sku": "A-1", "titulo": "Antifaz", "precio_mayorista": 1200.5, "stock": 10, "categoria": "cotillon"},
				{"id": 2, "sku": "B-2", "titulo": "Bonete", "precio_mayorista": 300, "stock": 0, "categoria": "cotillon"}
			],
			"pagination": {"totalItems": 40, "hasNextPage": true}
		}`))
	}))
	defer srv.Close()

	sut := NewClient(Endpoints{Products: srv.URL, Categories: srv.URL + "/categorias"}, zap.NewNop())

	page, err := sut.FetchPage(context.Background(), domain.Filters{PriceMax: 150000}, 1, 12)
	require.NoError(t, err)

	require.Len(t, page.Products, 2)
	assert.Equal(t, "Antifaz", page.Products[0].Title)
	assert.InDelta(t, 1200.5, page.Products[0].Price, 1e-9)
	assert.Equal(t, 10, page.Products[0].Stock)
	assert.Equal(t, 40, page.TotalItems)
	assert.True(t, page.HasNextPage)
}

func TestFetchPage_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sut := NewClient(Endpoints{Products: srv.URL, Categories: srv.URL + "/categorias"}, zap.NewNop())

	_, err := sut.FetchPage(context.Background(), domain.Filters{}, 1, 12)
	require.ErrorContains(t, err, "status 500")
}

func TestCategories(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["cotillon","disfraces","golosinas"]`))
	}))
	defer srv.Close()

	sut := NewClient(Endpoints{Products: srv.URL + "/productos", Categories: srv.URL}, zap.NewNop())

	categories, err := sut.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"cotillon", "disfraces", "golosinas"}, categories)
}

func TestNovedadesAndOfertas_DecodeFlatProductArrays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/novedades":
			_, _ = w.Write([]byte(`[{"id": 1, "sku": "A-1", "titulo": "Antifaz", "precio_mayorista": 1200.5, "stock": 10}]`))
		case "/ofertas":
			_, _ = w.Write([]byte(`[{"id": 2, "sku": "B-2", "titulo": "Bonete", "precio_mayorista": 300, "stock": 5}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	sut := NewClient(Endpoints{
		Novedades: srv.URL + "/novedades",
		Ofertas:   srv.URL + "/ofertas",
	}, zap.NewNop())

	novedades, err := sut.Novedades(context.Background())
	require.NoError(t, err)
	require.Len(t, novedades, 1)
	assert.Equal(t, "Antifaz", novedades[0].Title)
	assert.InDelta(t, 1200.5, novedades[0].Price, 1e-9)

	ofertas, err := sut.Ofertas(context.Background())
	require.NoError(t, err)
	require.Len(t, ofertas, 1)
	assert.Equal(t, "Bonete", ofertas[0].Title)
}

func TestNovedades_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	sut := NewClient(Endpoints{Novedades: srv.URL}, zap.NewNop())

	_, err := sut.Novedades(context.Background())
	require.ErrorContains(t, err, "status 503")
}

func TestCategories_ConcurrentCallsShareOneRequest(t *testing.T) {
	release := make(chan struct{})
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(`["a"]`))
	}))
	defer srv.Close()

	sut := NewClient(Endpoints{Products: srv.URL + "/productos", Categories: srv.URL}, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = sut.Categories(context.Background())
		}()
	}

	// Give every caller time to join the in-flight request before the
	// server responds.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
}
