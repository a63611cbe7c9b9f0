package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopsense/backend/config"
	"github.com/shopsense/backend/internal/domain"
	"github.com/shopsense/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// memoryRepo serves a fixed product list as the catalog source.
type memoryRepo struct {
	products []domain.Product
	failNext bool
}

func (r *memoryRepo) Load(ctx context.Context) ([]domain.Product, error) {
	if r.failNext {
		return nil, domain.ErrCatalogLoad
	}
	return r.products, nil
}

func integrationCatalog() []domain.Product {
	return []domain.Product{
		{Title: "Apple iPhone 16 Pro", Category: "Smartphones", Brand: "Apple", Price: 999, Rating: 4.8, Features: []string{"A18 chip"}},
		{Title: "Apple iPhone 15", Category: "Smartphones", Brand: "Apple", Price: 799, Rating: 4.5},
		{Title: "Samsung Galaxy S24", Category: "Smartphones", Brand: "Samsung", Price: 899, Rating: 4.6},
		{Title: "iPhone 16 Silicone Case", Category: "Phone Cases", Brand: "Apple", Price: 49, Rating: 4.4, IsAccessory: true},
		{Title: "iPhone 16 Screen Protector", Category: "Screen Protectors", Brand: "Spigen", Price: 19, Rating: 4.2, IsAccessory: true},
		{Title: "Generic Cable", Category: "Cables", Brand: "Anker", Price: 15, Rating: 4.0, IsAccessory: true},
		{Title: "Generic Cable", Category: "Cables", Brand: "Belkin", Price: 18, Rating: 4.7, IsAccessory: true},
		{Title: "USB-C Charger", Category: "Chargers", Brand: "Anker", Price: 29, Rating: 4.6, IsAccessory: true},
		{Title: "Wireless Charging Pad", Category: "Chargers", Brand: "Belkin", Price: 39, Rating: 4.3, IsAccessory: true},
		{Title: "MagSafe Charger", Category: "Chargers", Brand: "Apple", Price: 45, Rating: 4.5, IsAccessory: true},
	}
}

// setupTestServer builds the full stack: repo -> engine -> handler -> router.
func setupTestServer(t *testing.T) (*gin.Engine, *memoryRepo) {
	t.Helper()

	repo := &memoryRepo{products: integrationCatalog()}
	engine, err := usecase.NewRecommendService(
		context.Background(),
		repo,
		usecase.RecommendServiceConfig{MaxResults: 5},
	)
	if err != nil {
		t.Fatalf("NewRecommendService() error = %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Recommend: config.RecommendConfig{MaxResults: 5, AccessoryDisplayLimit: 4},
		RateLimit: config.RateLimitConfig{PerIP: 1000},
	}

	handler := NewHandler(engine, cfg.Recommend.AccessoryDisplayLimit)
	return SetupRouter(cfg, handler), repo
}

func postSearch(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/search", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) domain.SearchResult {
	t.Helper()
	var result domain.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, w.Body.String())
	}
	return result
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", body["status"])
	}
	if body["catalogSize"] != float64(len(integrationCatalog())) {
		t.Errorf("catalogSize = %v, want %d", body["catalogSize"], len(integrationCatalog()))
	}
}

func TestSearchEndpoint(t *testing.T) {
	router, _ := setupTestServer(t)

	t.Run("returns both recommendation lists", func(t *testing.T) {
		w := postSearch(t, router, domain.SearchRequest{
			Query:      "Apple iPhone 16",
			PriceRange: &domain.PriceRange{Min: 0, Max: 2000},
		})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}

		result := decodeResult(t, w)
		if result.MatchedTitle != "apple iphone 16 pro" {
			t.Errorf("matchedTitle = %q, want apple iphone 16 pro", result.MatchedTitle)
		}
		if len(result.Similar) == 0 {
			t.Error("similar list is empty")
		}
		if len(result.Accessories) == 0 {
			t.Error("accessories list is empty")
		}
	})

	t.Run("accessories are truncated to the display limit", func(t *testing.T) {
		// Five accessory candidates pass the filters; the engine gathers
		// up to five, the handler displays at most four.
		w := postSearch(t, router, domain.SearchRequest{
			Query:      "Apple iPhone 16",
			PriceRange: &domain.PriceRange{Min: 0, Max: 2000},
		})
		result := decodeResult(t, w)
		if len(result.Accessories) > 4 {
			t.Errorf("len(accessories) = %d, want <= 4", len(result.Accessories))
		}
	})

	t.Run("missing query is a 400", func(t *testing.T) {
		w := postSearch(t, router, map[string]any{"priceRange": map[string]float64{"min": 0, "max": 100}})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/search", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("empty-result filters return 200 with a message", func(t *testing.T) {
		w := postSearch(t, router, domain.SearchRequest{
			Query:      "Apple iPhone 16",
			PriceRange: &domain.PriceRange{Min: 0, Max: 0},
		})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		result := decodeResult(t, w)
		if len(result.Similar) != 0 || len(result.Accessories) != 0 {
			t.Error("expected empty result lists")
		}
		if result.Message == "" {
			t.Error("message is empty, want the no-results text")
		}
	})
}

func TestFiltersEndpoint(t *testing.T) {
	router, _ := setupTestServer(t)

	t.Run("catalog-wide metadata", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/filters", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}

		var options domain.FilterOptions
		if err := json.Unmarshal(w.Body.Bytes(), &options); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if options.PriceMin != 15 || options.PriceMax != 999 {
			t.Errorf("price bounds = [%v, %v], want [15, 999]", options.PriceMin, options.PriceMax)
		}
		if len(options.AccessoryCategories) != 4 {
			t.Errorf("accessoryCategories = %v, want 4 categories", options.AccessoryCategories)
		}
	})

	t.Run("brands restricted by category", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/filters?category=Chargers", nil))

		var options domain.FilterOptions
		if err := json.Unmarshal(w.Body.Bytes(), &options); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		want := []string{"Anker", "Apple", "Belkin"}
		if len(options.AccessoryBrands) != len(want) {
			t.Fatalf("accessoryBrands = %v, want %v", options.AccessoryBrands, want)
		}
		for i, brand := range want {
			if options.AccessoryBrands[i] != brand {
				t.Errorf("accessoryBrands[%d] = %q, want %q", i, options.AccessoryBrands[i], brand)
			}
		}
	})
}

func TestReloadEndpoint(t *testing.T) {
	router, repo := setupTestServer(t)

	t.Run("reload succeeds and reports catalog size", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}
	})

	t.Run("reload failure is a 500 and keeps serving", func(t *testing.T) {
		repo.failNext = true
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		repo.failNext = false

		// The previous snapshot still answers searches.
		search := postSearch(t, router, domain.SearchRequest{Query: "Apple iPhone 16"})
		if search.Code != http.StatusOK {
			t.Errorf("search after failed reload status = %d, want %d", search.Code, http.StatusOK)
		}
	})
}
