package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/shopsense/backend/internal/domain"
)

// User-facing empty-state messages. Three distinct states: nothing at all,
// no similar products, no accessories.
const (
	MessageNoResults     = "No products found matching your search. Try different keywords!"
	MessageNoSimilar     = "No similar products found. Try adjusting your search!"
	MessageNoAccessories = "No accessories found matching filters. Try adjusting filters!"
)

const defaultMaxResults = 5

// selectionMode partitions candidates into main products and accessories.
type selectionMode int

const (
	modeMain selectionMode = iota
	modeAccessory
)

// RecommendServiceConfig holds configuration for the recommendation service.
type RecommendServiceConfig struct {
	MaxResults         int
	EnableDebugLogging bool
}

// engineBundle is one immutable catalog snapshot with its derived state:
// products, TF-IDF vectors, similarity matrix and title matcher, all built
// from the same product ordering. It is replaced as a unit on reload, never
// mutated, so concurrent searches need no locking.
type engineBundle struct {
	products []domain.Product
	matrix   *SimilarityMatrix
	matcher  *TitleMatcher
}

// RecommendService resolves queries to an anchor product and selects ranked,
// filtered, deduplicated recommendations from the precomputed similarity
// matrix. The active engine bundle sits behind an atomic pointer; Reload
// builds a complete replacement before swapping it in.
type RecommendService struct {
	repo               domain.CatalogRepository
	bundle             atomic.Pointer[engineBundle]
	maxResults         int
	enableDebugLogging bool
}

// NewRecommendService loads the catalog and builds the initial engine
// bundle. Returns domain.ErrEmptyCatalog when the catalog has no products.
func NewRecommendService(
	ctx context.Context,
	repo domain.CatalogRepository,
	config RecommendServiceConfig,
) (*RecommendService, error) {
	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &RecommendService{
		repo:               repo,
		maxResults:         maxResults,
		enableDebugLogging: config.EnableDebugLogging,
	}

	bundle, err := s.buildBundle(ctx)
	if err != nil {
		return nil, err
	}
	s.bundle.Store(bundle)

	return s, nil
}

// Reload rebuilds the engine bundle from the catalog source and swaps it in
// atomically. On failure the previous bundle stays active untouched.
func (s *RecommendService) Reload(ctx context.Context) error {
	bundle, err := s.buildBundle(ctx)
	if err != nil {
		return err
	}
	s.bundle.Store(bundle)
	log.Printf("[ENGINE] catalog reloaded: %d products", len(bundle.products))
	return nil
}

// buildBundle loads the catalog and derives vectors, matrix and matcher from
// the snapshot. The bundle is fully constructed before the caller publishes
// it, keeping product indices and matrix rows aligned at all times.
func (s *RecommendService) buildBundle(ctx context.Context) (*engineBundle, error) {
	products, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}
	if len(products) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	documents := make([]string, len(products))
	titles := make([]string, len(products))
	for i := range products {
		documents[i] = products[i].TextSignature()
		titles[i] = products[i].Title
	}

	featurizer := NewFeaturizer(documents)
	matrix := BuildSimilarityMatrix(featurizer.Vectors())

	log.Printf("[ENGINE] index built: %d products, %d terms", len(products), featurizer.VocabularySize())

	return &engineBundle{
		products: products,
		matrix:   matrix,
		matcher:  NewTitleMatcher(titles, s.enableDebugLogging),
	}, nil
}

// CatalogSize returns the number of products in the active snapshot.
func (s *RecommendService) CatalogSize() int {
	return len(s.bundle.Load().products)
}

// Search resolves the query to an anchor product and runs the selector twice
// against the active snapshot: once for similar main products, once for
// accessories. Both lists honor the price and rating filters; brand and
// category filters apply to accessories only.
func (s *RecommendService) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResult, error) {
	if request == nil || strings.TrimSpace(request.Query) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bundle := s.bundle.Load()
	result := &domain.SearchResult{
		Query:       request.Query,
		Similar:     []domain.Recommendation{},
		Accessories: []domain.Recommendation{},
	}

	match, ok := bundle.matcher.Match(request.Query)
	if !ok {
		result.Message = MessageNoResults
		return result, nil
	}
	result.MatchedTitle = match.Title
	result.MatchScore = match.Score

	anchor := anchorIndex(bundle.products, match.Title)
	if anchor < 0 {
		result.Message = MessageNoResults
		return result, nil
	}

	priceRange := request.PriceRange
	if priceRange == nil {
		min, max := bundle.priceBounds()
		priceRange = &domain.PriceRange{Min: min, Max: max}
	}

	if s.enableDebugLogging {
		log.Printf("[ENGINE] query=%q anchor=%d (%q) price=[%.2f, %.2f] bands=%d",
			request.Query, anchor, bundle.products[anchor].Title,
			priceRange.Min, priceRange.Max, len(request.RatingBands))
	}

	result.Similar = s.selectCandidates(bundle, anchor, request, *priceRange, modeMain)
	result.Accessories = s.selectCandidates(bundle, anchor, request, *priceRange, modeAccessory)

	switch {
	case len(result.Similar) == 0 && len(result.Accessories) == 0:
		result.Message = MessageNoResults
	case len(result.Similar) == 0:
		result.Message = MessageNoSimilar
	case len(result.Accessories) == 0:
		result.Message = MessageNoAccessories
	}

	return result, nil
}

// anchorIndex returns the first catalog row whose title equals the matched
// title, case-insensitively. Duplicate titles resolve to the earliest row;
// the matched title always originates from the catalog, so a miss only
// happens on an internal inconsistency.
func anchorIndex(products []domain.Product, matchedTitle string) int {
	for i := range products {
		if strings.EqualFold(products[i].Title, matchedTitle) {
			return i
		}
	}
	return -1
}

// selectCandidates ranks every non-anchor product by descending similarity
// to the anchor (catalog order breaks ties) and walks the ranking applying
// the filter chain: price, rating bands, mode, then for accessories brand
// and category. Results deduplicate on (brand, title) and stop at the cap.
func (s *RecommendService) selectCandidates(
	bundle *engineBundle,
	anchor int,
	request *domain.SearchRequest,
	priceRange domain.PriceRange,
	mode selectionMode,
) []domain.Recommendation {
	ranked := make([]int, 0, len(bundle.products)-1)
	for i := range bundle.products {
		if i != anchor {
			ranked = append(ranked, i)
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return bundle.matrix.At(anchor, ranked[a]) > bundle.matrix.At(anchor, ranked[b])
	})

	seen := make(map[string]bool)
	recommendations := make([]domain.Recommendation, 0, s.maxResults)

	for _, idx := range ranked {
		if len(recommendations) >= s.maxResults {
			break
		}
		product := &bundle.products[idx]

		if !priceRange.Contains(product.Price) {
			continue
		}
		if !ratingAllowed(product.Rating, request.RatingBands) {
			continue
		}
		if (mode == modeAccessory) != product.IsAccessory {
			continue
		}
		if mode == modeAccessory {
			if len(request.Brands) > 0 && !containsString(request.Brands, product.Brand) {
				continue
			}
			if request.Category != "" && request.Category != domain.CategoryAll &&
				product.Category != request.Category {
				continue
			}
		}

		signature := product.Brand + "\x00" + product.Title
		if seen[signature] {
			continue
		}
		seen[signature] = true

		recommendations = append(recommendations, product.ToRecommendation())
	}

	return recommendations
}

// ratingAllowed reports whether the rating falls in any selected band. An
// empty band set passes every rating.
func ratingAllowed(rating float64, bands []domain.RatingBand) bool {
	if len(bands) == 0 {
		return true
	}
	for _, band := range bands {
		if band.Contains(rating) {
			return true
		}
	}
	return false
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// priceBounds returns the minimum and maximum price across the snapshot.
func (b *engineBundle) priceBounds() (float64, float64) {
	min, max := b.products[0].Price, b.products[0].Price
	for i := 1; i < len(b.products); i++ {
		if p := b.products[i].Price; p < min {
			min = p
		} else if p > max {
			max = p
		}
	}
	return min, max
}

// FilterOptions returns the catalog-derived filter metadata a UI needs:
// price bounds, sorted accessory categories, and accessory brands. When
// category names a specific accessory category, brands are restricted to it.
func (s *RecommendService) FilterOptions(category string) *domain.FilterOptions {
	bundle := s.bundle.Load()
	min, max := bundle.priceBounds()

	categorySet := make(map[string]bool)
	brandSet := make(map[string]bool)
	restrict := category != "" && category != domain.CategoryAll

	for i := range bundle.products {
		product := &bundle.products[i]
		if !product.IsAccessory {
			continue
		}
		categorySet[product.Category] = true
		if restrict && product.Category != category {
			continue
		}
		brandSet[product.Brand] = true
	}

	return &domain.FilterOptions{
		PriceMin:            min,
		PriceMax:            max,
		AccessoryCategories: sortedKeys(categorySet),
		AccessoryBrands:     sortedKeys(brandSet),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
