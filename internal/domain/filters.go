package domain

// CategoryAll is the sentinel category filter value meaning "no restriction".
const CategoryAll = "All"

// PriceRange is an inclusive [Min, Max] price bound.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price falls inside the range, bounds included.
func (r PriceRange) Contains(price float64) bool {
	return r.Min <= price && price <= r.Max
}

// RatingBand is a half-open rating interval [Min, Max).
type RatingBand struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether rating falls inside the band. The upper bound is
// exclusive, matching the UI's band definitions.
func (b RatingBand) Contains(rating float64) bool {
	return b.Min <= rating && rating < b.Max
}

// SearchRequest is the full filter set for one recommendation query.
// RatingBands pass everything when empty. Brands and Category apply to the
// accessory list only; an empty brand set or the "All" category means no
// restriction.
type SearchRequest struct {
	Query       string       `json:"query" binding:"required"`
	PriceRange  *PriceRange  `json:"priceRange,omitempty"`
	RatingBands []RatingBand `json:"ratingBands,omitempty"`
	Brands      []string     `json:"brands,omitempty"`
	Category    string       `json:"category,omitempty"`
}

// SearchResult holds both recommendation lists for one query, plus the
// resolved anchor title and its fuzzy-match score.
type SearchResult struct {
	Query        string           `json:"query"`
	MatchedTitle string           `json:"matchedTitle,omitempty"`
	MatchScore   float64          `json:"matchScore"`
	Similar      []Recommendation `json:"similar"`
	Accessories  []Recommendation `json:"accessories"`
	Message      string           `json:"message,omitempty"`
}

// FilterOptions describes the catalog-derived bounds and choices a UI needs
// to render its filter controls.
type FilterOptions struct {
	PriceMin            float64  `json:"priceMin"`
	PriceMax            float64  `json:"priceMax"`
	AccessoryCategories []string `json:"accessoryCategories"`
	AccessoryBrands     []string `json:"accessoryBrands"`
}
