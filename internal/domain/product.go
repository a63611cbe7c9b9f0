package domain

import "strings"

// Product represents one catalog row. Products are immutable after load;
// the engine indexes them by position in the catalog slice.
type Product struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	ImageURL    string   `json:"imageUrl"`
	Features    []string `json:"features"`
	IsAccessory bool     `json:"isAccessory"`
}

// TextSignature returns the text used for vectorization: title, category,
// brand and the feature list joined by spaces. Derived on demand, never stored.
func (p *Product) TextSignature() string {
	parts := []string{p.Title, p.Category, p.Brand}
	if len(p.Features) > 0 {
		parts = append(parts, strings.Join(p.Features, " "))
	}
	return strings.Join(parts, " ")
}

// Recommendation is the display projection of a matched product. It carries
// no engine state and is safe to serialize directly.
type Recommendation struct {
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Brand       string   `json:"brand"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	ImageURL    string   `json:"imageUrl"`
	Features    []string `json:"features"`
}

// ToRecommendation projects a product into its display form.
func (p *Product) ToRecommendation() Recommendation {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return Recommendation{
		Title:       p.Title,
		Price:       p.Price,
		Brand:       p.Brand,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		ImageURL:    p.ImageURL,
		Features:    features,
	}
}
