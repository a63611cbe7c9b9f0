// Package catalog loads and cleans the product catalog from its CSV source.
//
// All field-level problems recover locally: malformed numerics coerce to
// missing and get imputed (price: catalog median; rating and review count:
// zero), malformed feature lists become empty lists. The only hard failures
// are an unreadable file and a catalog with zero data rows.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopsense/backend/internal/domain"
)

// Required catalog columns, resolved by header name. Extra columns are
// ignored; column order does not matter.
var requiredColumns = []string{
	"product_title", "category", "brand", "price", "rating",
	"review_count", "image_url", "features", "is_accessory",
}

// Loader reads a product catalog from a CSV file. It implements
// domain.CatalogRepository.
type Loader struct {
	path string
}

// NewLoader creates a catalog loader for the given CSV file path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads and cleans the full catalog. Missing prices are imputed with
// the median of the prices that did parse; when no price parses at all the
// median falls back to zero. Returns domain.ErrEmptyCatalog when the file
// has a header but no data rows.
func (l *Loader) Load(ctx context.Context) ([]domain.Product, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	products, err := l.parse(ctx, file)
	if err != nil {
		return nil, err
	}

	log.Printf("[CATALOG] loaded %d products from %s", len(products), l.path)
	return products, nil
}

func (l *Loader) parse(ctx context.Context, r io.Reader) ([]domain.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("catalog header missing column %q", name)
		}
	}

	var products []domain.Product
	var missingPrice []int // indices awaiting median imputation
	var prices []float64   // prices that parsed, for the median

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}

		field := func(name string) string {
			idx := columns[name]
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		product := domain.Product{
			Title:       field("product_title"),
			Category:    field("category"),
			Brand:       field("brand"),
			Rating:      clampRating(parseNumeric(field("rating"))),
			ReviewCount: int(parseNumeric(field("review_count"))),
			ImageURL:    field("image_url"),
			Features:    parseFeatures(field("features")),
			IsAccessory: parseBool(field("is_accessory")),
		}

		if price, ok := parsePrice(field("price")); ok {
			product.Price = price
			prices = append(prices, price)
		} else {
			missingPrice = append(missingPrice, len(products))
		}

		products = append(products, product)
	}

	if len(products) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	if len(missingPrice) > 0 {
		median := medianOf(prices)
		for _, idx := range missingPrice {
			products[idx].Price = median
		}
		log.Printf("[CATALOG] imputed %d missing prices with median %.2f", len(missingPrice), median)
	}

	return products, nil
}

// parsePrice coerces a price field. Sentinel values such as "Not Available"
// and anything non-numeric count as missing; negative prices do too.
func parsePrice(s string) (float64, bool) {
	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, false
	}
	return value, true
}

// parseNumeric coerces a numeric field, defaulting to zero on any failure.
func parseNumeric(s string) float64 {
	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}

func clampRating(rating float64) float64 {
	if rating > 5 {
		return 5
	}
	return rating
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1":
		return true
	default:
		return false
	}
}

// parseFeatures converts the features field into an ordered string list.
// Two formats are accepted: a Python-style list literal, e.g.
// ['6.1 inch display', "5G"], and a plain comma-separated string. Anything
// unparseable yields an empty list.
func parseFeatures(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return parseListLiteral(s[1 : len(s)-1])
	}

	var features []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			features = append(features, item)
		}
	}
	return features
}

// parseListLiteral splits the inner text of a list literal on commas outside
// quotes. Quoted items keep embedded commas; surrounding quotes are removed.
func parseListLiteral(inner string) []string {
	var features []string
	var current strings.Builder
	var quote rune // active quote character, 0 when outside quotes

	flush := func() {
		item := strings.TrimSpace(current.String())
		item = strings.Trim(item, `'"`)
		if item = strings.TrimSpace(item); item != "" {
			features = append(features, item)
		}
		current.Reset()
	}

	for _, ch := range inner {
		switch {
		case quote == 0 && (ch == '\'' || ch == '"'):
			quote = ch
			current.WriteRune(ch)
		case quote == ch:
			quote = 0
			current.WriteRune(ch)
		case quote == 0 && ch == ',':
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()

	return features
}

// medianOf returns the median of the values; the mean of the two middle
// values for even counts. Returns 0 for an empty slice.
func medianOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
