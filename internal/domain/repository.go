package domain

import "context"

// CatalogRepository defines the interface for loading a catalog snapshot.
// Load returns the cleaned product list in source order; implementations are
// responsible for coercing malformed fields and imputing missing values.
type CatalogRepository interface {
	Load(ctx context.Context) ([]Product, error)
}
