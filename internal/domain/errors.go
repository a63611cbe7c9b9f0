package domain

import "errors"

var (
	// ErrEmptyCatalog is returned when the catalog contains no products;
	// the engine cannot build a similarity index over zero items.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrCatalogLoad is returned when the catalog source cannot be read or parsed.
	ErrCatalogLoad = errors.New("catalog load failed")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")
)
