package repositories

import (
	"context"
	"errors"

	"propertyapi/internal/models"
)

// ErrPropertyNotFound is returned when no property row matches the given ID.
var ErrPropertyNotFound = errors.New("property not found")

// PropertyQuery selects a page of properties. Nil filters impose no constraint.
type PropertyQuery struct {
	Bedrooms  *int
	Bathrooms *int
	Type      *string
	MinPrice  *float64
	MaxPrice  *float64
	Offset    int
	Limit     int
}

// PropertyRepository defines the interface for property data access.
type PropertyRepository interface {
	// List returns one page of matching properties ordered by ID and the number
	// of matching rows across all pages.
	List(ctx context.Context, query PropertyQuery) ([]models.Property, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Property, error)
	Create(ctx context.Context, property *models.Property) error
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CreateInBatches(ctx context.Context, properties []models.Property, batchSize int) error
}
