package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"propertyapi/internal/apperrors"
	"propertyapi/internal/models"
	"propertyapi/internal/repositories"

	"github.com/google/uuid"
)

// Pagination applied when a listing request omits page or pageSize.
const (
	DefaultPage     = 1
	DefaultPageSize = 50
)

// EventPublisher delivers property events to interested consumers.
type EventPublisher interface {
	PublishPropertyEvent(ctx context.Context, event models.PropertyEvent) error
}

// ListFilter holds the optional listing parameters.
type ListFilter struct {
	Page      *int
	PageSize  *int
	Bedrooms  *int
	Bathrooms *int
	Type      *string
	MinPrice  *float64
	MaxPrice  *float64
}

// ListResult is one page of properties plus the number of matches over all pages.
type ListResult struct {
	Total int64             `json:"total"`
	Data  []models.Property `json:"data"`
}

// CreatePropertyInput holds the fields of a new property.
type CreatePropertyInput struct {
	Address   string
	Price     float64
	Bedrooms  int
	Bathrooms int
	Type      *string
}

// UpdatePropertyInput holds a partial update. Nil fields are left unchanged;
// non-nil fields overwrite, zero values included.
type UpdatePropertyInput struct {
	Address   *string
	Price     *float64
	Bedrooms  *int
	Bathrooms *int
	Type      *string
}

func (in UpdatePropertyInput) empty() bool {
	return in.Address == nil && in.Price == nil && in.Bedrooms == nil && in.Bathrooms == nil && in.Type == nil
}

// PropertyService handles business logic related to properties.
type PropertyService struct {
	repo   repositories.PropertyRepository
	events EventPublisher
	logger *slog.Logger
}

// NewPropertyService creates a new PropertyService. events may be nil, in which
// case no events are published.
func NewPropertyService(repo repositories.PropertyRepository, events EventPublisher, logger *slog.Logger) *PropertyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PropertyService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// List returns one page of properties matching every supplied filter.
func (s *PropertyService) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	page, pageSize := DefaultPage, DefaultPageSize
	if filter.Page != nil {
		page = *filter.Page
	}
	if filter.PageSize != nil {
		pageSize = *filter.PageSize
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MaxPrice < *filter.MinPrice {
		return nil, apperrors.NewApplicationError("the maxPrice filter must be greater than or equal to the minPrice filter")
	}

	properties, total, err := s.repo.List(ctx, repositories.PropertyQuery{
		Bedrooms:  filter.Bedrooms,
		Bathrooms: filter.Bathrooms,
		Type:      filter.Type,
		MinPrice:  filter.MinPrice,
		MaxPrice:  filter.MaxPrice,
		Offset:    pageOffset(page, pageSize),
		Limit:     pageSize,
	})
	if err != nil {
		return nil, err
	}
	if properties == nil {
		properties = []models.Property{}
	}

	return &ListResult{Total: total, Data: properties}, nil
}

// pageOffset returns the number of rows before the given page, saturating at
// math.MaxInt instead of overflowing.
func pageOffset(page, pageSize int) int {
	offset := int64(pageSize) * (int64(page) - 1)
	if offset < 0 {
		return 0
	}
	if offset > math.MaxInt {
		return math.MaxInt
	}
	return int(offset)
}

// FindByID retrieves a single property by its ID.
func (s *PropertyService) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return property, nil
}

// Create persists a new property and returns it with its assigned ID.
func (s *PropertyService) Create(ctx context.Context, input CreatePropertyInput) (*models.Property, error) {
	property := &models.Property{
		Address:   input.Address,
		Price:     input.Price,
		Bedrooms:  input.Bedrooms,
		Bathrooms: input.Bathrooms,
		Type:      input.Type,
	}
	if err := s.repo.Create(ctx, property); err != nil {
		return nil, err
	}

	s.publish(ctx, models.PropertyCreated, property.ID, property)
	return property, nil
}

// Update merges the supplied fields over an existing property.
// An empty update returns the property unchanged without writing.
func (s *PropertyService) Update(ctx context.Context, id uint, input UpdatePropertyInput) (*models.Property, error) {
	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	if input.empty() {
		return property, nil
	}

	if input.Address != nil {
		property.Address = *input.Address
	}
	if input.Price != nil {
		property.Price = *input.Price
	}
	if input.Bedrooms != nil {
		property.Bedrooms = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		property.Bathrooms = *input.Bathrooms
	}
	if input.Type != nil {
		property.Type = input.Type
	}

	if err := s.repo.Update(ctx, property); err != nil {
		return nil, notFound(err, id)
	}

	s.publish(ctx, models.PropertyUpdated, property.ID, property)
	return property, nil
}

// Delete removes a property by its ID.
func (s *PropertyService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, id)
	}

	s.publish(ctx, models.PropertyDeleted, id, nil)
	return nil
}

// notFound turns a repository miss into the client-facing error.
func notFound(err error, id uint) error {
	if errors.Is(err, repositories.ErrPropertyNotFound) {
		return apperrors.NewResourceNotFoundError("Property", id)
	}
	return fmt.Errorf("property %d: %w", id, err)
}

func (s *PropertyService) publish(ctx context.Context, eventType string, id uint, property *models.Property) {
	if s.events == nil {
		return
	}

	event := models.PropertyEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		PropertyID: id,
		Property:   property,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.PublishPropertyEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish property event",
			slog.String("event_type", eventType),
			slog.Uint64("property_id", uint64(id)),
			slog.Any("error", err))
	}
}
