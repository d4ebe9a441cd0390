package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"propertyapi/internal/models"
)

// MemoryPropertyRepository is an in-memory implementation of PropertyRepository.
type MemoryPropertyRepository struct {
	properties map[uint]models.Property
	nextID     uint
	mu         sync.RWMutex
}

// NewMemoryPropertyRepository creates a new instance of MemoryPropertyRepository.
func NewMemoryPropertyRepository() *MemoryPropertyRepository {
	return &MemoryPropertyRepository{
		properties: make(map[uint]models.Property),
		nextID:     1,
	}
}

func matches(p models.Property, q PropertyQuery) bool {
	switch {
	case q.Bedrooms != nil && p.Bedrooms != *q.Bedrooms:
		return false
	case q.Bathrooms != nil && p.Bathrooms != *q.Bathrooms:
		return false
	case q.Type != nil && (p.Type == nil || *p.Type != *q.Type):
		return false
	case q.MinPrice != nil && p.Price < *q.MinPrice:
		return false
	case q.MaxPrice != nil && p.Price > *q.MaxPrice:
		return false
	}
	return true
}

// List returns a filtered page of properties ordered by ID.
func (r *MemoryPropertyRepository) List(_ context.Context, query PropertyQuery) ([]models.Property, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Property, 0, len(r.properties))
	for _, p := range r.properties {
		if matches(p, query) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := min(max(query.Offset, 0), len(matched))
	end := start + min(max(query.Limit, 0), len(matched)-start)
	return append([]models.Property{}, matched[start:end]...), total, nil
}

// GetByID returns a property by its ID.
func (r *MemoryPropertyRepository) GetByID(_ context.Context, id uint) (*models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	property, ok := r.properties[id]
	if !ok {
		return nil, fmt.Errorf("property with ID %d: %w", id, ErrPropertyNotFound)
	}
	return &property, nil
}

// Create adds a new property and assigns its ID.
func (r *MemoryPropertyRepository) Create(_ context.Context, property *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.insert(property)
	return nil
}

func (r *MemoryPropertyRepository) insert(property *models.Property) {
	property.ID = r.nextID
	r.nextID++
	r.properties[property.ID] = *property
}

// Update replaces an existing property.
func (r *MemoryPropertyRepository) Update(_ context.Context, property *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.properties[property.ID]; !ok {
		return fmt.Errorf("property with ID %d for update: %w", property.ID, ErrPropertyNotFound)
	}
	r.properties[property.ID] = *property
	return nil
}

// Delete removes a property by its ID.
func (r *MemoryPropertyRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.properties[id]; !ok {
		return fmt.Errorf("property with ID %d for deletion: %w", id, ErrPropertyNotFound)
	}
	delete(r.properties, id)
	return nil
}

// Count returns the number of stored properties.
func (r *MemoryPropertyRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.properties)), nil
}

// CreateInBatches adds all properties; batching has no meaning in memory.
func (r *MemoryPropertyRepository) CreateInBatches(_ context.Context, properties []models.Property, _ int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range properties {
		r.insert(&properties[i])
	}
	return nil
}
