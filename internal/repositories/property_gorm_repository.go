package repositories

import (
	"context"
	"errors"
	"fmt"

	"propertyapi/internal/models"

	"gorm.io/gorm"
)

// GORMPropertyRepository is a GORM implementation of PropertyRepository.
type GORMPropertyRepository struct {
	db *gorm.DB
}

// NewGORMPropertyRepository creates a new instance of GORMPropertyRepository.
func NewGORMPropertyRepository(db *gorm.DB) *GORMPropertyRepository {
	return &GORMPropertyRepository{
		db: db,
	}
}

// List retrieves a filtered page of properties and the total number of matches.
func (r *GORMPropertyRepository) List(ctx context.Context, query PropertyQuery) ([]models.Property, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.Property{})
	if query.Bedrooms != nil {
		tx = tx.Where("bedrooms = ?", *query.Bedrooms)
	}
	if query.Bathrooms != nil {
		tx = tx.Where("bathrooms = ?", *query.Bathrooms)
	}
	if query.Type != nil {
		tx = tx.Where("type = ?", *query.Type)
	}
	if query.MinPrice != nil {
		tx = tx.Where("price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		tx = tx.Where("price <= ?", *query.MaxPrice)
	}
	// New session so the count and the page query do not share statement state.
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	properties := make([]models.Property, 0, query.Limit)
	if err := tx.Order("id").Offset(query.Offset).Limit(query.Limit).Find(&properties).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, total, nil
}

// GetByID retrieves a single property by its ID from the database.
func (r *GORMPropertyRepository) GetByID(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	if err := r.db.WithContext(ctx).First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("property with ID %d: %w", id, ErrPropertyNotFound)
		}
		return nil, fmt.Errorf("failed to get property by ID %d: %w", id, err)
	}
	return &property, nil
}

// Create inserts a new property; the database assigns its ID.
func (r *GORMPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	if err := r.db.WithContext(ctx).Create(property).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// Update overwrites every column of an existing property, zero values included.
func (r *GORMPropertyRepository) Update(ctx context.Context, property *models.Property) error {
	res := r.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", property.ID).Updates(map[string]any{
		"address":   property.Address,
		"price":     property.Price,
		"bedrooms":  property.Bedrooms,
		"bathrooms": property.Bathrooms,
		"type":      property.Type,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update property %d: %w", property.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("property with ID %d for update: %w", property.ID, ErrPropertyNotFound)
	}
	return nil
}

// Delete removes a property by its ID from the database.
func (r *GORMPropertyRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Property{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete property %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("property with ID %d for deletion: %w", id, ErrPropertyNotFound)
	}
	return nil
}

// Count returns the number of stored properties.
func (r *GORMPropertyRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Property{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return n, nil
}

// CreateInBatches inserts many properties using multi-row inserts.
func (r *GORMPropertyRepository) CreateInBatches(ctx context.Context, properties []models.Property, batchSize int) error {
	if err := r.db.WithContext(ctx).CreateInBatches(properties, batchSize).Error; err != nil {
		return fmt.Errorf("failed to insert %d properties: %w", len(properties), err)
	}
	return nil
}
