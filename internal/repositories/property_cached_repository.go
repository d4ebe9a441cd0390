package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"propertyapi/internal/models"

	"github.com/patrickmn/go-cache"
)

type cachedPage struct {
	properties []models.Property
	total      int64
}

// CachedPropertyRepository caches reads of another PropertyRepository.
// Any successful write flushes the whole cache.
type CachedPropertyRepository struct {
	next  PropertyRepository
	cache *cache.Cache

	mu         sync.Mutex
	generation uint64 // bumped on every write; a read only stores if it is unchanged
}

// NewCachedPropertyRepository wraps next with a read cache whose entries live for ttl.
func NewCachedPropertyRepository(next PropertyRepository, ttl time.Duration) *CachedPropertyRepository {
	return &CachedPropertyRepository{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *CachedPropertyRepository) currentGeneration() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

func (r *CachedPropertyRepository) store(key string, value any, generation uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generation == generation {
		r.cache.SetDefault(key, value)
	}
}

func (r *CachedPropertyRepository) invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.cache.Flush()
}

func listKey(q PropertyQuery) string {
	parts := []string{"list"}
	for _, v := range []*int{q.Bedrooms, q.Bathrooms} {
		if v == nil {
			parts = append(parts, "")
		} else {
			parts = append(parts, strconv.Itoa(*v))
		}
	}
	if q.Type == nil {
		parts = append(parts, "")
	} else {
		parts = append(parts, strconv.Quote(*q.Type))
	}
	for _, v := range []*float64{q.MinPrice, q.MaxPrice} {
		if v == nil {
			parts = append(parts, "")
		} else {
			parts = append(parts, strconv.FormatFloat(*v, 'g', -1, 64))
		}
	}
	parts = append(parts, strconv.Itoa(q.Offset), strconv.Itoa(q.Limit))
	return strings.Join(parts, "|")
}

// List implements PropertyRepository.
func (r *CachedPropertyRepository) List(ctx context.Context, query PropertyQuery) ([]models.Property, int64, error) {
	key := listKey(query)
	if cached, found := r.cache.Get(key); found {
		page := cached.(cachedPage)
		return append([]models.Property{}, page.properties...), page.total, nil
	}

	generation := r.currentGeneration()
	properties, total, err := r.next.List(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	r.store(key, cachedPage{properties: append([]models.Property{}, properties...), total: total}, generation)
	return properties, total, nil
}

// GetByID implements PropertyRepository.
func (r *CachedPropertyRepository) GetByID(ctx context.Context, id uint) (*models.Property, error) {
	key := fmt.Sprintf("property|%d", id)
	if cached, found := r.cache.Get(key); found {
		property := cached.(models.Property)
		return &property, nil
	}

	generation := r.currentGeneration()
	property, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(key, *property, generation)
	return property, nil
}

// Create implements PropertyRepository.
func (r *CachedPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	if err := r.next.Create(ctx, property); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

// Update implements PropertyRepository.
func (r *CachedPropertyRepository) Update(ctx context.Context, property *models.Property) error {
	if err := r.next.Update(ctx, property); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

// Delete implements PropertyRepository.
func (r *CachedPropertyRepository) Delete(ctx context.Context, id uint) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

// Count implements PropertyRepository. It is not cached.
func (r *CachedPropertyRepository) Count(ctx context.Context) (int64, error) {
	return r.next.Count(ctx)
}

// CreateInBatches implements PropertyRepository.
func (r *CachedPropertyRepository) CreateInBatches(ctx context.Context, properties []models.Property, batchSize int) error {
	if err := r.next.CreateInBatches(ctx, properties, batchSize); err != nil {
		return err
	}
	r.invalidate()
	return nil
}
