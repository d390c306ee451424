package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/laka02/quickcart/internal/domain"
	"github.com/laka02/quickcart/internal/inventory"
)

type ProductRepository interface {
	GetAll(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Add(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error

	// AggregateInventory computes the inventory summary over the whole
	// collection inside the store, without transferring every record.
	AggregateInventory(ctx context.Context) (domain.InventorySummary, error)
}

type memoryProductRepository struct {
	products []*domain.Product
	mutex    sync.RWMutex
}

// NewMemoryProductRepository is the store used when no Mongo URI is
// configured; it keeps everything in process memory.
func NewMemoryProductRepository() ProductRepository {
	return &memoryProductRepository{}
}

func (r *memoryProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	products := make([]*domain.Product, len(r.products))
	copy(products, r.products)
	return products, nil
}

func (r *memoryProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, product := range r.products {
		if product.ID == id {
			return product, nil
		}
	}

	return nil, domain.ErrProductNotFound
}

func (r *memoryProductRepository) Add(ctx context.Context, product *domain.Product) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	product.ID = uuid.New().String()
	product.CreatedAt = time.Now().UTC()
	r.products = append(r.products, product)
	return nil
}

func (r *memoryProductRepository) Update(ctx context.Context, product *domain.Product) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, p := range r.products {
		if p.ID == product.ID {
			product.CreatedAt = p.CreatedAt
			r.products[i] = product
			return nil
		}
	}

	return domain.ErrProductNotFound
}

func (r *memoryProductRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, product := range r.products {
		if product.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}

	return domain.ErrProductNotFound
}

func (r *memoryProductRepository) AggregateInventory(ctx context.Context) (domain.InventorySummary, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return inventory.ComputeSummary(r.products)
}
