package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/laka02/quickcart/internal/domain"
)

type SupplierRepository interface {
	GetAll(ctx context.Context) ([]*domain.Supplier, error)
	GetByID(ctx context.Context, id string) (*domain.Supplier, error)
	Add(ctx context.Context, supplier *domain.Supplier) error
	Update(ctx context.Context, supplier *domain.Supplier) error
	Delete(ctx context.Context, id string) error
}

type memorySupplierRepository struct {
	suppliers []*domain.Supplier
	mutex     sync.RWMutex
}

func NewMemorySupplierRepository() SupplierRepository {
	return &memorySupplierRepository{}
}

func (r *memorySupplierRepository) GetAll(ctx context.Context) ([]*domain.Supplier, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	suppliers := make([]*domain.Supplier, len(r.suppliers))
	copy(suppliers, r.suppliers)
	return suppliers, nil
}

func (r *memorySupplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, supplier := range r.suppliers {
		if supplier.ID == id {
			return supplier, nil
		}
	}

	return nil, domain.ErrSupplierNotFound
}

func (r *memorySupplierRepository) Add(ctx context.Context, supplier *domain.Supplier) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now().UTC()
	supplier.ID = uuid.New().String()
	supplier.CreatedAt = now
	supplier.UpdatedAt = now
	r.suppliers = append(r.suppliers, supplier)
	return nil
}

func (r *memorySupplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, s := range r.suppliers {
		if s.ID == supplier.ID {
			supplier.CreatedAt = s.CreatedAt
			supplier.UpdatedAt = time.Now().UTC()
			r.suppliers[i] = supplier
			return nil
		}
	}

	return domain.ErrSupplierNotFound
}

func (r *memorySupplierRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, supplier := range r.suppliers {
		if supplier.ID == id {
			r.suppliers = append(r.suppliers[:i], r.suppliers[i+1:]...)
			return nil
		}
	}

	return domain.ErrSupplierNotFound
}
