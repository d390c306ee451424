package service

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/laka02/quickcart/internal/domain"
	"github.com/laka02/quickcart/internal/events"
	"github.com/laka02/quickcart/internal/report"
	"github.com/laka02/quickcart/internal/repository"
)

type SupplierService interface {
	GetSuppliers(ctx context.Context) ([]*domain.Supplier, error)
	GetSupplierByID(ctx context.Context, id string) (*domain.Supplier, error)
	AddSupplier(ctx context.Context, supplier *domain.Supplier) error
	UpdateSupplier(ctx context.Context, supplier *domain.Supplier) error
	DeleteSupplier(ctx context.Context, id string) error

	GeneratePurchaseOrder(ctx context.Context, supplierID, productID string, quantity int) (domain.PurchaseOrder, error)
	SuppliersReport(ctx context.Context) (report.Model, error)
}

type supplierService struct {
	repo     repository.SupplierRepository
	products repository.ProductRepository
	eventBus *events.EventBus[any]
	logger   hclog.Logger
}

func NewSupplierService(
	repo repository.SupplierRepository,
	products repository.ProductRepository,
	eventBus *events.EventBus[any],
	logger hclog.Logger) SupplierService {
	return &supplierService{
		repo:     repo,
		products: products,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *supplierService) GetSuppliers(ctx context.Context) ([]*domain.Supplier, error) {
	suppliers, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Unable to get suppliers", "error", err)
		return nil, err
	}
	return suppliers, nil
}

func (s *supplierService) GetSupplierByID(ctx context.Context, id string) (*domain.Supplier, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Unable to get the supplier by ID", "id", id, "error", err)
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) AddSupplier(ctx context.Context, supplier *domain.Supplier) error {
	s.logger.Debug("Adding new supplier", "name", supplier.Name)

	if err := s.repo.Add(ctx, supplier); err != nil {
		s.logger.Error("Unable to add supplier", "name", supplier.Name, "error", err)
		return err
	}

	s.eventBus.Publish(events.SupplierAdded{SupplierID: supplier.ID})
	return nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, supplier *domain.Supplier) error {
	s.logger.Debug("Updating supplier", "id", supplier.ID)

	if err := s.repo.Update(ctx, supplier); err != nil {
		s.logger.Error("Unable to update supplier", "id", supplier.ID, "error", err)
		return err
	}
	return nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id string) error {
	s.logger.Debug("Deleting supplier", "id", id)

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Unable to delete supplier", "id", id, "error", err)
		return err
	}
	return nil
}

// GeneratePurchaseOrder issues a pending restock request after checking
// that the supplier actually provides the product.
func (s *supplierService) GeneratePurchaseOrder(
	ctx context.Context,
	supplierID, productID string,
	quantity int) (domain.PurchaseOrder, error) {
	supplier, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return domain.PurchaseOrder{}, err
	}

	if !supplier.Supplies(productID) {
		return domain.PurchaseOrder{}, domain.ErrSupplierMismatch
	}

	order := domain.PurchaseOrder{
		SupplierID: supplierID,
		ProductID:  productID,
		Quantity:   quantity,
		OrderDate:  time.Now().UTC(),
		Status:     "pending",
	}

	s.logger.Info("Purchase order generated",
		"supplier", supplier.Name,
		"product_id", productID,
		"quantity", quantity)
	return order, nil
}

func (s *supplierService) SuppliersReport(ctx context.Context) (report.Model, error) {
	suppliers, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Unable to fetch suppliers for report, rendering empty report", "error", err)
		suppliers = nil
	}
	return report.BuildSuppliers(suppliers, time.Now().UTC()), nil
}
