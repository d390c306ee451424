package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/laka02/quickcart/internal/catalog"
	"github.com/laka02/quickcart/internal/domain"
	"github.com/laka02/quickcart/internal/events"
	"github.com/laka02/quickcart/internal/report"
	"github.com/laka02/quickcart/internal/repository"
	"github.com/laka02/quickcart/internal/storage"
)

// ErrAllUploadsFailed is returned when images were submitted but none of
// them could be stored.
var ErrAllUploadsFailed = errors.New("all image uploads failed")

// ImageUpload is one image file submitted with a create or update request.
type ImageUpload struct {
	Contents io.Reader
	MimeType string
}

type ProductService interface {
	GetProducts(ctx context.Context) ([]*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	AddProduct(ctx context.Context, product *domain.Product, images []ImageUpload) error
	UpdateProduct(ctx context.Context, product *domain.Product, existing []domain.ProductImage, images []ImageUpload) error
	DeleteProduct(ctx context.Context, id string) error

	CatalogView(ctx context.Context, spec domain.FilterSpec) (catalog.Result, error)
	InventoryStats(ctx context.Context) (domain.InventorySummary, error)
	TotalStock(ctx context.Context) (int, error)
	InventoryReport(ctx context.Context) (report.Model, error)
}

type productService struct {
	repo     repository.ProductRepository
	blobs    storage.Store
	eventBus *events.EventBus[any]
	logger   hclog.Logger
}

func NewProductService(
	repo repository.ProductRepository,
	blobs storage.Store,
	eventBus *events.EventBus[any],
	logger hclog.Logger) ProductService {
	return &productService{
		repo:     repo,
		blobs:    blobs,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *productService) GetProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Unable to get products", "error", err)
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Unable to get the product by ID", "id", id, "error", err)
		return nil, err
	}
	return product, nil
}

func (s *productService) AddProduct(ctx context.Context, product *domain.Product, images []ImageUpload) error {
	s.logger.Debug("Adding new product", "name", product.Name)

	uploaded, err := s.uploadImages(images)
	if err != nil {
		return err
	}
	product.Images = uploaded

	if err := s.repo.Add(ctx, product); err != nil {
		s.logger.Error("Unable to add product", "name", product.Name, "error", err)
		return err
	}

	s.eventBus.Publish(events.ProductAdded{ProductID: product.ID})
	return nil
}

// UpdateProduct replaces the product's fields. Its image list becomes the
// kept existing images followed by any newly uploaded ones, in that order.
// When the request names no images at all, the current list is kept.
func (s *productService) UpdateProduct(
	ctx context.Context,
	product *domain.Product,
	existing []domain.ProductImage,
	images []ImageUpload) error {
	s.logger.Debug("Updating product", "id", product.ID)

	old, err := s.repo.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}

	uploaded, err := s.uploadImages(images)
	if err != nil {
		return err
	}

	if len(existing) > 0 || len(uploaded) > 0 {
		product.Images = append(existing, uploaded...)
	} else {
		product.Images = old.Images
	}

	if err := s.repo.Update(ctx, product); err != nil {
		s.logger.Error("Unable to update product", "id", product.ID, "error", err)
		return err
	}

	s.eventBus.Publish(events.ProductUpdated{ProductID: product.ID})
	if old.Stock != product.Stock {
		s.eventBus.Publish(events.StockChanged{ProductID: product.ID, NewStock: product.Stock})
	}
	return nil
}

// DeleteProduct removes the product and releases its image blobs. A blob
// that cannot be released does not block the deletion.
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	s.logger.Debug("Deleting product", "id", id)

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	for _, image := range product.Images {
		if image.ID == "" {
			continue
		}
		if err := s.blobs.Delete(image.ID); err != nil {
			s.logger.Error("Unable to delete product image", "id", id, "image", image.ID, "error", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Unable to delete product", "id", id, "error", err)
		return err
	}

	s.eventBus.Publish(events.ProductDeleted{ProductID: id})
	return nil
}

// CatalogView runs the filter/sort/paginate engine over the current
// product snapshot. A failed store fetch degrades to the empty catalog
// rather than an error.
func (s *productService) CatalogView(ctx context.Context, spec domain.FilterSpec) (catalog.Result, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Unable to fetch products for catalog, serving empty view", "error", err)
		products = nil
	}
	return catalog.View(products, spec)
}

// InventoryStats aggregates the whole collection. Like CatalogView it
// degrades to the zero summary when the store is unavailable.
func (s *productService) InventoryStats(ctx context.Context) (domain.InventorySummary, error) {
	summary, err := s.repo.AggregateInventory(ctx)
	if err != nil {
		s.logger.Error("Unable to aggregate inventory, serving zero summary", "error", err)
		return domain.InventorySummary{}, nil
	}
	return summary, nil
}

func (s *productService) TotalStock(ctx context.Context) (int, error) {
	summary, err := s.InventoryStats(ctx)
	if err != nil {
		return 0, err
	}
	return summary.TotalStock, nil
}

func (s *productService) InventoryReport(ctx context.Context) (report.Model, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Unable to fetch products for report, rendering empty report", "error", err)
		products = nil
	}

	summary, err := s.InventoryStats(ctx)
	if err != nil {
		return report.Model{}, err
	}

	return report.BuildInventory(products, summary, time.Now().UTC()), nil
}

// uploadImages stores each submitted image, skipping individual failures.
// It errors only when every upload failed.
func (s *productService) uploadImages(images []ImageUpload) ([]domain.ProductImage, error) {
	var uploaded []domain.ProductImage
	for _, image := range images {
		blob, err := s.blobs.Upload(image.Contents, image.MimeType)
		if err != nil {
			s.logger.Error("Unable to upload image, skipping", "error", err)
			continue
		}
		uploaded = append(uploaded, domain.ProductImage{ID: blob.ID, URL: blob.URL})
	}

	if len(images) > 0 && len(uploaded) == 0 {
		return nil, ErrAllUploadsFailed
	}
	return uploaded, nil
}
