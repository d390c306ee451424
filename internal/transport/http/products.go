package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/laka02/quickcart/internal/domain"
	"github.com/laka02/quickcart/internal/report"
	"github.com/laka02/quickcart/internal/service"
)

// maxUploadMemory bounds the in-memory portion of a multipart product
// form; larger file parts spill to temp files.
const maxUploadMemory = 32 << 20

type ProductHandler struct {
	productService service.ProductService
	renderer       *report.PDFRenderer
	validator      *domain.Validation
	logger         hclog.Logger
}

func NewProductHandler(ps service.ProductService, renderer *report.PDFRenderer, v *domain.Validation, log hclog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: ps,
		renderer:       renderer,
		validator:      v,
		logger:         log,
	}
}

// GetProducts handles GET /api/products
//
// swagger:route GET /api/products products listProducts
//
// Returns every product, unfiltered.
//
// Responses:
//
//	200: productsResponse
//	500: errorResponse
func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.GetProducts(r.Context())
	if err != nil {
		h.logger.Error("Error getting products", "error", err)
		respondError(w, http.StatusInternalServerError, "Error getting products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// GetCatalog handles GET /api/catalog
//
// swagger:route GET /api/catalog products getCatalog
//
// Returns one page of the filtered, sorted catalog together with the
// page count and the category list for the filter controls.
//
// Responses:
//
//	200: catalogResponse
//	422: validationErrorResponse
//	500: errorResponse
func (h *ProductHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	spec, errs := h.parseFilterSpec(r)
	if len(errs) > 0 {
		respondJSON(w, http.StatusUnprocessableEntity, errs)
		return
	}

	result, err := h.productService.CatalogView(r.Context(), spec)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFilter) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.Error("Error building catalog view", "error", err)
		respondError(w, http.StatusInternalServerError, "Error getting catalog")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetProductByID handles GET /api/products/{id}
//
// swagger:route GET /api/products/{id} products getProductByID
//
// Returns a product by ID.
//
// Responses:
//
//	200: productResponse
//	404: errorResponse
//	500: errorResponse
func (h *ProductHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.productService.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("Error getting product", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "Error getting product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// AddProduct handles POST /api/products
//
// swagger:route POST /api/products products addProduct
//
// Creates a product from a multipart form carrying the product fields
// and up to five image files under "images".
//
// Responses:
//
//	201: productResponse
//	400: errorResponse
//	422: validationErrorResponse
//	500: errorResponse
func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	product, _, images, ok := h.parseProductForm(w, r)
	if !ok {
		return
	}
	defer closeUploads(images)

	err := h.productService.AddProduct(r.Context(), product, images)
	if err != nil {
		h.logger.Error("Error adding product", "error", err)
		respondError(w, http.StatusInternalServerError, "Error adding product")
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/{id}
//
// swagger:route PUT /api/products/{id} products updateProduct
//
// Updates a product. The multipart form may name images to keep under
// "existing_images" and new files to add under "images".
//
// Responses:
//
//	200: productResponse
//	400: errorResponse
//	404: errorResponse
//	422: validationErrorResponse
//	500: errorResponse
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	product, existing, images, ok := h.parseProductForm(w, r)
	if !ok {
		return
	}
	defer closeUploads(images)
	product.ID = mux.Vars(r)["id"]

	err := h.productService.UpdateProduct(r.Context(), product, existing, images)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("Error updating product", "error", err, "id", product.ID)
		respondError(w, http.StatusInternalServerError, "Error updating product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/{id}
//
// swagger:route DELETE /api/products/{id} products deleteProduct
//
// Deletes a product and its stored images.
//
// Responses:
//
//	204: noContentResponse
//	404: errorResponse
//	500: errorResponse
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := h.productService.DeleteProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("Error deleting product", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "Error deleting product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetInventoryStats handles GET /api/products/stats/inventory
//
// swagger:route GET /api/products/stats/inventory products getInventoryStats
//
// Returns the aggregated inventory summary.
//
// Responses:
//
//	200: inventoryStatsResponse
//	500: errorResponse
func (h *ProductHandler) GetInventoryStats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.productService.InventoryStats(r.Context())
	if err != nil {
		h.logger.Error("Error aggregating inventory", "error", err)
		respondError(w, http.StatusInternalServerError, "Error getting inventory stats")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetTotalStock handles GET /api/products/total-stock
//
// swagger:route GET /api/products/total-stock products getTotalStock
//
// Returns the total stock across all products.
//
// Responses:
//
//	200: totalStockResponse
//	500: errorResponse
func (h *ProductHandler) GetTotalStock(w http.ResponseWriter, r *http.Request) {
	total, err := h.productService.TotalStock(r.Context())
	if err != nil {
		h.logger.Error("Error getting total stock", "error", err)
		respondError(w, http.StatusInternalServerError, "Error getting total stock")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"totalStock": total})
}

// GenerateInventoryPDF handles GET /api/pdf/generate
//
// swagger:route GET /api/pdf/generate reports generateInventoryPDF
//
// Streams the inventory report as a PDF document.
//
// Responses:
//
//	200: pdfResponse
//	500: errorResponse
func (h *ProductHandler) GenerateInventoryPDF(w http.ResponseWriter, r *http.Request) {
	model, err := h.productService.InventoryReport(r.Context())
	if err != nil {
		h.logger.Error("Error building inventory report", "error", err)
		respondError(w, http.StatusInternalServerError, "Error generating report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory-report.pdf"`)

	if err := h.renderer.Render(model, w); err != nil {
		// Headers are already out; all we can do is log.
		h.logger.Error("Error rendering inventory report", "error", err)
	}
}

// parseProductForm reads a multipart product form. On failure it writes
// the error response itself and returns ok=false.
func (h *ProductHandler) parseProductForm(w http.ResponseWriter, r *http.Request) (*domain.Product, []domain.ProductImage, []service.ImageUpload, bool) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.logger.Error("Error parsing product form", "error", err)
		respondError(w, http.StatusBadRequest, "Invalid product form")
		return nil, nil, nil, false
	}

	product := &domain.Product{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Supplier:    r.FormValue("supplier"),
	}

	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid price")
			return nil, nil, nil, false
		}
		product.Price = price
	}
	if v := r.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid stock")
			return nil, nil, nil, false
		}
		product.Stock = stock
	}

	var existing []domain.ProductImage
	if v := r.FormValue("existing_images"); v != "" {
		if err := json.Unmarshal([]byte(v), &existing); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid existing_images")
			return nil, nil, nil, false
		}
	}

	var images []service.ImageUpload
	if r.MultipartForm != nil {
		files := r.MultipartForm.File["images"]
		if len(existing)+len(files) > domain.MaxProductImages {
			respondError(w, http.StatusUnprocessableEntity, "A product can carry at most 5 images")
			return nil, nil, nil, false
		}
		for _, header := range files {
			file, err := header.Open()
			if err != nil {
				h.logger.Error("Error opening uploaded image", "error", err, "name", header.Filename)
				closeUploads(images)
				respondError(w, http.StatusBadRequest, "Unreadable image upload")
				return nil, nil, nil, false
			}
			images = append(images, service.ImageUpload{
				Contents: file,
				MimeType: header.Header.Get("Content-Type"),
			})
		}
	}

	if errs := h.validator.Validate(product); len(errs) > 0 {
		closeUploads(images)
		respondJSON(w, http.StatusUnprocessableEntity, errs)
		return nil, nil, nil, false
	}

	return product, existing, images, true
}

// closeUploads releases the multipart file handles once the service has
// consumed them.
func closeUploads(images []service.ImageUpload) {
	for _, image := range images {
		if closer, ok := image.Contents.(io.Closer); ok {
			closer.Close()
		}
	}
}

// parseFilterSpec maps catalog query parameters onto the default spec.
// Unparseable numbers are reported as validation errors rather than
// silently ignored.
func (h *ProductHandler) parseFilterSpec(r *http.Request) (domain.FilterSpec, []string) {
	spec := domain.DefaultFilterSpec()
	q := r.URL.Query()
	var errs []string

	spec.NameSubstring = q.Get("name")
	spec.Category = q.Get("category")
	if v := q.Get("sort"); v != "" {
		spec.SortKey = v
	}

	parseFloat := func(key string, dst *float64) {
		if v := q.Get(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, "invalid "+key)
				return
			}
			*dst = f
		}
	}
	parseInt := func(key string, dst *int) {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, "invalid "+key)
				return
			}
			*dst = n
		}
	}

	parseFloat("price_min", &spec.PriceMin)
	parseFloat("price_max", &spec.PriceMax)
	parseInt("min_stock", &spec.MinStock)
	parseInt("page", &spec.PageNumber)
	parseInt("page_size", &spec.PageSize)

	return spec, errs
}
