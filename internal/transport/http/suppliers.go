package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/laka02/quickcart/internal/domain"
	"github.com/laka02/quickcart/internal/report"
	"github.com/laka02/quickcart/internal/service"
)

type SupplierHandler struct {
	supplierService service.SupplierService
	renderer        *report.PDFRenderer
	logger          hclog.Logger
}

func NewSupplierHandler(ss service.SupplierService, renderer *report.PDFRenderer, log hclog.Logger) *SupplierHandler {
	return &SupplierHandler{
		supplierService: ss,
		renderer:        renderer,
		logger:          log,
	}
}

// GetSuppliers handles GET /api/suppliers
//
// swagger:route GET /api/suppliers suppliers listSuppliers
//
// Returns all suppliers.
//
// Responses:
//
//	200: suppliersResponse
//	500: errorResponse
func (h *SupplierHandler) GetSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.supplierService.GetSuppliers(r.Context())
	if err != nil {
		h.logger.Error("Error getting suppliers", "error", err)
		respondError(w, http.StatusInternalServerError, "Error getting suppliers")
		return
	}

	respondJSON(w, http.StatusOK, suppliers)
}

// GetSupplierByID handles GET /api/suppliers/{id}
//
// swagger:route GET /api/suppliers/{id} suppliers getSupplierByID
//
// Returns a supplier by ID.
//
// Responses:
//
//	200: supplierResponse
//	404: errorResponse
//	500: errorResponse
func (h *SupplierHandler) GetSupplierByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	supplier, err := h.supplierService.GetSupplierByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSupplierNotFound) {
			respondError(w, http.StatusNotFound, "Supplier not found")
			return
		}
		h.logger.Error("Error getting supplier", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "Error getting supplier")
		return
	}

	respondJSON(w, http.StatusOK, supplier)
}

// AddSupplier handles POST /api/suppliers
//
// swagger:route POST /api/suppliers suppliers addSupplier
//
// Creates a supplier.
//
// Responses:
//
//	201: supplierResponse
//	400: errorResponse
//	422: validationErrorResponse
//	500: errorResponse
func (h *SupplierHandler) AddSupplier(w http.ResponseWriter, r *http.Request) {
	supplier, ok := r.Context().Value(ContextKeySupplier).(*domain.Supplier)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid supplier data")
		return
	}

	err := h.supplierService.AddSupplier(r.Context(), supplier)
	if err != nil {
		h.logger.Error("Error adding supplier", "error", err)
		respondError(w, http.StatusInternalServerError, "Error adding supplier")
		return
	}

	respondJSON(w, http.StatusCreated, supplier)
}

// UpdateSupplier handles PUT /api/suppliers/{id}
//
// swagger:route PUT /api/suppliers/{id} suppliers updateSupplier
//
// Updates a supplier.
//
// Responses:
//
//	200: supplierResponse
//	400: errorResponse
//	404: errorResponse
//	422: validationErrorResponse
//	500: errorResponse
func (h *SupplierHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	supplier, ok := r.Context().Value(ContextKeySupplier).(*domain.Supplier)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid supplier data")
		return
	}
	supplier.ID = mux.Vars(r)["id"]

	err := h.supplierService.UpdateSupplier(r.Context(), supplier)
	if err != nil {
		if errors.Is(err, domain.ErrSupplierNotFound) {
			respondError(w, http.StatusNotFound, "Supplier not found")
			return
		}
		h.logger.Error("Error updating supplier", "error", err, "id", supplier.ID)
		respondError(w, http.StatusInternalServerError, "Error updating supplier")
		return
	}

	respondJSON(w, http.StatusOK, supplier)
}

// DeleteSupplier handles DELETE /api/suppliers/{id}
//
// swagger:route DELETE /api/suppliers/{id} suppliers deleteSupplier
//
// Deletes a supplier.
//
// Responses:
//
//	204: noContentResponse
//	404: errorResponse
//	500: errorResponse
func (h *SupplierHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := h.supplierService.DeleteSupplier(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSupplierNotFound) {
			respondError(w, http.StatusNotFound, "Supplier not found")
			return
		}
		h.logger.Error("Error deleting supplier", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "Error deleting supplier")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// purchaseOrderRequest is the body of POST /api/suppliers/{id}/purchase-orders
type purchaseOrderRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreatePurchaseOrder handles POST /api/suppliers/{id}/purchase-orders
//
// swagger:route POST /api/suppliers/{id}/purchase-orders suppliers createPurchaseOrder
//
// Creates a pending purchase order for a product the supplier carries.
//
// Responses:
//
//	201: purchaseOrderResponse
//	400: errorResponse
//	404: errorResponse
//	422: errorResponse
//	500: errorResponse
func (h *SupplierHandler) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req purchaseOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid purchase order data")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusUnprocessableEntity, "Quantity must be at least 1")
		return
	}

	order, err := h.supplierService.GeneratePurchaseOrder(r.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSupplierNotFound):
			respondError(w, http.StatusNotFound, "Supplier not found")
		case errors.Is(err, domain.ErrProductNotFound):
			respondError(w, http.StatusNotFound, "Product not found")
		case errors.Is(err, domain.ErrSupplierMismatch):
			respondError(w, http.StatusUnprocessableEntity, "Supplier does not carry this product")
		default:
			h.logger.Error("Error creating purchase order", "error", err, "supplier_id", id)
			respondError(w, http.StatusInternalServerError, "Error creating purchase order")
		}
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// GenerateSuppliersPDF handles GET /api/suppliers/pdf/generate
//
// swagger:route GET /api/suppliers/pdf/generate reports generateSuppliersPDF
//
// Streams the supplier directory as a PDF document.
//
// Responses:
//
//	200: pdfResponse
//	500: errorResponse
func (h *SupplierHandler) GenerateSuppliersPDF(w http.ResponseWriter, r *http.Request) {
	model, err := h.supplierService.SuppliersReport(r.Context())
	if err != nil {
		h.logger.Error("Error building suppliers report", "error", err)
		respondError(w, http.StatusInternalServerError, "Error generating report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="suppliers-report.pdf"`)

	if err := h.renderer.Render(model, w); err != nil {
		h.logger.Error("Error rendering suppliers report", "error", err)
	}
}
