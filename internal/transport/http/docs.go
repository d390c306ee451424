// Package classification of QuickCart API
//
// # Documentation for QuickCart API
//
// Schemes: http
// BasePath: /
// Version: 1.0.0
//
// Consumes:
// - application/json
// - multipart/form-data
//
// Produces:
// - application/json
// - application/pdf
//
// swagger:meta
package http

import (
	"github.com/laka02/quickcart/internal/cart"
	"github.com/laka02/quickcart/internal/catalog"
	"github.com/laka02/quickcart/internal/domain"
)

// NOTE: Types defined here are purely for documentation purposes
// These types are not used by any of the handlers

// Generic error message returned as a string
// swagger:response errorResponse
type errorResponseWrapper struct {
	// Description of the error
	// in: body
	Body ErrorResponse
}

// Validation errors defined as an array of strings
// swagger:response validationErrorResponse
type validationErrorResponseWrapper struct {
	// Collection of the errors
	// in: body
	Body ValidationError
}

// A list of products
// swagger:response productsResponse
type productsResponseWrapper struct {
	// All current products
	// in: body
	Body []domain.Product
}

// Data structure representing a single product
// swagger:response productResponse
type productResponseWrapper struct {
	// A single product
	// in: body
	Body domain.Product
}

// One page of the filtered catalog
// swagger:response catalogResponse
type catalogResponseWrapper struct {
	// The page, page counts and category list
	// in: body
	Body catalog.Result
}

// The aggregated inventory summary
// swagger:response inventoryStatsResponse
type inventoryStatsResponseWrapper struct {
	// Inventory totals and category count
	// in: body
	Body domain.InventorySummary
}

// Total stock across all products
// swagger:response totalStockResponse
type totalStockResponseWrapper struct {
	// in: body
	Body struct {
		TotalStock int `json:"totalStock"`
	}
}

// A list of suppliers
// swagger:response suppliersResponse
type suppliersResponseWrapper struct {
	// All current suppliers
	// in: body
	Body []domain.Supplier
}

// Data structure representing a single supplier
// swagger:response supplierResponse
type supplierResponseWrapper struct {
	// A single supplier
	// in: body
	Body domain.Supplier
}

// A generated purchase order
// swagger:response purchaseOrderResponse
type purchaseOrderResponseWrapper struct {
	// in: body
	Body domain.PurchaseOrder
}

// A signed token and the account it belongs to
// swagger:response authResponse
type authResponseWrapper struct {
	// in: body
	Body authResponse
}

// The authenticated account
// swagger:response userResponse
type userResponseWrapper struct {
	// in: body
	Body domain.User
}

// The reset acknowledgement, with the token when the account exists
// swagger:response passwordResetResponse
type passwordResetResponseWrapper struct {
	// in: body
	Body passwordResetResponse
}

// A human-readable outcome message
// swagger:response messageResponse
type messageResponseWrapper struct {
	// in: body
	Body struct {
		Message string `json:"message"`
	}
}

// The session's cart
// swagger:response cartResponse
type cartResponseWrapper struct {
	// in: body
	Body struct {
		Items     []cart.Line `json:"items"`
		ItemCount int         `json:"itemCount"`
		Total     string      `json:"total"`
	}
}

// A PDF document
// swagger:response pdfResponse
type pdfResponseWrapper struct{}

// An image file
// swagger:response imageResponse
type imageResponseWrapper struct{}

// Service liveness
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in: body
	Body struct {
		Status string `json:"status"`
	}
}

// No content response for endpoints that return 204
// swagger:response noContentResponse
type noContentResponseWrapper struct{}

// swagger:parameters getProductByID deleteProduct updateProduct
type productIDParamsWrapper struct {
	// The ID of the product
	// in: path
	// required: true
	ID string `json:"id"`
}

// swagger:parameters getSupplierByID deleteSupplier updateSupplier createPurchaseOrder
type supplierIDParamsWrapper struct {
	// The ID of the supplier
	// in: path
	// required: true
	ID string `json:"id"`
}

// swagger:parameters getCatalog
type catalogParamsWrapper struct {
	// Case-insensitive name substring
	// in: query
	Name string `json:"name"`
	// Exact category
	// in: query
	Category string `json:"category"`
	// Inclusive lower price bound
	// in: query
	PriceMin float64 `json:"price_min"`
	// Inclusive upper price bound
	// in: query
	PriceMax float64 `json:"price_max"`
	// Inclusive lower stock bound, applied when positive
	// in: query
	MinStock int `json:"min_stock"`
	// Sort key: none, price-asc, price-desc, name-asc, name-desc, stock-desc
	// in: query
	Sort string `json:"sort"`
	// 1-based page number
	// in: query
	Page int `json:"page"`
	// Products per page
	// in: query
	PageSize int `json:"page_size"`
}

// ErrorResponse defines the structure for API error responses
//
// swagger:model
type ErrorResponse struct {
	// The error message
	//
	// required: true
	Message string `json:"message"`
}

// ValidationError defines the structure for API validation error responses
//
// swagger:model
type ValidationError struct {
	// The validation errors
	//
	// required: true
	Messages []string `json:"messages"`
}
