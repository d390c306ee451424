package domain

import "time"

// Address is a supplier's postal address.
type Address struct {
	Street     string `json:"street" bson:"street"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state" bson:"state"`
	Country    string `json:"country" bson:"country"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
}

// Supplier represents a vendor that provides products
//
// swagger:model
type Supplier struct {
	// The ID of the supplier, assigned by the store
	ID string `json:"id" bson:"_id,omitempty"`

	// The supplier name
	//
	// required: true
	Name string `json:"name" bson:"name" validate:"required"`

	// Contact email
	//
	// required: true
	Email string `json:"email" bson:"email" validate:"required,email"`

	Phone   string  `json:"phone" bson:"phone"`
	Address Address `json:"address" bson:"address"`

	// IDs of the products this supplier provides
	ProductsSupplied []string `json:"products_supplied" bson:"products_supplied"`

	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Supplies reports whether the supplier provides the given product.
func (s *Supplier) Supplies(productID string) bool {
	for _, id := range s.ProductsSupplied {
		if id == productID {
			return true
		}
	}
	return false
}

// PurchaseOrder is a restock request issued to a supplier.
type PurchaseOrder struct {
	SupplierID string    `json:"supplier_id"`
	ProductID  string    `json:"product_id"`
	Quantity   int       `json:"quantity"`
	OrderDate  time.Time `json:"order_date"`
	Status     string    `json:"status"`
}
