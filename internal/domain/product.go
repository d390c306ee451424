package domain

import "time"

// MaxProductImages is the most images a single product may carry.
const MaxProductImages = 5

// Uncategorized is the canonical bucket for products without a category.
// Every place that groups by category (inventory aggregation, report
// histogram, catalog selector) uses the same mapping so the counts agree.
const Uncategorized = "Uncategorized"

// ProductImage is a reference to one stored image blob.
type ProductImage struct {
	// The blob store id, needed to release the image when the product is deleted
	ID string `json:"id" bson:"id"`

	// The public URL the image is served from
	URL string `json:"url" bson:"url"`
}

// Product represents the product model
//
// swagger:model
type Product struct {
	// The ID of the product, assigned by the store
	//
	// example: 8a6dcb35-07a4-4c0e-a81d-1e0c2ed6e72b
	ID string `json:"id" bson:"_id,omitempty"`

	// The name of the product
	//
	// required: true
	// example: Basmati Rice 5kg
	Name string `json:"name" bson:"name" validate:"required"`

	// The description of the product
	Description string `json:"description" bson:"description"`

	// The price per unit, currency-agnostic
	//
	// required: true
	// min: 0
	Price float64 `json:"price" bson:"price" validate:"gte=0"`

	// Units currently in stock
	//
	// min: 0
	Stock int `json:"stock" bson:"stock" validate:"gte=0"`

	// Free-form category, e.g. "Grains"
	Category string `json:"category" bson:"category"`

	// Free-form supplier reference
	Supplier string `json:"supplier" bson:"supplier"`

	// Attached images, in display order
	//
	// maxItems: 5
	Images []ProductImage `json:"images" bson:"images" validate:"max=5"`

	// Set by the store on insert
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// CanonicalCategory maps an empty category to the Uncategorized bucket.
func CanonicalCategory(category string) string {
	if category == "" {
		return Uncategorized
	}
	return category
}
