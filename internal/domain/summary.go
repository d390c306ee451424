package domain

// InventorySummary holds aggregate statistics over the full product
// collection. It is derived on demand and never stored.
//
// swagger:model
type InventorySummary struct {
	// Number of products
	TotalProducts int `json:"totalProducts" bson:"totalProducts"`

	// Sum of stock across all products
	TotalStock int `json:"totalStock" bson:"totalStock"`

	// Mean price, rounded half-up to 2 decimals
	AveragePrice float64 `json:"averagePrice" bson:"averagePrice"`

	// Sum of price*stock per product, rounded half-up to 2 decimals
	TotalValue float64 `json:"totalValue" bson:"totalValue"`

	// Number of distinct categories (empty category counts as Uncategorized)
	CategoryCount int `json:"categoryCount" bson:"categoryCount"`
}
