package events

type ProductAdded struct {
	ProductID string `json:"product_id"`
}

type ProductUpdated struct {
	ProductID string `json:"product_id"`
}

type ProductDeleted struct {
	ProductID string `json:"product_id"`
}

// StockChanged is published when an update moves a product's stock level,
// so dashboards can refresh their inventory figures live.
type StockChanged struct {
	ProductID string `json:"product_id"`
	NewStock  int    `json:"new_stock"`
}

type SupplierAdded struct {
	SupplierID string `json:"supplier_id"`
}
