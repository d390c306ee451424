package domain

// Sort keys accepted by FilterSpec.SortKey.
const (
	SortNone      = "none"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
	SortStockDesc = "stock-desc"
)

// SortKeys lists every valid sort key.
var SortKeys = []string{
	SortNone, SortPriceAsc, SortPriceDesc,
	SortNameAsc, SortNameDesc, SortStockDesc,
}

// FilterSpec is the catalog view's query state: which products to show,
// in what order, and which page of them.
//
// swagger:model
type FilterSpec struct {
	// Case-insensitive substring the product name must contain
	NameSubstring string `json:"name"`

	// Inclusive price bounds
	PriceMin float64 `json:"price_min" validate:"gte=0"`
	PriceMax float64 `json:"price_max" validate:"gte=0"`

	// Inclusive lower stock bound; only applied when > 0
	MinStock int `json:"min_stock" validate:"gte=0"`

	// Exact category match; empty means any category
	Category string `json:"category"`

	// One of: none, price-asc, price-desc, name-asc, name-desc, stock-desc
	SortKey string `json:"sort" validate:"sortkey"`

	// Products per page
	PageSize int `json:"page_size" validate:"gt=0"`

	// 1-based page number
	PageNumber int `json:"page"`
}

// DefaultFilterSpec matches everything, unsorted, first page of eight.
// The page size mirrors the storefront's default grid.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		PriceMax:   maxPrice,
		SortKey:    SortNone,
		PageSize:   8,
		PageNumber: 1,
	}
}

// maxPrice is an effectively unbounded upper price limit.
const maxPrice = 1e15
