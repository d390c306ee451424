// Package inventory computes aggregate statistics over the product
// collection. The accumulator folds one product at a time so callers can
// stream records without materialising intermediate slices.
package inventory

import (
	"fmt"

	"github.com/laka02/quickcart/internal/domain"
	"github.com/shopspring/decimal"
)

// Accumulator folds products into an InventorySummary.
// The zero-product summary is all zeros, never an error.
type Accumulator struct {
	count      int
	stock      int
	priceSum   decimal.Decimal
	valueSum   decimal.Decimal
	categories map[string]struct{}
}

func NewAccumulator() *Accumulator {
	return &Accumulator{categories: make(map[string]struct{})}
}

// Add folds one product into the running totals. Products violating the
// model invariants are rejected and leave the totals unchanged.
func (a *Accumulator) Add(p *domain.Product) error {
	if p.Price < 0 {
		return fmt.Errorf("product %q has negative price %v", p.Name, p.Price)
	}
	if p.Stock < 0 {
		return fmt.Errorf("product %q has negative stock %d", p.Name, p.Stock)
	}

	price := decimal.NewFromFloat(p.Price)
	a.count++
	a.stock += p.Stock
	a.priceSum = a.priceSum.Add(price)
	a.valueSum = a.valueSum.Add(price.Mul(decimal.NewFromInt(int64(p.Stock))))
	a.categories[domain.CanonicalCategory(p.Category)] = struct{}{}
	return nil
}

// Summary returns the aggregate over everything added so far.
// Monetary fields are rounded half-up to 2 decimal places.
func (a *Accumulator) Summary() domain.InventorySummary {
	if a.count == 0 {
		return domain.InventorySummary{}
	}

	avg := a.priceSum.Div(decimal.NewFromInt(int64(a.count)))
	return domain.InventorySummary{
		TotalProducts: a.count,
		TotalStock:    a.stock,
		AveragePrice:  avg.Round(2).InexactFloat64(),
		TotalValue:    a.valueSum.Round(2).InexactFloat64(),
		CategoryCount: len(a.categories),
	}
}

// ComputeSummary aggregates a full product list in one pass.
func ComputeSummary(products []*domain.Product) (domain.InventorySummary, error) {
	acc := NewAccumulator()
	for _, p := range products {
		if err := acc.Add(p); err != nil {
			return domain.InventorySummary{}, err
		}
	}
	return acc.Summary(), nil
}
