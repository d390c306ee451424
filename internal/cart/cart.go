// Package cart maintains a shopper's set of (product, quantity) lines.
// A Cart is owned by a single browsing session and mutated by one caller
// at a time; the session Store provides the locking for the HTTP layer.
package cart

import (
	"fmt"

	"github.com/laka02/quickcart/internal/domain"
	"github.com/shopspring/decimal"
)

// Line is one product the shopper intends to buy. The product fields are
// a snapshot taken when the line was created; in particular the stock
// bound used for quantity clamping is the add-time stock.
type Line struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart is an ordered collection of lines, at most one per product.
type Cart struct {
	lines []*Line
}

func New() *Cart {
	return &Cart{}
}

// Add puts one unit of the product in the cart. If a line for the product
// already exists its quantity is incremented. Adding a zero-stock product,
// or incrementing past the snapshot stock, is rejected with ErrCartRejected
// and leaves the cart unchanged.
func (c *Cart) Add(p domain.Product) error {
	if line := c.find(p.ID); line != nil {
		if line.Quantity >= line.Product.Stock {
			return fmt.Errorf("%w: %q is already at its stock limit of %d",
				domain.ErrCartRejected, line.Product.Name, line.Product.Stock)
		}
		line.Quantity++
		return nil
	}

	if p.Stock <= 0 {
		return fmt.Errorf("%w: %q is out of stock", domain.ErrCartRejected, p.Name)
	}
	c.lines = append(c.lines, &Line{Product: p, Quantity: 1})
	return nil
}

// UpdateQuantity sets the line's quantity, clamped to the snapshot stock.
// Requests below 1 are rejected; removal is a separate, explicit operation.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	line := c.find(productID)
	if line == nil {
		return domain.ErrProductNotFound
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", domain.ErrCartRejected)
	}
	if quantity > line.Product.Stock {
		quantity = line.Product.Stock
	}
	line.Quantity = quantity
	return nil
}

// Remove deletes the product's line. Removing an absent product is a no-op.
func (c *Cart) Remove(productID string) {
	for i, line := range c.lines {
		if line.Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns the cart contents in insertion order. The slice is a copy;
// the lines themselves are not.
func (c *Cart) Lines() []*Line {
	out := make([]*Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// ItemCount is the sum of quantities across all lines, not the line count.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Total is the unrounded sum of price*quantity across all lines.
// Rounding happens only at display time, see FormatTotal.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, line := range c.lines {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}

// FormatTotal renders the total with exactly two decimal places.
func (c *Cart) FormatTotal() string {
	return decimal.NewFromFloat(c.Total()).Round(2).StringFixed(2)
}

func (c *Cart) find(productID string) *Line {
	for _, line := range c.lines {
		if line.Product.ID == productID {
			return line
		}
	}
	return nil
}
