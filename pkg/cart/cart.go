// Package cart implements the shopping cart: a mutable line-item collection
// keyed by product id, independent of the catalog snapshots.
package cart

import (
	"errors"

	"github.com/cajapos/caja/pkg/catalog"
)

// ErrInsufficientStock is returned when adding a product would push its line
// quantity past the product's available stock.
var ErrInsufficientStock = errors.New("insufficient stock")

// Cart accumulates lines for a pending sale. Lines snapshot the product's
// name and price at insertion time; later catalog reloads do not touch them.
// The cart survives reloads and is cleared only after a successful sale.
type Cart struct {
	lines []catalog.CartLine
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts one unit of p in the cart. An existing line is incremented only
// while the result stays within p.Stock; otherwise ErrInsufficientStock is
// returned and the cart is unchanged. A product with no line gets a new line
// with quantity 1.
func (c *Cart) Add(p catalog.Product) error {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			if c.lines[i].Quantity >= p.Stock {
				return ErrInsufficientStock
			}
			c.lines[i].Quantity++
			return nil
		}
	}
	if p.Stock < 1 {
		return ErrInsufficientStock
	}
	c.lines = append(c.lines, catalog.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
	})
	return nil
}

// Remove drops the line for productID. Removing an absent product is a no-op.
func (c *Cart) Remove(productID int64) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Total recomputes the cart total on every call.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []catalog.CartLine {
	out := make([]catalog.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// SaleRequest builds the sale submission payload from the current lines.
func (c *Cart) SaleRequest() catalog.SaleRequest {
	items := make([]catalog.SaleItem, len(c.lines))
	for i, l := range c.lines {
		items[i] = catalog.SaleItem{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return catalog.SaleRequest{Items: items}
}
