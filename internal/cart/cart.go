// Package cart holds the pure cart rules. Every function returns a new slice and
// leaves its input untouched, so callers replace the held cart wholesale.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/alextreichler/gizmogrid/internal/models"
)

// Add appends p with quantity 1 unless it is already in the cart.
func Add(items []models.CartItem, p models.Product) []models.CartItem {
	if Contains(items, p.ID) {
		return clone(items)
	}
	return append(clone(items), models.CartItem{Product: p, Qty: 1})
}

func Contains(items []models.CartItem, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// Increment raises the quantity of the item with the given id by one.
func Increment(items []models.CartItem, id string) []models.CartItem {
	out := clone(items)
	for i := range out {
		if out[i].ID == id {
			out[i].Qty++
		}
	}
	return out
}

// Decrement lowers the quantity of the item with the given id by one. Items that
// reach zero are dropped from the cart.
func Decrement(items []models.CartItem, id string) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		if it.ID == id {
			it.Qty--
		}
		if it.Qty > 0 {
			out = append(out, it)
		}
	}
	return out
}

// LineTotal is qty × price of one item.
func LineTotal(it models.CartItem) decimal.Decimal {
	return decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Qty)))
}

// OrderValue is Σ(qty × price) over the cart.
func OrderValue(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(LineTotal(it))
	}
	return total
}

// Count is the number of units in the cart.
func Count(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Qty
	}
	return n
}

func clone(items []models.CartItem) []models.CartItem {
	if items == nil {
		return nil
	}
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
