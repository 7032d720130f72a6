// internal/models/cart.go
package models

// CartItem is one line of a user's cart: a product snapshot plus quantity.
// Invariant: a cart holds at most one line per product ID; adding the same
// product again merges into the existing line.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the derived view returned to callers; totals are recomputed from
// the live item list, never stored.
type Cart struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	Subtotal   float64    `json:"subtotal"`
}

func NewCart(items []CartItem) Cart {
	cart := Cart{Items: items}
	for _, item := range items {
		cart.TotalItems += item.Quantity
		cart.Subtotal += item.Product.Price * float64(item.Quantity)
	}
	return cart
}
