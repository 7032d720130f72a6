// internal/models/order.go
package models

import "time"

// Order is a checkout snapshot of a cart. Orders are persisted per user under
// "orders:<userID>".
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Items     []CartItem  `json:"items"`
	Subtotal  float64     `json:"subtotal"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TotalQuantity sums the quantities across all order lines.
func (o Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}
