// internal/models/product.go
package models

import "time"

// Product is a catalog entry annotated with its moderation status. The whole
// catalog is the unit of persistence: one blob under the "catalog" key.
type Product struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Price           float64       `json:"price"`
	Description     string        `json:"description"`
	Category        string        `json:"category"`
	Image           string        `json:"image,omitempty"`
	InStock         bool          `json:"in_stock"`
	Rating          float64       `json:"rating"`
	SellerName      string        `json:"seller"`
	SellerID        string        `json:"seller_id"`
	Status          ProductStatus `json:"status"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
