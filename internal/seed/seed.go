// internal/seed/seed.go
package seed

import (
	"time"

	"github.com/vendora/vendora-backend/internal/models"
)

// DefaultCatalog is the fixture catalog loaded when no catalog blob exists or
// the stored blob cannot be decoded.
func DefaultCatalog() []models.Product {
	base := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

	return []models.Product{
		{
			ID:          "prod-seed-0001",
			Name:        "Wireless Earbuds Pro",
			Price:       89.99,
			Description: "Noise-cancelling earbuds with 24h battery life.",
			Category:    "electronics",
			Image:       "/images/earbuds.jpg",
			InStock:     true,
			Rating:      4.6,
			SellerName:  "TechGadgets",
			SellerID:    "usr-seed-seller-1",
			Status:      models.ProductStatusActive,
			CreatedAt:   base,
			UpdatedAt:   base,
		},
		{
			ID:          "prod-seed-0002",
			Name:        "Smart Watch Series 5",
			Price:       199.00,
			Description: "Fitness tracking, heart-rate monitor, AMOLED display.",
			Category:    "electronics",
			Image:       "/images/watch.jpg",
			InStock:     true,
			Rating:      4.4,
			SellerName:  "TechGadgets",
			SellerID:    "usr-seed-seller-1",
			Status:      models.ProductStatusActive,
			CreatedAt:   base.Add(time.Hour),
			UpdatedAt:   base.Add(time.Hour),
		},
		{
			ID:          "prod-seed-0003",
			Name:        "Organic Cotton Hoodie",
			Price:       54.50,
			Description: "Heavyweight hoodie in natural dye, unisex fit.",
			Category:    "fashion",
			Image:       "/images/hoodie.jpg",
			InStock:     true,
			Rating:      4.8,
			SellerName:  "UrbanThreads",
			SellerID:    "usr-seed-seller-2",
			Status:      models.ProductStatusActive,
			CreatedAt:   base.Add(2 * time.Hour),
			UpdatedAt:   base.Add(2 * time.Hour),
		},
		{
			ID:          "prod-seed-0004",
			Name:        "Ceramic Pour-Over Set",
			Price:       42.00,
			Description: "Hand-thrown dripper and carafe for slow coffee.",
			Category:    "home",
			Image:       "/images/pourover.jpg",
			InStock:     false,
			Rating:      4.9,
			SellerName:  "ClayWorks",
			SellerID:    "usr-seed-seller-3",
			Status:      models.ProductStatusActive,
			CreatedAt:   base.Add(3 * time.Hour),
			UpdatedAt:   base.Add(3 * time.Hour),
		},
		{
			ID:          "prod-seed-0005",
			Name:        "Trail Running Shoes",
			Price:       119.95,
			Description: "Grippy outsole, rock plate, 8mm drop.",
			Category:    "sports",
			Image:       "/images/shoes.jpg",
			InStock:     true,
			Rating:      4.3,
			SellerName:  "PeakGear",
			SellerID:    "usr-seed-seller-4",
			Status:      models.ProductStatusActive,
			CreatedAt:   base.Add(4 * time.Hour),
			UpdatedAt:   base.Add(4 * time.Hour),
		},
		{
			ID:          "prod-seed-0006",
			Name:        "Bamboo Desk Organizer",
			Price:       27.90,
			Description: "Five-compartment organizer with phone stand.",
			Category:    "home",
			Image:       "/images/organizer.jpg",
			InStock:     true,
			Rating:      4.1,
			SellerName:  "ClayWorks",
			SellerID:    "usr-seed-seller-3",
			Status:      models.ProductStatusPending,
			CreatedAt:   base.Add(5 * time.Hour),
			UpdatedAt:   base.Add(5 * time.Hour),
		},
	}
}
