// internal/services/cart_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vendora/vendora-backend/internal/blobstore"
	"github.com/vendora/vendora-backend/internal/models"
)

var (
	ErrOutOfStock       = errors.New("product is out of stock")
	ErrProductNotActive = errors.New("product is not available for purchase")
)

// CartService owns the per-user carts. Each user's cart is one blob under
// "cart:<userID>" holding the item list; totals are derived on read, never
// stored.
type CartService struct {
	store   blobstore.Store
	catalog *CatalogService
	mu      sync.Mutex
}

func NewCartService(store blobstore.Store, catalog *CatalogService) *CartService {
	return &CartService{store: store, catalog: catalog}
}

// AddItem puts a product in the user's cart. Adding a product already in the
// cart merges into the existing line instead of creating a duplicate. The
// product must be active and in stock; a refused add leaves the cart as it
// was.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.catalog.Get(productID)
	if err != nil {
		return nil, err
	}
	if product.Status != models.ProductStatusActive {
		return nil, ErrProductNotActive
	}
	if !product.InStock {
		return nil, ErrOutOfStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.loadItems(ctx, userID)

	merged := false
	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, models.CartItem{Product: *product, Quantity: quantity})
	}

	if err := s.saveItems(ctx, userID, items); err != nil {
		return nil, err
	}
	cart := models.NewCart(items)
	return &cart, nil
}

// UpdateQuantity sets the quantity for a cart line. Quantities below one are
// ignored; RemoveItem is the only way off the cart.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.loadItems(ctx, userID)

	if quantity >= 1 {
		for i := range items {
			if items[i].Product.ID == productID {
				items[i].Quantity = quantity
				if err := s.saveItems(ctx, userID, items); err != nil {
					return nil, err
				}
				break
			}
		}
	}

	cart := models.NewCart(items)
	return &cart, nil
}

// RemoveItem drops a product line from the cart. Removing a product that is
// not in the cart is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.loadItems(ctx, userID)
	for i := range items {
		if items[i].Product.ID == productID {
			items = append(items[:i], items[i+1:]...)
			if err := s.saveItems(ctx, userID, items); err != nil {
				return nil, err
			}
			break
		}
	}

	cart := models.NewCart(items)
	return &cart, nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(ctx, blobstore.CartKey(userID))
}

// Get returns the user's cart with totals computed from the stored items.
func (s *CartService) Get(ctx context.Context, userID string) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := models.NewCart(s.loadItems(ctx, userID))
	return &cart
}

// loadItems decodes a cart blob. Missing key means an empty cart; a corrupt
// blob is logged and treated as empty.
func (s *CartService) loadItems(ctx context.Context, userID string) []models.CartItem {
	blob, err := s.store.Load(ctx, blobstore.CartKey(userID))
	if errors.Is(err, blobstore.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to load cart")
		return nil
	}

	var items []models.CartItem
	if err := json.Unmarshal(blob, &items); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Corrupt cart blob, resetting")
		return nil
	}
	return items
}

func (s *CartService) saveItems(ctx context.Context, userID string, items []models.CartItem) error {
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.store.Save(ctx, blobstore.CartKey(userID), blob); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
