// internal/services/catalog_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vendora/vendora-backend/internal/blobstore"
	"github.com/vendora/vendora-backend/internal/models"
	"github.com/vendora/vendora-backend/internal/seed"
	"github.com/vendora/vendora-backend/internal/utils"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotProductOwner = errors.New("not the owner of this product")
)

// CatalogService owns the product catalog. The whole catalog is one blob under
// the "catalog" key; every mutation rewrites it. Moderation status transitions
// (pending -> active | rejected) happen only here, and each transition emits
// exactly one notification.
type CatalogService struct {
	store         blobstore.Store
	notifications *NotificationService

	mu       sync.RWMutex
	products []models.Product
}

type SubmitProductRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=255"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,min=10"`
	Category    string  `json:"category" validate:"required"`
	Image       string  `json:"image,omitempty"`
	InStock     bool    `json:"in_stock"`
}

type UpdateProductRequest struct {
	Name        string   `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Description string   `json:"description,omitempty" validate:"omitempty,min=10"`
	Category    string   `json:"category,omitempty"`
	Image       string   `json:"image,omitempty"`
	InStock     *bool    `json:"in_stock,omitempty"`
}

type ProductFilter struct {
	utils.PaginationParams
	Status   *models.ProductStatus
	SellerID string
	InStock  *bool
}

func NewCatalogService(ctx context.Context, store blobstore.Store, notifications *NotificationService) *CatalogService {
	s := &CatalogService{
		store:         store,
		notifications: notifications,
	}
	s.products = s.loadCatalog(ctx)
	return s
}

// loadCatalog reads the catalog blob. A missing key means first run; a corrupt
// blob falls back to the seeded defaults without failing startup. Either way
// the fallback is persisted so the next load sees a well-formed blob.
func (s *CatalogService) loadCatalog(ctx context.Context) []models.Product {
	blob, err := s.store.Load(ctx, blobstore.KeyCatalog)
	if errors.Is(err, blobstore.ErrKeyNotFound) {
		defaults := seed.DefaultCatalog()
		if err := s.persistLocked(ctx, defaults); err != nil {
			logrus.WithError(err).Warn("Failed to persist seeded catalog")
		}
		return defaults
	}
	if err != nil {
		logrus.WithError(err).Warn("Failed to load catalog, using defaults")
		return seed.DefaultCatalog()
	}

	var products []models.Product
	if err := json.Unmarshal(blob, &products); err != nil {
		logrus.WithError(err).Warn("Corrupt catalog blob, falling back to defaults")
		defaults := seed.DefaultCatalog()
		if err := s.persistLocked(ctx, defaults); err != nil {
			logrus.WithError(err).Warn("Failed to persist recovered catalog")
		}
		return defaults
	}
	return products
}

func (s *CatalogService) persistLocked(ctx context.Context, products []models.Product) error {
	blob, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := s.store.Save(ctx, blobstore.KeyCatalog, blob); err != nil {
		return fmt.Errorf("persist catalog: %w", err)
	}
	return nil
}

// Submit adds a seller's product to the catalog. Status is forced to pending
// regardless of input, and the moderation stream receives a single
// product-submitted notification.
func (s *CatalogService) Submit(ctx context.Context, seller *models.User, req *SubmitProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !seller.HasRole(models.RoleSeller, models.RoleAdmin) {
		return nil, errors.New("only sellers can submit products")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	product := models.Product{
		ID:          models.NewProductID(),
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		InStock:     req.InStock,
		SellerName:  seller.Name,
		SellerID:    seller.ID,
		Status:      models.ProductStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	next := append(append([]models.Product(nil), s.products...), product)
	if err := s.persistLocked(ctx, next); err != nil {
		return nil, err
	}
	s.products = next

	if _, err := s.notifications.NotifyAdmin(ctx, AddRequest{
		Type:    models.NotificationProductSubmitted,
		Title:   "New product submitted",
		Message: fmt.Sprintf("%s submitted %q for review", seller.Name, product.Name),
		Link:    "/admin/products/pending",
		Metadata: models.Metadata{
			"product_id": product.ID,
			"seller_id":  seller.ID,
		},
	}); err != nil {
		logrus.WithError(err).Warn("Failed to notify admins of product submission")
	}

	return &product, nil
}

// Approve flips a pending product to active and notifies its seller. A missing
// ID leaves both the catalog and every notification stream untouched.
func (s *CatalogService) Approve(ctx context.Context, productID string) (*models.Product, error) {
	return s.moderate(ctx, productID, models.ProductStatusActive, "")
}

// Reject flips a pending product to rejected and notifies its seller.
func (s *CatalogService) Reject(ctx context.Context, productID, reason string) (*models.Product, error) {
	return s.moderate(ctx, productID, models.ProductStatusRejected, reason)
}

func (s *CatalogService) moderate(ctx context.Context, productID string, status models.ProductStatus, reason string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return nil, ErrProductNotFound
	}

	next := append([]models.Product(nil), s.products...)
	next[idx].Status = status
	next[idx].RejectionReason = reason
	next[idx].UpdatedAt = time.Now()

	if err := s.persistLocked(ctx, next); err != nil {
		return nil, err
	}
	s.products = next
	product := next[idx]

	notifType := models.NotificationProductApproved
	title := "Product approved"
	message := fmt.Sprintf("%q is now live in the catalog", product.Name)
	if status == models.ProductStatusRejected {
		notifType = models.NotificationProductRejected
		title = "Product rejected"
		message = fmt.Sprintf("%q was rejected", product.Name)
		if reason != "" {
			message += ": " + reason
		}
	}

	if _, err := s.notifications.NotifyUser(ctx, product.SellerID, AddRequest{
		Type:    notifType,
		Title:   title,
		Message: message,
		Link:    "/seller/products/" + product.ID,
		Metadata: models.Metadata{
			"product_id": product.ID,
			"seller_id":  product.SellerID,
		},
	}); err != nil {
		logrus.WithError(err).Warn("Failed to notify seller of moderation result")
	}

	return &product, nil
}

// Update merges the given fields into a seller's own product and restamps
// UpdatedAt. Moderation status is not reachable from here.
func (s *CatalogService) Update(ctx context.Context, sellerID, productID string, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return nil, ErrProductNotFound
	}
	if s.products[idx].SellerID != sellerID {
		return nil, ErrNotProductOwner
	}

	next := append([]models.Product(nil), s.products...)
	p := &next[idx]
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	if req.Image != "" {
		p.Image = req.Image
	}
	if req.InStock != nil {
		p.InStock = *req.InStock
	}
	p.UpdatedAt = time.Now()

	if err := s.persistLocked(ctx, next); err != nil {
		return nil, err
	}
	s.products = next
	product := next[idx]
	return &product, nil
}

// Delete removes a seller's own product from the catalog.
func (s *CatalogService) Delete(ctx context.Context, sellerID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return ErrProductNotFound
	}
	if s.products[idx].SellerID != sellerID {
		return ErrNotProductOwner
	}

	next := append([]models.Product(nil), s.products[:idx]...)
	next = append(next, s.products[idx+1:]...)
	if err := s.persistLocked(ctx, next); err != nil {
		return err
	}
	s.products = next
	return nil
}

func (s *CatalogService) Get(productID string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return nil, ErrProductNotFound
	}
	product := s.products[idx]
	return &product, nil
}

// List filters, sorts and paginates the catalog snapshot.
func (s *CatalogService) List(filter ProductFilter) ([]models.Product, utils.PaginationResult) {
	s.mu.RLock()
	matched := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.SellerID != "" && p.SellerID != filter.SellerID {
			continue
		}
		if filter.InStock != nil && p.InStock != *filter.InStock {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		matched = append(matched, p)
	}
	s.mu.RUnlock()

	sortProducts(matched, filter.Sort, filter.Order)
	return utils.PaginateSlice(matched, filter.PaginationParams)
}

func (s *CatalogService) SellerProducts(sellerID string) []models.Product {
	return s.filterByStatus(func(p models.Product) bool { return p.SellerID == sellerID })
}

func (s *CatalogService) Pending() []models.Product {
	return s.filterByStatus(func(p models.Product) bool { return p.Status == models.ProductStatusPending })
}

func (s *CatalogService) Active() []models.Product {
	return s.filterByStatus(func(p models.Product) bool { return p.Status == models.ProductStatusActive })
}

func (s *CatalogService) Rejected() []models.Product {
	return s.filterByStatus(func(p models.Product) bool { return p.Status == models.ProductStatusRejected })
}

func (s *CatalogService) filterByStatus(keep func(models.Product) bool) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Product
	for _, p := range s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// CountByStatus powers the admin dashboard.
func (s *CatalogService) CountByStatus() map[models.ProductStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.ProductStatus]int)
	for _, p := range s.products {
		counts[p.Status]++
	}
	return counts
}

// indexOf must be called with the lock held.
func (s *CatalogService) indexOf(productID string) int {
	for i, p := range s.products {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

func sortProducts(products []models.Product, field, order string) {
	less := func(a, b models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch field {
	case "price":
		less = func(a, b models.Product) bool { return a.Price < b.Price }
	case "rating":
		less = func(a, b models.Product) bool { return a.Rating < b.Rating }
	case "name":
		less = func(a, b models.Product) bool { return a.Name < b.Name }
	case "updated_at":
		less = func(a, b models.Product) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	}

	sort.SliceStable(products, func(i, j int) bool {
		if order == "asc" {
			return less(products[i], products[j])
		}
		return less(products[j], products[i])
	})
}
