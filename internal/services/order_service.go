// internal/services/order_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vendora/vendora-backend/internal/blobstore"
	"github.com/vendora/vendora-backend/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")
)

// OrderService owns the per-user order history. Each user's orders are one
// blob under "orders:<userID>", newest first.
type OrderService struct {
	store         blobstore.Store
	cart          *CartService
	notifications *NotificationService
	mu            sync.Mutex
}

func NewOrderService(store blobstore.Store, cart *CartService, notifications *NotificationService) *OrderService {
	return &OrderService{store: store, cart: cart, notifications: notifications}
}

// Checkout snapshots the user's cart into a placed order, clears the cart and
// notifies the buyer. An empty cart cannot be checked out.
func (s *OrderService) Checkout(ctx context.Context, userID string) (*models.Order, error) {
	cart := s.cart.Get(ctx, userID)
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	order := models.Order{
		ID:        models.NewOrderID(),
		UserID:    userID,
		Items:     cart.Items,
		Subtotal:  cart.Subtotal,
		Status:    models.OrderStatusPlaced,
		CreatedAt: now,
		UpdatedAt: now,
	}

	orders := append([]models.Order{order}, s.loadOrders(ctx, userID)...)
	if err := s.saveOrders(ctx, userID, orders); err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to clear cart after checkout")
	}

	if _, err := s.notifications.NotifyUser(ctx, userID, AddRequest{
		Type:    models.NotificationOrderPlaced,
		Title:   "Order placed",
		Message: fmt.Sprintf("Your order for %d item(s) has been placed", order.TotalQuantity()),
		Link:    "/orders/" + order.ID,
		Metadata: models.Metadata{
			"order_id": order.ID,
		},
	}); err != nil {
		logrus.WithError(err).Warn("Failed to notify buyer of placed order")
	}

	return &order, nil
}

// List returns the user's orders, newest first.
func (s *OrderService) List(ctx context.Context, userID string) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOrders(ctx, userID)
}

func (s *OrderService) Get(ctx context.Context, userID, orderID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.loadOrders(ctx, userID) {
		if o.ID == orderID {
			order := o
			return &order, nil
		}
	}
	return nil, ErrOrderNotFound
}

// UpdateStatus moves an order through its lifecycle (admin console) and
// notifies the buyer of the transition.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, orderID string, status models.OrderStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.loadOrders(ctx, userID)
	idx := -1
	for i := range orders {
		if orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrOrderNotFound
	}

	orders[idx].Status = status
	orders[idx].UpdatedAt = time.Now()
	if err := s.saveOrders(ctx, userID, orders); err != nil {
		return nil, err
	}
	order := orders[idx]

	var notifType models.NotificationType
	var title string
	switch status {
	case models.OrderStatusShipped:
		notifType, title = models.NotificationOrderShipped, "Order shipped"
	case models.OrderStatusDelivered:
		notifType, title = models.NotificationOrderDelivered, "Order delivered"
	case models.OrderStatusCancelled:
		notifType, title = models.NotificationOrderCancelled, "Order cancelled"
	default:
		return &order, nil
	}

	if _, err := s.notifications.NotifyUser(ctx, userID, AddRequest{
		Type:    notifType,
		Title:   title,
		Message: fmt.Sprintf("Order %s is now %s", order.ID, status),
		Link:    "/orders/" + order.ID,
		Metadata: models.Metadata{
			"order_id": order.ID,
		},
	}); err != nil {
		logrus.WithError(err).Warn("Failed to notify buyer of order status change")
	}

	return &order, nil
}

// CountAll walks every order blob for the admin dashboard.
func (s *OrderService) CountAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.store.Keys(ctx, "orders:")
	if err != nil {
		return 0, fmt.Errorf("list order blobs: %w", err)
	}

	total := 0
	for _, key := range keys {
		blob, err := s.store.Load(ctx, key)
		if err != nil {
			continue
		}
		var orders []models.Order
		if err := json.Unmarshal(blob, &orders); err != nil {
			continue
		}
		total += len(orders)
	}
	return total, nil
}

func (s *OrderService) loadOrders(ctx context.Context, userID string) []models.Order {
	blob, err := s.store.Load(ctx, blobstore.OrdersKey(userID))
	if errors.Is(err, blobstore.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to load orders")
		return nil
	}

	var orders []models.Order
	if err := json.Unmarshal(blob, &orders); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Corrupt orders blob, resetting")
		return nil
	}
	return orders
}

func (s *OrderService) saveOrders(ctx context.Context, userID string, orders []models.Order) error {
	blob, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}
	if err := s.store.Save(ctx, blobstore.OrdersKey(userID), blob); err != nil {
		return fmt.Errorf("persist orders: %w", err)
	}
	return nil
}
