// internal/models/common.go
package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a prefixed identifier such as "prod-4f9c...". The prefix keeps
// blobs and log lines readable; the UUID part guarantees uniqueness across
// notification streams that used to share a flat key namespace.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func NewUserID() string         { return NewID("usr") }
func NewProductID() string      { return NewID("prod") }
func NewNotificationID() string { return NewID("ntf") }
func NewOrderID() string        { return NewID("ord") }

// Enums

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(s)) {
	case RoleBuyer:
		return RoleBuyer, true
	case RoleSeller:
		return RoleSeller, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type ProductStatus string

const (
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusRejected ProductStatus = "rejected"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type NotificationType string

const (
	NotificationProductSubmitted NotificationType = "product-submitted"
	NotificationProductApproved  NotificationType = "product-approved"
	NotificationProductRejected  NotificationType = "product-rejected"
	NotificationOrderPlaced      NotificationType = "order-placed"
	NotificationOrderShipped     NotificationType = "order-shipped"
	NotificationOrderDelivered   NotificationType = "order-delivered"
	NotificationOrderCancelled   NotificationType = "order-cancelled"
	NotificationPaymentReceived  NotificationType = "payment-received"
	NotificationPromotion        NotificationType = "promotion"
	NotificationReviewReceived   NotificationType = "review-received"
	NotificationAccountUpdate    NotificationType = "account-update"
	NotificationChatMessage      NotificationType = "chat-message"
	NotificationSystem           NotificationType = "system"
)

// Metadata is the free-form payload carried by notifications and user
// profiles. It is persisted as part of the owning blob.
type Metadata map[string]interface{}

// Clone returns a shallow copy of the map. Callers that copy an owning struct
// before mutating must clone its Metadata too, or the copy shares entries with
// the original.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
