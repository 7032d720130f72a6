// internal/services/admin_service.go
package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vendora/vendora-backend/internal/models"
)

// AdminService aggregates the other state owners for the moderation console.
type AdminService struct {
	auth          *AuthService
	catalog       *CatalogService
	orders        *OrderService
	notifications *NotificationService
}

func NewAdminService(auth *AuthService, catalog *CatalogService, orders *OrderService, notifications *NotificationService) *AdminService {
	return &AdminService{
		auth:          auth,
		catalog:       catalog,
		orders:        orders,
		notifications: notifications,
	}
}

// DashboardStats is the admin landing page summary.
type DashboardStats struct {
	Products struct {
		Total    int `json:"total"`
		Pending  int `json:"pending"`
		Active   int `json:"active"`
		Rejected int `json:"rejected"`
	} `json:"products"`
	Users struct {
		Total   int `json:"total"`
		Buyers  int `json:"buyers"`
		Sellers int `json:"sellers"`
		Admins  int `json:"admins"`
	} `json:"users"`
	Orders struct {
		Total int `json:"total"`
	} `json:"orders"`
	UnreadNotifications int `json:"unread_notifications"`
}

func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	byStatus := s.catalog.CountByStatus()
	stats.Products.Pending = byStatus[models.ProductStatusPending]
	stats.Products.Active = byStatus[models.ProductStatusActive]
	stats.Products.Rejected = byStatus[models.ProductStatusRejected]
	stats.Products.Total = stats.Products.Pending + stats.Products.Active + stats.Products.Rejected

	byRole := s.auth.CountByRole()
	stats.Users.Buyers = byRole[models.RoleBuyer]
	stats.Users.Sellers = byRole[models.RoleSeller]
	stats.Users.Admins = byRole[models.RoleAdmin]
	stats.Users.Total = stats.Users.Buyers + stats.Users.Sellers + stats.Users.Admins

	orderCount, err := s.orders.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	stats.Orders.Total = orderCount

	for _, n := range s.notifications.ListAdmin(ctx) {
		if !n.Read {
			stats.UnreadNotifications++
		}
	}

	return stats, nil
}

// Users lists all accounts, newest first.
func (s *AdminService) Users() []models.User {
	return s.auth.Users()
}

// SuspendUser blocks an account from logging in and tells the user why.
func (s *AdminService) SuspendUser(ctx context.Context, userID, reason string) (*models.User, error) {
	return s.setUserStatus(ctx, userID, models.UserStatusSuspended, reason)
}

// ReactivateUser lifts a suspension.
func (s *AdminService) ReactivateUser(ctx context.Context, userID string) (*models.User, error) {
	return s.setUserStatus(ctx, userID, models.UserStatusActive, "")
}

func (s *AdminService) setUserStatus(ctx context.Context, userID string, status models.UserStatus, reason string) (*models.User, error) {
	user, err := s.auth.SetStatus(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	title := "Account reactivated"
	message := "Your account has been reactivated. Welcome back."
	if status == models.UserStatusSuspended {
		title = "Account suspended"
		message = "Your account has been suspended."
		if reason != "" {
			message = fmt.Sprintf("Your account has been suspended: %s", reason)
		}
	}

	if _, err := s.notifications.NotifyUser(ctx, userID, AddRequest{
		Type:    models.NotificationAccountUpdate,
		Title:   title,
		Message: message,
		Link:    "/account",
	}); err != nil {
		logrus.WithError(err).Warn("Failed to notify user of account status change")
	}

	return user, nil
}
