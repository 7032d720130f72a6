// internal/handlers/admin.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/vendora/vendora-backend/internal/i18n"
	"github.com/vendora/vendora-backend/internal/models"
	"github.com/vendora/vendora-backend/internal/services"
	"github.com/vendora/vendora-backend/internal/utils"
)

type AdminHandler struct {
	adminService        *services.AdminService
	catalogService      *services.CatalogService
	orderService        *services.OrderService
	notificationService *services.NotificationService
}

func NewAdminHandler(
	adminService *services.AdminService,
	catalogService *services.CatalogService,
	orderService *services.OrderService,
	notificationService *services.NotificationService,
) *AdminHandler {
	return &AdminHandler{
		adminService:        adminService,
		catalogService:      catalogService,
		orderService:        orderService,
		notificationService: notificationService,
	}
}

// GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /admin/products/pending
func (h *AdminHandler) PendingProducts(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"products": h.catalogService.Pending(),
	})
}

// PUT /admin/products/:id/approve
func (h *AdminHandler) ApproveProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	product, err := h.catalogService.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductApproved),
		"product": product,
	})
}

// PUT /admin/products/:id/reject
func (h *AdminHandler) RejectProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		Reason string `json:"reason"`
	}
	// Body is optional; rejection without a reason is allowed.
	_ = c.ShouldBindJSON(&req)

	product, err := h.catalogService.Reject(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductRejected),
		"product": product,
	})
}

// GET /admin/users
func (h *AdminHandler) Users(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"users": h.adminService.Users(),
	})
}

// PUT /admin/users/:id/suspend
func (h *AdminHandler) SuspendUser(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	user, err := h.adminService.SuspendUser(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, i18n.KeyUserNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserSuspended),
		"user":    user,
	})
}

// PUT /admin/users/:id/reactivate
func (h *AdminHandler) ReactivateUser(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, err := h.adminService.ReactivateUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, i18n.KeyUserNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserReactivated),
		"user":    user,
	})
}

// PUT /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		UserID string `json:"user_id" validate:"required"`
		Status string `json:"status" validate:"required,oneof=placed shipped delivered cancelled"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), req.UserID, c.Param("id"), models.OrderStatus(req.Status))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.NotFoundResponse(c, i18n.KeyOrderNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderStatusUpdated),
		"order":   order,
	})
}

// GET /admin/notifications
func (h *AdminHandler) Notifications(c *gin.Context) {
	notifications := h.notificationService.ListAdmin(c.Request.Context())
	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	utils.SuccessResponse(c, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// PUT /admin/notifications/:id/read
func (h *AdminHandler) MarkNotificationRead(c *gin.Context) {
	if err := h.notificationService.MarkReadAdmin(c.Request.Context(), c.Param("id")); err != nil {
		utils.NotFoundResponse(c, i18n.KeyNotificationNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "ok",
	})
}
