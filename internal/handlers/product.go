// internal/handlers/product.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/vendora/vendora-backend/internal/i18n"
	"github.com/vendora/vendora-backend/internal/models"
	"github.com/vendora/vendora-backend/internal/services"
	"github.com/vendora/vendora-backend/internal/utils"
)

type ProductHandler struct {
	catalogService *services.CatalogService
	authService    *services.AuthService
}

func NewProductHandler(catalogService *services.CatalogService, authService *services.AuthService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		authService:    authService,
	}
}

// GET /products
// Public listing shows only active products; sellers and admins can widen it
// with ?status= once authenticated.
func (h *ProductHandler) List(c *gin.Context) {
	filter := services.ProductFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	active := models.ProductStatusActive
	filter.Status = &active

	role, _ := utils.GetRoleFromContext(c)
	if status := c.Query("status"); status != "" && (role == string(models.RoleAdmin) || role == string(models.RoleSeller)) {
		switch models.ProductStatus(status) {
		case models.ProductStatusPending, models.ProductStatusActive, models.ProductStatusRejected:
			s := models.ProductStatus(status)
			filter.Status = &s
		}
	}

	if inStock := c.Query("in_stock"); inStock == "true" {
		v := true
		filter.InStock = &v
	} else if inStock == "false" {
		v := false
		filter.InStock = &v
	}

	_, result := h.catalogService.List(filter)
	utils.PaginatedResponse(c, result)
}

// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.catalogService.Get(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// POST /products
func (h *ProductHandler) Submit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	seller, err := h.authService.GetUserByID(userID)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.SubmitProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.catalogService.Submit(c.Request.Context(), seller, &req)
	if err != nil {
		utils.ForbiddenResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductSubmitted),
		"product": product,
	})
}

// PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.catalogService.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
		case errors.Is(err, services.ErrNotProductOwner):
			utils.ForbiddenResponse(c, err.Error())
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.catalogService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
		case errors.Is(err, services.ErrNotProductOwner):
			utils.ForbiddenResponse(c, err.Error())
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// GET /products/mine
func (h *ProductHandler) MyProducts(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	products := h.catalogService.SellerProducts(userID)
	utils.SuccessResponse(c, gin.H{
		"products": products,
	})
}
