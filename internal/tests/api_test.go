// internal/tests/api_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/vendora/vendora-backend/internal/blobstore"
	"github.com/vendora/vendora-backend/internal/config"
	"github.com/vendora/vendora-backend/internal/handlers"
	"github.com/vendora/vendora-backend/internal/i18n"
	"github.com/vendora/vendora-backend/internal/middleware"
	"github.com/vendora/vendora-backend/internal/services"
	"github.com/vendora/vendora-backend/internal/utils"
)

// APITestSuite drives the marketplace through the HTTP surface: a seller
// submits a product, the admin approves it, a buyer carts it and checks out.
type APITestSuite struct {
	suite.Suite
	router *gin.Engine

	adminToken  string
	sellerToken string
	buyerToken  string
}

func (suite *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(i18n.Initialize())
}

func (suite *APITestSuite) SetupTest() {
	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "api-test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Admin: config.AdminConfig{
			Email:    "admin@vendora.local",
			Password: "Admin123!@#",
			Name:     "Platform Admin",
		},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	notificationService := services.NewNotificationService(store)
	authService := services.NewAuthService(ctx, store, cfg)
	catalogService := services.NewCatalogService(ctx, store, notificationService)
	cartService := services.NewCartService(store, catalogService)
	orderService := services.NewOrderService(store, cartService, notificationService)
	adminService := services.NewAdminService(authService, catalogService, orderService, notificationService)

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(catalogService, authService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(adminService, catalogService, orderService, notificationService)

	r := gin.New()
	r.Use(middleware.I18nMiddleware())

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.List)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.Get)
			products.POST("", middleware.AuthRequired(), productHandler.Submit)
		}

		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.Get)
			cart.POST("/items", cartHandler.AddItem)
		}

		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.Checkout)
			orders.GET("", orderHandler.List)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.List)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/products/pending", adminHandler.PendingProducts)
			admin.PUT("/products/:id/approve", adminHandler.ApproveProduct)
			admin.GET("/notifications", adminHandler.Notifications)
		}
	}

	suite.router = r

	suite.sellerToken = suite.registerAndToken("seller@example.com", "seller")
	suite.buyerToken = suite.registerAndToken("buyer@example.com", "")
	suite.adminToken = suite.login("admin@vendora.local", "Admin123!@#")
}

func (suite *APITestSuite) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

func (suite *APITestSuite) registerAndToken(email, role string) string {
	body := map[string]interface{}{
		"name":     "API User",
		"email":    email,
		"password": "Sup3rSecret!",
	}
	if role != "" {
		body["role"] = role
	}

	w, response := suite.do("POST", "/v1/auth/register", "", body)
	suite.Require().Equal(http.StatusCreated, w.Code)

	data := response["data"].(map[string]interface{})
	return data["token"].(string)
}

func (suite *APITestSuite) login(email, password string) string {
	w, response := suite.do("POST", "/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	data := response["data"].(map[string]interface{})
	return data["token"].(string)
}

func (suite *APITestSuite) submitProduct() string {
	w, response := suite.do("POST", "/v1/products", suite.sellerToken, map[string]interface{}{
		"name":        "Linen Apron",
		"price":       34.00,
		"description": "Stonewashed linen apron with leather straps.",
		"category":    "home",
		"in_stock":    true,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	data := response["data"].(map[string]interface{})
	product := data["product"].(map[string]interface{})
	suite.Equal("pending", product["status"])
	return product["id"].(string)
}

func (suite *APITestSuite) TestModerationWorkflow() {
	productID := suite.submitProduct()

	// A pending product is invisible to the public listing
	w, response := suite.do("GET", "/v1/products", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	for _, raw := range response["data"].([]interface{}) {
		p := raw.(map[string]interface{})
		suite.NotEqual(productID, p["id"])
	}

	// The submission landed in the admin stream
	w, response = suite.do("GET", "/v1/admin/notifications", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	notifications := data["notifications"].([]interface{})
	suite.Require().NotEmpty(notifications)
	first := notifications[0].(map[string]interface{})
	suite.Equal("product-submitted", first["type"])

	// The admin sees it pending and approves it
	w, response = suite.do("GET", "/v1/admin/products/pending", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w, response = suite.do("PUT", fmt.Sprintf("/v1/admin/products/%s/approve", productID), suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	data = response["data"].(map[string]interface{})
	product := data["product"].(map[string]interface{})
	suite.Equal("active", product["status"])

	// Now it shows up publicly
	w, response = suite.do("GET", "/v1/products", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	found := false
	for _, raw := range response["data"].([]interface{}) {
		p := raw.(map[string]interface{})
		if p["id"] == productID {
			found = true
		}
	}
	suite.True(found)

	// And the seller was told
	w, response = suite.do("GET", "/v1/notifications", suite.sellerToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	data = response["data"].(map[string]interface{})
	sellerStream := data["notifications"].([]interface{})
	suite.Require().NotEmpty(sellerStream)
	suite.Equal("product-approved", sellerStream[0].(map[string]interface{})["type"])
}

func (suite *APITestSuite) TestBuyerCheckoutFlow() {
	productID := suite.submitProduct()

	w, _ := suite.do("PUT", fmt.Sprintf("/v1/admin/products/%s/approve", productID), suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	// Buyer carts two of them
	w, response := suite.do("POST", "/v1/cart/items", suite.buyerToken, map[string]interface{}{
		"product_id": productID,
		"quantity":   2,
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	cart := data["cart"].(map[string]interface{})
	suite.Equal(float64(2), cart["total_items"])
	suite.Equal(68.00, cart["subtotal"])

	// Checkout snapshots the cart into an order
	w, response = suite.do("POST", "/v1/orders", suite.buyerToken, nil)
	suite.Require().Equal(http.StatusCreated, w.Code)
	data = response["data"].(map[string]interface{})
	order := data["order"].(map[string]interface{})
	suite.Equal("placed", order["status"])
	suite.Equal(68.00, order["subtotal"])

	// The cart is empty afterwards
	w, response = suite.do("GET", "/v1/cart", suite.buyerToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	data = response["data"].(map[string]interface{})
	cart = data["cart"].(map[string]interface{})
	suite.Equal(float64(0), cart["total_items"])

	// Checking out again with an empty cart fails
	w, _ = suite.do("POST", "/v1/orders", suite.buyerToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestAdminRoutesRequireAdminRole() {
	w, _ := suite.do("GET", "/v1/admin/products/pending", suite.buyerToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.do("GET", "/v1/admin/products/pending", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestApproveUnknownProduct() {
	w, _ := suite.do("PUT", "/v1/admin/products/prod-nope/approve", suite.adminToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestBuyerCannotSubmitProduct() {
	w, _ := suite.do("POST", "/v1/products", suite.buyerToken, map[string]interface{}{
		"name":        "Not Allowed",
		"price":       1.00,
		"description": "Buyers have no catalog of their own.",
		"category":    "misc",
	})
	suite.Equal(http.StatusForbidden, w.Code)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
