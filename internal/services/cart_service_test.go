// internal/services/cart_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/vendora/vendora-backend/internal/blobstore"
	"github.com/vendora/vendora-backend/internal/models"
)

type CartServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *blobstore.MemoryStore
	catalog *CatalogService
	cart    *CartService
	seller  *models.User

	active     *models.Product
	outOfStock *models.Product
	pending    *models.Product
}

func (suite *CartServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = blobstore.NewMemoryStore()
	notifications := NewNotificationService(suite.store)
	suite.catalog = NewCatalogService(suite.ctx, suite.store, notifications)
	suite.cart = NewCartService(suite.store, suite.catalog)
	suite.seller = &models.User{ID: "usr-cart-seller", Name: "Cart Seller", Role: models.RoleSeller}

	suite.active = suite.addProduct("Active Gadget", 10.00, true, true)
	suite.outOfStock = suite.addProduct("Sold Out Gadget", 15.00, false, true)
	suite.pending = suite.addProduct("Unreviewed Gadget", 20.00, true, false)
}

func (suite *CartServiceTestSuite) addProduct(name string, price float64, inStock, approve bool) *models.Product {
	product, err := suite.catalog.Submit(suite.ctx, suite.seller, &SubmitProductRequest{
		Name:        name,
		Price:       price,
		Description: "A test product long enough to validate.",
		Category:    "electronics",
		InStock:     inStock,
	})
	suite.Require().NoError(err)

	if approve {
		product, err = suite.catalog.Approve(suite.ctx, product.ID)
		suite.Require().NoError(err)
	}
	return product
}

func (suite *CartServiceTestSuite) TestAddItemDefaultsToOne() {
	cart, err := suite.cart.AddItem(suite.ctx, "usr-buyer", suite.active.ID, 0)
	suite.Require().NoError(err)

	suite.Require().Len(cart.Items, 1)
	suite.Equal(1, cart.Items[0].Quantity)
	suite.Equal(1, cart.TotalItems)
	suite.Equal(10.00, cart.Subtotal)
}

func (suite *CartServiceTestSuite) TestAddItemMergesExistingLine() {
	_, err := suite.cart.AddItem(suite.ctx, "usr-buyer", suite.active.ID, 2)
	suite.Require().NoError(err)

	cart, err := suite.cart.AddItem(suite.ctx, "usr-buyer", suite.active.ID, 3)
	suite.Require().NoError(err)

	suite.Require().Len(cart.Items, 1, "same product merges, never duplicates")
	suite.Equal(5, cart.Items[0].Quantity)
	suite.Equal(50.00, cart.Subtotal)
}

func (suite *CartServiceTestSuite) TestAddOutOfStockRefused() {
	_, err := suite.cart.AddItem(suite.ctx, "usr-buyer", suite.outOfStock.ID, 1)
	suite.ErrorIs(err, ErrOutOfStock)

	cart := suite.cart.Get(suite.ctx, "usr-buyer")
	suite.Empty(cart.Items, "a refused add leaves the cart untouched")
}

func (suite *CartServiceTestSuite) TestAddPendingProductRefused() {
	_, err := suite.cart.AddItem(suite.ctx, "usr-buyer", suite.pending.ID, 1)
	suite.ErrorIs(err, ErrProductNotActive)
}

func (suite *CartServiceTestSuite) TestAddUnknownProductRefused() {
	_, err := suite.cart.AddItem(suite.ctx, "usr-buyer", "prod-missing", 1)
	suite.ErrorIs(err, ErrProductNotFound)
}

func (suite *CartServiceTestSuite) TestUpdateQuantity() {
	_, err := suite.cart.AddItem(suite.ctx, "usr-buyer", suite.active.ID, 1)
	suite.Require().NoError(err)

	cart, err := suite.cart.UpdateQuantity(suite.ctx, "usr-buyer", suite.active.ID, 4)
	suite.Require().NoError(err)
	suite.Equal(4, cart.Items[0].Quantity)
	suite.Equal(40.00, cart.Subtotal)
}

func (suite *CartServiceTestSuite) TestUpdateQuantityBelowOneIsIgnored() {
	_, err := suite.cart.AddItem(suite.ctx, "usr-buyer", suite.active.ID, 3)
	suite.Require().NoError(err)

	cart, err := suite.cart.UpdateQuantity(suite.ctx, "usr-buyer", suite.active.ID, 0)
	suite.Require().NoError(err)
	suite.Equal(3, cart.Items[0].Quantity, "zero is not a removal")

	cart, err = suite.cart.UpdateQuantity(suite.ctx, "usr-buyer", suite.active.ID, -5)
	suite.Require().NoError(err)
	suite.Equal(3, cart.Items[0].Quantity)
	_ = cart
}

func (suite *CartServiceTestSuite) TestRemoveItem() {
	_, err := suite.cart.AddItem(suite.ctx, "usr-buyer", suite.active.ID, 2)
	suite.Require().NoError(err)

	cart, err := suite.cart.RemoveItem(suite.ctx, "usr-buyer", suite.active.ID)
	suite.Require().NoError(err)
	suite.Empty(cart.Items)

	// Removing again is a no-op
	cart, err = suite.cart.RemoveItem(suite.ctx, "usr-buyer", suite.active.ID)
	suite.Require().NoError(err)
	suite.Empty(cart.Items)
}

func (suite *CartServiceTestSuite) TestClear() {
	_, err := suite.cart.AddItem(suite.ctx, "usr-buyer", suite.active.ID, 2)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.cart.Clear(suite.ctx, "usr-buyer"))
	suite.Empty(suite.cart.Get(suite.ctx, "usr-buyer").Items)
}

func (suite *CartServiceTestSuite) TestCartsAreIsolatedPerUser() {
	_, err := suite.cart.AddItem(suite.ctx, "usr-alice", suite.active.ID, 1)
	suite.Require().NoError(err)

	suite.Empty(suite.cart.Get(suite.ctx, "usr-bob").Items)
}

func (suite *CartServiceTestSuite) TestCartSurvivesReload() {
	_, err := suite.cart.AddItem(suite.ctx, "usr-buyer", suite.active.ID, 2)
	suite.Require().NoError(err)

	reloaded := NewCartService(suite.store, suite.catalog)
	cart := reloaded.Get(suite.ctx, "usr-buyer")
	suite.Require().Len(cart.Items, 1)
	suite.Equal(2, cart.Items[0].Quantity)
}

func (suite *CartServiceTestSuite) TestCorruptCartResetsEmpty() {
	suite.Require().NoError(suite.store.Save(suite.ctx, blobstore.CartKey("usr-buyer"), []byte(`{broken`)))

	cart := suite.cart.Get(suite.ctx, "usr-buyer")
	suite.Empty(cart.Items)
	suite.Equal(0, cart.TotalItems)
}

func TestCartServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}
