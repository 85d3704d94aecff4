package services

import (
	"testing"
	"time"

	"github.com/atelmoda/storefront-backend/internal/dto"
	"github.com/atelmoda/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func deliveryRequest() *dto.CheckoutRequest {
	return &dto.CheckoutRequest{
		FullName:    "Ayse Yilmaz",
		Address:     "12 Istiklal Caddesi",
		PhoneNumber: "5551234567",
		City:        "Istanbul",
		PostalCode:  "34000",
		PaymentMode: models.PaymentModeCOD,
	}
}

func productStock(t *testing.T, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	return product.Stock
}

func TestCheckout(t *testing.T) {
	db := setupTestDB(t)
	carts := NewCartService(db)
	orders := NewOrderService(db)
	user := createTestUser(t, db, "ayse", "ayse@example.com", "password123")
	product := createTestProduct(t, db, "Merino Crewneck", 74.00, 2)

	require.NoError(t, carts.AddLine(user.ID, &dto.AddCartItemRequest{ProductID: product.ID, Quantity: 2}))

	resp, err := orders.Checkout(user.ID, deliveryRequest())
	require.NoError(t, err)
	assert.InDelta(t, 148.00, resp.TotalPrice, 0.001)
	assert.Equal(t, models.PaymentStatusPending, resp.Status)

	// Stock drained to exactly zero.
	assert.Equal(t, 0, productStock(t, db, product.ID))

	// One order with one item holding the line-total snapshot.
	var items []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", resp.OrderID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.InDelta(t, 148.00, items[0].Price, 0.001)

	// The cart is gone.
	var cartCount int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount)
	assert.Equal(t, int64(0), cartCount)

	// Replaying checkout on the consumed cart finds nothing to buy.
	_, err = orders.Checkout(user.ID, deliveryRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutAtomicRollback(t *testing.T) {
	db := setupTestDB(t)
	carts := NewCartService(db)
	orders := NewOrderService(db)
	user := createTestUser(t, db, "ayse", "ayse@example.com", "password123")

	// Fixed IDs pin the processing order: the understocked product comes
	// last, so two decrements land before the failure and must be undone.
	first := &models.Product{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Name: "Oxford Shirt", Price: 39.99, Stock: 10}
	second := &models.Product{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Name: "Slim Chinos", Price: 49.50, Stock: 10}
	third := &models.Product{ID: uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff"), Name: "Suede Boots", Price: 89.00, Stock: 1}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)
	require.NoError(t, db.Create(third).Error)

	require.NoError(t, carts.AddLine(user.ID, &dto.AddCartItemRequest{ProductID: first.ID, Quantity: 2}))
	require.NoError(t, carts.AddLine(user.ID, &dto.AddCartItemRequest{ProductID: second.ID, Quantity: 3}))
	require.NoError(t, carts.AddLine(user.ID, &dto.AddCartItemRequest{ProductID: third.ID, Quantity: 2}))

	_, err := orders.Checkout(user.ID, deliveryRequest())
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Suede Boots")

	// Nothing moved: no order, no items, stock and cart exactly as before.
	var orderCount, itemCount, cartCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.OrderItem{}).Count(&itemCount)
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount)
	assert.Equal(t, int64(0), orderCount)
	assert.Equal(t, int64(0), itemCount)
	assert.Equal(t, int64(3), cartCount)

	assert.Equal(t, 10, productStock(t, db, first.ID))
	assert.Equal(t, 10, productStock(t, db, second.ID))
	assert.Equal(t, 1, productStock(t, db, third.ID))
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	orders := NewOrderService(db)
	user := createTestUser(t, db, "ayse", "ayse@example.com", "password123")

	_, err := orders.Checkout(user.ID, deliveryRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutMissingDeliveryField(t *testing.T) {
	db := setupTestDB(t)
	carts := NewCartService(db)
	orders := NewOrderService(db)
	user := createTestUser(t, db, "ayse", "ayse@example.com", "password123")
	product := createTestProduct(t, db, "Silk Scarf", 29.99, 50)
	require.NoError(t, carts.AddLine(user.ID, &dto.AddCartItemRequest{ProductID: product.ID}))

	tests := []struct {
		name   string
		mutate func(*dto.CheckoutRequest)
	}{
		{"no name", func(r *dto.CheckoutRequest) { r.FullName = "" }},
		{"no address", func(r *dto.CheckoutRequest) { r.Address = "" }},
		{"no phone", func(r *dto.CheckoutRequest) { r.PhoneNumber = "" }},
		{"no city", func(r *dto.CheckoutRequest) { r.City = "" }},
		{"no postal code", func(r *dto.CheckoutRequest) { r.PostalCode = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := deliveryRequest()
			tt.mutate(req)
			_, err := orders.Checkout(user.ID, req)
			assert.ErrorIs(t, err, ErrMissingDeliveryField)
		})
	}

	// Failed validation never touches the cart or the stock.
	var cartCount int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount)
	assert.Equal(t, int64(1), cartCount)
	assert.Equal(t, 50, productStock(t, db, product.ID))
}

func TestCheckoutPaymentValidation(t *testing.T) {
	db := setupTestDB(t)
	carts := NewCartService(db)
	orders := NewOrderService(db)
	user := createTestUser(t, db, "ayse", "ayse@example.com", "password123")
	product := createTestProduct(t, db, "Silk Scarf", 29.99, 50)
	require.NoError(t, carts.AddLine(user.ID, &dto.AddCartItemRequest{ProductID: product.ID}))

	card := deliveryRequest()
	card.PaymentMode = models.PaymentModeCard
	_, err := orders.Checkout(user.ID, card)
	assert.ErrorIs(t, err, ErrInvalidPaymentDetail)

	upi := deliveryRequest()
	upi.PaymentMode = models.PaymentModeUPI
	_, err = orders.Checkout(user.ID, upi)
	assert.ErrorIs(t, err, ErrInvalidPaymentDetail)

	unknown := deliveryRequest()
	unknown.PaymentMode = "Barter"
	_, err = orders.Checkout(user.ID, unknown)
	assert.ErrorIs(t, err, ErrInvalidPaymentDetail)

	// Card checkout goes through once the number is supplied.
	card.CardNumber = "4111111111111111"
	resp, err := orders.Checkout(user.ID, card)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, resp.Status)
}

func TestCheckoutDefaultsToCOD(t *testing.T) {
	db := setupTestDB(t)
	carts := NewCartService(db)
	orders := NewOrderService(db)
	user := createTestUser(t, db, "ayse", "ayse@example.com", "password123")
	product := createTestProduct(t, db, "Silk Scarf", 29.99, 50)
	require.NoError(t, carts.AddLine(user.ID, &dto.AddCartItemRequest{ProductID: product.ID}))

	req := deliveryRequest()
	req.PaymentMode = ""
	resp, err := orders.Checkout(user.ID, req)
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, db.First(&order, "id = ?", resp.OrderID).Error)
	assert.Equal(t, models.PaymentModeCOD, order.PaymentMode)
}

func TestCheckoutPriceStability(t *testing.T) {
	db := setupTestDB(t)
	carts := NewCartService(db)
	orders := NewOrderService(db)
	user := createTestUser(t, db, "ayse", "ayse@example.com", "password123")
	product := createTestProduct(t, db, "Merino Crewneck", 74.00, 10)

	require.NoError(t, carts.AddLine(user.ID, &dto.AddCartItemRequest{ProductID: product.ID, Quantity: 2}))
	resp, err := orders.Checkout(user.ID, deliveryRequest())
	require.NoError(t, err)

	// Reprice after checkout; order history must not move.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 199.99).Error)

	got, err := orders.GetOrder(user.ID, resp.OrderID)
	require.NoError(t, err)
	assert.InDelta(t, 148.00, got.TotalPrice, 0.001)
	require.Len(t, got.Items, 1)
	assert.InDelta(t, 148.00, got.Items[0].Price, 0.001)
}

func TestCheckoutStockContention(t *testing.T) {
	db := setupTestDB(t)
	carts := NewCartService(db)
	orders := NewOrderService(db)
	alice := createTestUser(t, db, "alice", "alice@example.com", "password123")
	bob := createTestUser(t, db, "bob", "bob@example.com", "password123")
	product := createTestProduct(t, db, "Suede Boots", 89.00, 2)

	require.NoError(t, carts.AddLine(alice.ID, &dto.AddCartItemRequest{ProductID: product.ID, Quantity: 2}))
	require.NoError(t, carts.AddLine(bob.ID, &dto.AddCartItemRequest{ProductID: product.ID, Quantity: 2}))

	_, err := orders.Checkout(alice.ID, deliveryRequest())
	require.NoError(t, err)

	// The stock is spoken for; the second buyer cannot oversell it.
	_, err = orders.Checkout(bob.ID, deliveryRequest())
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 0, productStock(t, db, product.ID))

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(1), orderCount)
}

func TestGetOrderOwnership(t *testing.T) {
	db := setupTestDB(t)
	carts := NewCartService(db)
	orders := NewOrderService(db)
	owner := createTestUser(t, db, "owner", "owner@example.com", "password123")
	other := createTestUser(t, db, "other", "other@example.com", "password123")
	product := createTestProduct(t, db, "Silk Scarf", 29.99, 50)

	require.NoError(t, carts.AddLine(owner.ID, &dto.AddCartItemRequest{ProductID: product.ID}))
	resp, err := orders.Checkout(owner.ID, deliveryRequest())
	require.NoError(t, err)

	got, err := orders.GetOrder(owner.ID, resp.OrderID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Silk Scarf", got.Items[0].ProductName)

	_, err = orders.GetOrder(other.ID, resp.OrderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDashboard(t *testing.T) {
	db := setupTestDB(t)
	orders := NewOrderService(db)
	user := createTestUser(t, db, "ayse", "ayse@example.com", "password123")

	for i := 1; i <= 6; i++ {
		order := models.Order{
			ID:            uuid.New(),
			UserID:        user.ID,
			TotalPrice:    float64(i) * 10,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMode:   models.PaymentModeCOD,
			FullName:      "Ayse Yilmaz",
			Address:       "12 Istiklal Caddesi",
			PhoneNumber:   "5551234567",
			City:          "Istanbul",
			PostalCode:    "34000",
			CreatedAt:     time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&order).Error)
	}

	dash, err := orders.Dashboard(user.ID)
	require.NoError(t, err)
	require.Len(t, dash.RecentOrders, 5)
	assert.InDelta(t, 210.0, dash.TotalSpent, 0.001)

	// Most recent first.
	assert.InDelta(t, 60.0, dash.RecentOrders[0].TotalPrice, 0.001)
	assert.InDelta(t, 20.0, dash.RecentOrders[4].TotalPrice, 0.001)
}

func TestListOrders(t *testing.T) {
	db := setupTestDB(t)
	carts := NewCartService(db)
	orders := NewOrderService(db)
	user := createTestUser(t, db, "ayse", "ayse@example.com", "password123")
	product := createTestProduct(t, db, "Silk Scarf", 29.99, 50)

	list, err := orders.ListOrders(user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, carts.AddLine(user.ID, &dto.AddCartItemRequest{ProductID: product.ID}))
	_, err = orders.Checkout(user.ID, deliveryRequest())
	require.NoError(t, err)

	list, err = orders.ListOrders(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Istanbul", list[0].City)
}
