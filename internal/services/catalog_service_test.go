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

// seedSearchCatalog creates three categories and four products with known
// prices, stock and descriptions for the search tests.
func seedSearchCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	shirts := models.Category{ID: uuid.New(), ProductType: "Shirts", AgeGroup: "Adult", Gender: "Male"}
	dresses := models.Category{ID: uuid.New(), ProductType: "Dresses", AgeGroup: "Adult", Gender: "Female"}
	accessories := models.Category{ID: uuid.New(), ProductType: "Accessories", AgeGroup: "All", Gender: "Unisex"}
	for _, cat := range []*models.Category{&shirts, &dresses, &accessories} {
		require.NoError(t, db.Create(cat).Error)
	}

	products := []models.Product{
		{ID: uuid.New(), Name: "Oxford Shirt", Description: "Classic cotton shirt", Price: 39.99, Stock: 10, CategoryID: &shirts.ID},
		{ID: uuid.New(), Name: "Linen Shirt", Description: "Breathable summer wear", Price: 59.99, Stock: 0, CategoryID: &shirts.ID},
		{ID: uuid.New(), Name: "Wrap Dress", Description: "Floral print dress", Price: 89.99, Stock: 5, CategoryID: &dresses.ID},
		{ID: uuid.New(), Name: "Silk Scarf", Description: "Hand rolled shirt companion", Price: 29.99, Stock: 20, CategoryID: &accessories.ID},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
}

func TestListProducts(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)

	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"Oldest", "Middle", "Newest"} {
		product := models.Product{
			ID:        uuid.New(),
			Name:      name,
			Price:     10,
			Stock:     1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&product).Error)
	}

	got := catalog.ListProducts(2)
	require.Len(t, got, 2)
	assert.Equal(t, "Newest", got[0].Name)
	assert.Equal(t, "Middle", got[1].Name)

	// Zero limit falls back to the default page size.
	assert.Len(t, catalog.ListProducts(0), 3)
}

func TestGetProduct(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	user := createTestUser(t, db, "ayse", "ayse@example.com", "password123")

	category := models.Category{ID: uuid.New(), ProductType: "Accessories", AgeGroup: "All", Gender: "Unisex"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{ID: uuid.New(), Name: "Silk Scarf", Price: 29.99, Stock: 20, CategoryID: &category.ID}
	require.NoError(t, db.Create(&product).Error)

	require.NoError(t, catalog.AddReview(user.ID, product.ID, &dto.ReviewRequest{Rating: 4, Comment: "Lovely"}))

	got, err := catalog.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Silk Scarf", got.Name)
	assert.Equal(t, "Accessories", got.Category)
	assert.Equal(t, "All", got.AgeGroup)
	assert.Equal(t, "Unisex", got.Gender)
	assert.InDelta(t, 4.0, got.AvgRating, 0.001)
	assert.Equal(t, int64(1), got.ReviewCount)

	_, err = catalog.GetProduct(uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSearchByTerm(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	seedSearchCatalog(t, db)

	// Matches name and description alike.
	got := catalog.Search(&dto.SearchQuery{Query: "shirt"})
	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Oxford Shirt", "Linen Shirt", "Silk Scarf"}, names)

	assert.Empty(t, catalog.Search(&dto.SearchQuery{Query: "trousers"}))
}

func TestSearchFilters(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	seedSearchCatalog(t, db)

	got := catalog.Search(&dto.SearchQuery{Category: "Shirts"})
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, "Shirts", p.Category)
	}

	got = catalog.Search(&dto.SearchQuery{Gender: "Female"})
	require.Len(t, got, 1)
	assert.Equal(t, "Wrap Dress", got[0].Name)

	got = catalog.Search(&dto.SearchQuery{AgeGroup: "All"})
	require.Len(t, got, 1)
	assert.Equal(t, "Silk Scarf", got[0].Name)

	got = catalog.Search(&dto.SearchQuery{MinPrice: 35, MaxPrice: 60})
	require.Len(t, got, 2)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Price, 35.0)
		assert.LessOrEqual(t, p.Price, 60.0)
	}

	got = catalog.Search(&dto.SearchQuery{Category: "Shirts", InStock: true})
	require.Len(t, got, 1)
	assert.Equal(t, "Oxford Shirt", got[0].Name)

	// Category, gender and age group combine with the term filter.
	got = catalog.Search(&dto.SearchQuery{Query: "shirt", Gender: "Male", AgeGroup: "Adult"})
	require.Len(t, got, 2)

	assert.Empty(t, catalog.Search(&dto.SearchQuery{Category: "Footwear"}))
}

func TestSearchSorting(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	seedSearchCatalog(t, db)

	got := catalog.Search(&dto.SearchQuery{SortBy: "price_asc"})
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Price, got[i].Price)
	}

	got = catalog.Search(&dto.SearchQuery{SortBy: "price_desc"})
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Price, got[i].Price)
	}
}

func TestSearchSortByRating(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	alice := createTestUser(t, db, "alice", "alice@example.com", "password123")
	bob := createTestUser(t, db, "bob", "bob@example.com", "password123")

	low := createTestProduct(t, db, "Oxford Shirt", 39.99, 10)
	high := createTestProduct(t, db, "Wrap Dress", 89.99, 5)
	require.NoError(t, catalog.AddReview(alice.ID, low.ID, &dto.ReviewRequest{Rating: 2}))
	require.NoError(t, catalog.AddReview(alice.ID, high.ID, &dto.ReviewRequest{Rating: 5}))
	require.NoError(t, catalog.AddReview(bob.ID, high.ID, &dto.ReviewRequest{Rating: 4}))

	got := catalog.Search(&dto.SearchQuery{SortBy: "rating"})
	require.Len(t, got, 2)
	assert.Equal(t, "Wrap Dress", got[0].Name)
	assert.InDelta(t, 4.5, got[0].AvgRating, 0.001)
	assert.Equal(t, int64(2), got[0].ReviewCount)
	assert.Equal(t, "Oxford Shirt", got[1].Name)
}

func TestCategories(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)

	// Shirts appears in two rows; the dropdown list dedupes it.
	for _, cat := range []models.Category{
		{ID: uuid.New(), ProductType: "Shirts", AgeGroup: "Kids", Gender: "Unisex"},
		{ID: uuid.New(), ProductType: "Accessories", AgeGroup: "All", Gender: "Unisex"},
		{ID: uuid.New(), ProductType: "Shirts", AgeGroup: "Adult", Gender: "Male"},
	} {
		require.NoError(t, db.Create(&cat).Error)
	}

	assert.Equal(t, []string{"Accessories", "Shirts"}, catalog.Categories())
}

func TestAddReview(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	user := createTestUser(t, db, "ayse", "ayse@example.com", "password123")
	product := createTestProduct(t, db, "Silk Scarf", 29.99, 20)

	assert.ErrorIs(t, catalog.AddReview(user.ID, product.ID, &dto.ReviewRequest{Rating: 0}), ErrInvalidRating)
	assert.ErrorIs(t, catalog.AddReview(user.ID, product.ID, &dto.ReviewRequest{Rating: 6}), ErrInvalidRating)
	assert.ErrorIs(t, catalog.AddReview(user.ID, uuid.New(), &dto.ReviewRequest{Rating: 3}), ErrProductNotFound)

	require.NoError(t, catalog.AddReview(user.ID, product.ID, &dto.ReviewRequest{Rating: 3, Comment: "Decent"}))

	// A second review from the same user replaces the first.
	require.NoError(t, catalog.AddReview(user.ID, product.ID, &dto.ReviewRequest{Rating: 5, Comment: "Grew on me"}))

	var reviews []models.ProductReview
	require.NoError(t, db.Where("product_id = ?", product.ID).Find(&reviews).Error)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, "Grew on me", reviews[0].Comment)
}

func TestProductReviews(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	alice := createTestUser(t, db, "alice", "alice@example.com", "password123")
	bob := createTestUser(t, db, "bob", "bob@example.com", "password123")
	product := createTestProduct(t, db, "Silk Scarf", 29.99, 20)

	assert.Empty(t, catalog.ProductReviews(product.ID))

	older := models.ProductReview{
		ID: uuid.New(), UserID: alice.ID, ProductID: product.ID,
		Rating: 4, Comment: "Nice", CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := models.ProductReview{
		ID: uuid.New(), UserID: bob.ID, ProductID: product.ID,
		Rating: 2, Comment: "Frayed edge", CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	got := catalog.ProductReviews(product.ID)
	require.Len(t, got, 2)
	assert.Equal(t, "bob", got[0].Username)
	assert.Equal(t, 2, got[0].Rating)
	assert.Equal(t, "alice", got[1].Username)
}

func TestRecommendations(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	carts := NewCartService(db)
	orders := NewOrderService(db)
	alice := createTestUser(t, db, "alice", "alice@example.com", "password123")
	bob := createTestUser(t, db, "bob", "bob@example.com", "password123")

	shared := createTestProduct(t, db, "Oxford Shirt", 39.99, 10)
	suggested := createTestProduct(t, db, "Slim Chinos", 49.50, 10)
	wishedShared := createTestProduct(t, db, "Silk Scarf", 29.99, 20)
	wishedSuggested := createTestProduct(t, db, "Leather Belt", 24.99, 15)

	// Alice and Bob both bought the shirt; only Bob bought the chinos.
	require.NoError(t, carts.AddLine(alice.ID, &dto.AddCartItemRequest{ProductID: shared.ID}))
	_, err := orders.Checkout(alice.ID, deliveryRequest())
	require.NoError(t, err)
	require.NoError(t, carts.AddLine(bob.ID, &dto.AddCartItemRequest{ProductID: shared.ID}))
	require.NoError(t, carts.AddLine(bob.ID, &dto.AddCartItemRequest{ProductID: suggested.ID}))
	_, err = orders.Checkout(bob.ID, deliveryRequest())
	require.NoError(t, err)

	// Both wish for the scarf; only Bob wishes for the belt.
	wishlist := NewWishlistService(db)
	_, err = wishlist.Add(alice.ID, wishedShared.ID)
	require.NoError(t, err)
	_, err = wishlist.Add(bob.ID, wishedShared.ID)
	require.NoError(t, err)
	_, err = wishlist.Add(bob.ID, wishedSuggested.ID)
	require.NoError(t, err)

	require.NoError(t, catalog.AddReview(bob.ID, suggested.ID, &dto.ReviewRequest{Rating: 5}))

	got := catalog.Recommendations(alice.ID)
	require.Len(t, got.FromPurchases, 1)
	assert.Equal(t, "Slim Chinos", got.FromPurchases[0].Name)
	require.Len(t, got.FromWishlist, 1)
	assert.Equal(t, "Leather Belt", got.FromWishlist[0].Name)
	require.Len(t, got.TopRated, 1)
	assert.Equal(t, "Slim Chinos", got.TopRated[0].Name)
}

func TestRecommendationsEmptyHistory(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	user := createTestUser(t, db, "ayse", "ayse@example.com", "password123")

	got := catalog.Recommendations(user.ID)
	assert.Empty(t, got.FromPurchases)
	assert.Empty(t, got.FromWishlist)
	assert.Empty(t, got.TopRated)
	assert.NotNil(t, got.FromPurchases)
	assert.NotNil(t, got.FromWishlist)
	assert.NotNil(t, got.TopRated)
}
