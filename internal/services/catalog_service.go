package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/atelmoda/storefront-backend/internal/dto"
	"github.com/atelmoda/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// CatalogService is the read layer over products, categories and reviews.
// List and search paths degrade to empty results on query failure so
// browsing stays available; only single-product lookups report errors.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListProducts returns the newest products for the storefront landing page.
func (s *CatalogService) ListProducts(limit int) []dto.ProductResponse {
	if limit <= 0 {
		limit = 10
	}

	var products []models.Product
	if err := s.db.Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		slog.Error("failed to list products", "error", err)
		return []dto.ProductResponse{}
	}
	return s.productResponses(products)
}

func (s *CatalogService) GetProduct(id uuid.UUID) (*dto.ProductResponse, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, ErrProductNotFound
	}

	resp := s.productResponses([]models.Product{product})
	return &resp[0], nil
}

// Search filters the catalog by term, category, gender, age group, price
// range and stock, and sorts by price, rating or recency.
func (s *CatalogService) Search(q *dto.SearchQuery) []dto.ProductResponse {
	query := s.db.Preload("Category").Model(&models.Product{})

	if q.Query != "" {
		term := "%" + q.Query + "%"
		query = query.Where("products.name LIKE ? OR products.description LIKE ?", term, term)
	}
	if q.Category != "" || q.Gender != "" || q.AgeGroup != "" {
		query = query.Select("products.*").
			Joins("LEFT JOIN categories ON categories.id = products.category_id")
	}
	if q.Category != "" {
		query = query.Where("categories.product_type = ?", q.Category)
	}
	if q.Gender != "" {
		query = query.Where("categories.gender = ?", q.Gender)
	}
	if q.AgeGroup != "" {
		query = query.Where("categories.age_group = ?", q.AgeGroup)
	}
	if q.MinPrice > 0 {
		query = query.Where("products.price >= ?", q.MinPrice)
	}
	if q.MaxPrice > 0 {
		query = query.Where("products.price <= ?", q.MaxPrice)
	}
	if q.InStock {
		query = query.Where("products.stock > 0")
	}

	switch q.SortBy {
	case "price_asc":
		query = query.Order("products.price ASC")
	case "price_desc":
		query = query.Order("products.price DESC")
	case "rating":
		// Rating lives in a separate aggregate; sorted below after merge.
	default:
		query = query.Order("products.created_at DESC")
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		slog.Error("product search failed", "error", err)
		return []dto.ProductResponse{}
	}

	resp := s.productResponses(products)
	if q.SortBy == "rating" {
		sort.SliceStable(resp, func(i, j int) bool {
			return resp[i].AvgRating > resp[j].AvgRating
		})
	}
	return resp
}

// Categories returns the distinct product types for the search dropdown.
// Several category rows can share a type across age groups and genders.
func (s *CatalogService) Categories() []string {
	var types []string
	err := s.db.Model(&models.Category{}).
		Distinct().
		Order("product_type ASC").
		Pluck("product_type", &types).Error
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		return []string{}
	}
	return types
}

// Recommendations builds three shelves: products bought by users with
// overlapping purchase history, products wished for by users with
// overlapping wishlists, and the overall top-rated products.
func (s *CatalogService) Recommendations(userID uuid.UUID) *dto.RecommendationsResponse {
	resp := &dto.RecommendationsResponse{
		FromPurchases: []dto.ProductResponse{},
		FromWishlist:  []dto.ProductResponse{},
		TopRated:      []dto.ProductResponse{},
	}

	var fromPurchases []models.Product
	err := s.db.Raw(`
		SELECT DISTINCT p.* FROM products p
		JOIN order_items oi ON p.id = oi.product_id
		JOIN orders o ON oi.order_id = o.id
		WHERE o.user_id IN (
			SELECT DISTINCT o2.user_id FROM orders o2
			JOIN order_items oi2 ON o2.id = oi2.order_id
			WHERE oi2.product_id IN (
				SELECT oi3.product_id FROM order_items oi3
				JOIN orders o3 ON oi3.order_id = o3.id
				WHERE o3.user_id = ?
			)
		)
		AND p.id NOT IN (
			SELECT oi4.product_id FROM order_items oi4
			JOIN orders o4 ON oi4.order_id = o4.id
			WHERE o4.user_id = ?
		)
		LIMIT 10`, userID, userID).Scan(&fromPurchases).Error
	if err != nil {
		slog.Error("purchase recommendations failed", "error", err)
	} else {
		resp.FromPurchases = s.productResponses(fromPurchases)
	}

	var fromWishlist []models.Product
	err = s.db.Raw(`
		SELECT DISTINCT p.* FROM products p
		JOIN wishlist_items w ON p.id = w.product_id
		WHERE w.user_id IN (
			SELECT user_id FROM wishlist_items
			WHERE product_id IN (
				SELECT product_id FROM wishlist_items WHERE user_id = ?
			)
		)
		AND p.id NOT IN (
			SELECT product_id FROM wishlist_items WHERE user_id = ?
		)
		LIMIT 10`, userID, userID).Scan(&fromWishlist).Error
	if err != nil {
		slog.Error("wishlist recommendations failed", "error", err)
	} else {
		resp.FromWishlist = s.productResponses(fromWishlist)
	}

	var topRated []models.Product
	err = s.db.Raw(`
		SELECT p.* FROM products p
		JOIN product_reviews pr ON p.id = pr.product_id
		GROUP BY p.id
		ORDER BY AVG(pr.rating) DESC
		LIMIT 10`).Scan(&topRated).Error
	if err != nil {
		slog.Error("top rated recommendations failed", "error", err)
	} else {
		resp.TopRated = s.productResponses(topRated)
	}

	return resp
}

// AddReview records a 1..5 rating with an optional comment. A second
// review by the same user replaces the first.
func (s *CatalogService) AddReview(userID, productID uuid.UUID, req *dto.ReviewRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return ErrInvalidRating
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		return ErrProductNotFound
	}

	var existing models.ProductReview
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
	if err == nil {
		return s.db.Model(&existing).Updates(map[string]interface{}{
			"rating":  req.Rating,
			"comment": req.Comment,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up review: %w", err)
	}

	review := models.ProductReview{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.db.Create(&review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (s *CatalogService) ProductReviews(productID uuid.UUID) []dto.ReviewResponse {
	var reviews []models.ProductReview
	if err := s.db.Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		slog.Error("failed to load reviews", "error", err, "product_id", productID.String())
		return []dto.ReviewResponse{}
	}

	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		username := ""
		if r.User != nil {
			username = r.User.Username
		}
		resp = append(resp, dto.ReviewResponse{
			Username:  username,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	return resp
}

type ratingAggregate struct {
	ProductID   uuid.UUID
	AvgRating   float64
	ReviewCount int64
}

// productResponses maps products to responses and decorates them with
// review aggregates in one grouped query.
func (s *CatalogService) productResponses(products []models.Product) []dto.ProductResponse {
	resp := make([]dto.ProductResponse, 0, len(products))
	if len(products) == 0 {
		return resp
	}

	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	ratings := map[uuid.UUID]ratingAggregate{}
	var rows []ratingAggregate
	err := s.db.Model(&models.ProductReview{}).
		Select("product_id, AVG(rating) AS avg_rating, COUNT(id) AS review_count").
		Where("product_id IN ?", ids).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		slog.Error("failed to aggregate ratings", "error", err)
	} else {
		for _, row := range rows {
			ratings[row.ProductID] = row
		}
	}

	for _, p := range products {
		var category, ageGroup, gender string
		if p.Category != nil {
			category = p.Category.ProductType
			ageGroup = p.Category.AgeGroup
			gender = p.Category.Gender
		}
		agg := ratings[p.ID]
		resp = append(resp, dto.ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Stock:       p.Stock,
			ImageURL:    p.ImageURL,
			Category:    category,
			AgeGroup:    ageGroup,
			Gender:      gender,
			AvgRating:   agg.AvgRating,
			ReviewCount: agg.ReviewCount,
		})
	}
	return resp
}
