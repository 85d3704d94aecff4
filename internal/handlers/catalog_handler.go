package handlers

import (
	"errors"
	"strconv"

	"github.com/atelmoda/storefront-backend/internal/dto"
	"github.com/atelmoda/storefront-backend/internal/middleware"
	"github.com/atelmoda/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Home serves the storefront landing page feed.
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit > 100 {
		limit = 100
	}

	products := h.catalogService.ListProducts(limit)
	return c.JSON(fiber.Map{"products": products, "total": len(products)})
}

func (h *CatalogHandler) ProductDetail(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid product ID",
		})
	}

	product, err := h.catalogService.GetProduct(productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load product",
		})
	}

	reviews := h.catalogService.ProductReviews(productID)
	return c.JSON(fiber.Map{"product": product, "reviews": reviews})
}

func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	q := dto.SearchQuery{
		Query:    c.Query("q", ""),
		Category: c.Query("category", ""),
		Gender:   c.Query("gender", ""),
		AgeGroup: c.Query("age_group", ""),
		SortBy:   c.Query("sort", ""),
	}
	q.MinPrice, _ = strconv.ParseFloat(c.Query("min_price", "0"), 64)
	q.MaxPrice, _ = strconv.ParseFloat(c.Query("max_price", "0"), 64)
	q.InStock = c.Query("in_stock", "") == "true"

	products := h.catalogService.Search(&q)
	return c.JSON(fiber.Map{"products": products, "total": len(products)})
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": h.catalogService.Categories()})
}

func (h *CatalogHandler) Recommendations(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	return c.JSON(h.catalogService.Recommendations(userID))
}

func (h *CatalogHandler) AddReview(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid product ID",
		})
	}

	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.catalogService.AddReview(userID, productID, &req); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrInvalidRating) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to submit review",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Review submitted"})
}
