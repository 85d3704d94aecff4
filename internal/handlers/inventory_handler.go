package handlers

import (
	"errors"

	"github.com/atelmoda/storefront-backend/internal/dto"
	"github.com/atelmoda/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Stock reports the live stock count for a product, so clients can warn
// about low stock before checkout.
func (h *InventoryHandler) Stock(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("product_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid product ID",
		})
	}

	stock, err := h.inventoryService.CurrentStock(productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load stock",
		})
	}

	return c.JSON(fiber.Map{
		"product_id": productID,
		"stock":      stock,
		"in_stock":   stock > 0,
	})
}
