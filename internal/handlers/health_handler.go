package handlers

import (
	"time"

	"github.com/atelmoda/storefront-backend/internal/database"
	"github.com/atelmoda/storefront-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	redis *redis.Client
}

func NewHealthHandler(redis *redis.Client) *HealthHandler {
	return &HealthHandler{redis: redis}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	redisStatus := "ok"
	if err := h.redis.Ping(c.Context()).Err(); err != nil {
		redisStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Redis:     redisStatus,
	})
}
