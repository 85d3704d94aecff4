package routes

import (
	"time"

	"github.com/atelmoda/storefront-backend/internal/config"
	"github.com/atelmoda/storefront-backend/internal/handlers"
	"github.com/atelmoda/storefront-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	catalogHandler *handlers.CatalogHandler,
	cartHandler *handlers.CartHandler,
	orderHandler *handlers.OrderHandler,
	wishlistHandler *handlers.WishlistHandler,
	inventoryHandler *handlers.InventoryHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Catalog browsing is public. The search route is registered before
	// the :id route so "search" is not read as a product ID.
	api.Get("/products", catalogHandler.Home)
	api.Get("/products/search", catalogHandler.Search)
	api.Get("/products/:id", catalogHandler.ProductDetail)
	api.Get("/categories", catalogHandler.Categories)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Get("/check-username", authHandler.CheckUsername)

	// Protected routes (JWT required) - apply middleware to individual routes
	// so it never affects the public catalog paths
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/profile", middleware.JWTProtected(cfg), authHandler.GetProfile)
	api.Put("/profile", middleware.JWTProtected(cfg), authHandler.UpdateProfile)
	api.Post("/profile/password", middleware.JWTProtected(cfg), authHandler.ChangePassword)

	cart := api.Group("/cart", middleware.JWTProtected(cfg))
	cart.Get("/", cartHandler.GetCart)
	cart.Post("/", cartHandler.AddItem)
	cart.Put("/:id", cartHandler.UpdateItem)
	cart.Delete("/:id", cartHandler.RemoveItem)
	cart.Delete("/", cartHandler.ClearCart)

	api.Post("/checkout", middleware.JWTProtected(cfg), orderHandler.Checkout)
	api.Get("/orders", middleware.JWTProtected(cfg), orderHandler.MyOrders)
	api.Get("/orders/:id", middleware.JWTProtected(cfg), orderHandler.OrderDetail)
	api.Get("/dashboard", middleware.JWTProtected(cfg), orderHandler.Dashboard)

	wishlist := api.Group("/wishlist", middleware.JWTProtected(cfg))
	wishlist.Get("/", wishlistHandler.List)
	wishlist.Post("/", wishlistHandler.Add)
	wishlist.Delete("/:product_id", wishlistHandler.Remove)

	api.Get("/inventory/:product_id", middleware.JWTProtected(cfg), inventoryHandler.Stock)
	api.Get("/recommendations", middleware.JWTProtected(cfg), catalogHandler.Recommendations)
	api.Post("/products/:id/reviews", middleware.JWTProtected(cfg), catalogHandler.AddReview)
}
