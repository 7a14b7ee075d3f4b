package routes

import (
	"os"
	"time"

	"velora_back_end/internal/handlers/cart"
	"velora_back_end/internal/handlers/catalog"
	"velora_back_end/internal/handlers/payement"
	"velora_back_end/internal/handlers/user"
	"velora_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers regroupe les handlers qui portent un état (stores injectés)
type Handlers struct {
	Cart    *cart.Handler
	Orders  *user.OrderHandler
	Webhook *payement.WebhookHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:3000"
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontend},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// Auth
	api.POST("/auth/register", middleware.RegisterRateLimit(), user.Register)
	api.POST("/auth/login", middleware.LoginRateLimit(), user.Login)
	api.GET("/auth/:provider", user.BeginAuth)
	api.GET("/auth/:provider/callback", user.CallbackAuth)

	// Catalogue public
	api.GET("/products", catalog.GetProducts)
	api.GET("/products/:id", catalog.GetProductByID)
	api.GET("/products/slug/:slug", catalog.GetProductBySlug)
	api.GET("/categories", catalog.GetCategories)
	api.GET("/categories/:slug", catalog.GetCategoryBySlug)
	api.GET("/search", middleware.SearchRateLimit(), catalog.SearchProducts)

	// Contenu éditorial
	api.GET("/posts", catalog.GetPosts)
	api.GET("/posts/:slug", catalog.GetPostBySlug)
	api.GET("/forms/:slug", catalog.GetFormBySlug)

	// Webhook Stripe : pas d'auth, la signature fait foi
	api.POST("/webhooks/stripe", h.Webhook.Handle)

	// Routes authentifiées
	auth := api.Group("/")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/me", user.Me)
		auth.PUT("/me", user.UpdateMe)

		auth.GET("/cart", h.Cart.GetCart)
		auth.POST("/cart/add", middleware.CartRateLimit(), h.Cart.AddToCart)
		auth.PUT("/cart/items/:productId", h.Cart.UpdateQuantity)
		auth.DELETE("/cart/items/:productId", h.Cart.RemoveFromCart)
		auth.DELETE("/cart", h.Cart.ClearCart)

		auth.POST("/checkout", payement.CreateCheckoutSession)

		auth.GET("/orders", h.Orders.GetMyOrders)
		auth.GET("/orders/:id", h.Orders.GetOrderByID)
		auth.GET("/orders/session/:session_id", h.Orders.GetOrderBySession)
	}

	// Administration catalogue
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		admin.POST("/products", catalog.CreateProduct)
		admin.PUT("/products/:id", catalog.UpdateProduct)
		admin.DELETE("/products/:id", catalog.DeleteProduct)
		admin.POST("/products/:id/images", catalog.UploadProductImage)
		admin.POST("/categories", catalog.CreateCategory)
	}
}
