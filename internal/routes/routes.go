package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"vastra_back_end/internal/handlers/order"
	"vastra_back_end/internal/handlers/product"
	"vastra_back_end/internal/handlers/user"
	"vastra_back_end/internal/middleware"
)

type Handlers struct {
	Products *product.Handler
	Users    *user.Handler
	Orders   *order.Handler
	Rdb      *redis.Client
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	api := r.Group("/api")

	// Produits
	products := api.Group("/products")
	{
		products.GET("", middleware.Pagination(10, 50), h.Products.GetProducts)
		products.GET("/search", h.Products.SearchProducts)
		products.GET("/:id", h.Products.GetProductByID)
		products.GET("/:id/reviews", h.Products.GetProductReviews)

		products.POST("/:id/reviews", middleware.AuthRequired(), h.Products.CreateReview)

		admin := products.Group("", middleware.AuthRequired(), middleware.RequireAdmin)
		{
			admin.POST("", h.Products.CreateProduct)
			admin.PUT("/:id", h.Products.UpdateProduct)
			admin.DELETE("/:id", h.Products.DeleteProduct)
			admin.POST("/:id/images", h.Products.UploadProductImage)
		}
	}

	// Avis (mutation par leur auteur)
	reviews := api.Group("/reviews", middleware.AuthRequired())
	{
		reviews.PUT("/:reviewId", h.Products.UpdateReview)
		reviews.DELETE("/:reviewId", h.Products.DeleteReview)
	}

	// Catégories
	categories := api.Group("/categories")
	{
		categories.GET("", h.Products.GetCategories)

		admin := categories.Group("", middleware.AuthRequired(), middleware.RequireAdmin)
		{
			admin.POST("", h.Products.CreateCategory)
			admin.PUT("/:id", h.Products.UpdateCategory)
			admin.DELETE("/:id", h.Products.DeleteCategory)
		}
	}

	// Commandes
	orders := api.Group("/orders", middleware.AuthRequired())
	{
		orders.POST("", h.Orders.PlaceOrder)
		orders.GET("/my-orders", h.Orders.GetMyOrders)
		orders.GET("/:id", h.Orders.GetOrderByID)

		admin := orders.Group("", middleware.RequireAdmin)
		{
			admin.GET("", h.Orders.GetAllOrders)
			admin.PUT("/:id/status", h.Orders.UpdateOrderStatus)
		}
	}

	// Authentification
	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(h.Rdb), h.Users.Register)
		auth.POST("/login", middleware.LoginRateLimit(h.Rdb), h.Users.Login)
		auth.POST("/verify", h.Users.VerifyAccount)
		auth.POST("/resend-verification", h.Users.ResendVerification)
		auth.POST("/request-password-reset", h.Users.RequestPasswordReset)
		auth.POST("/reset-password", h.Users.ResetPassword)
		auth.POST("/refresh", h.Users.Refresh)
		auth.POST("/logout", h.Users.Logout)
	}

	// Profil
	me := api.Group("/users/me", middleware.AuthRequired())
	{
		me.GET("", h.Users.GetProfile)
		me.PUT("", h.Users.UpdateProfile)
	}

	// Panier
	cart := api.Group("/cart", middleware.AuthRequired())
	{
		cart.GET("", h.Users.GetCart)
		cart.POST("", h.Users.AddToCart)
		cart.PUT("/:productId", h.Users.UpdateCartItem)
		cart.DELETE("/:productId", h.Users.RemoveFromCart)
		cart.DELETE("", h.Users.ClearCart)
	}

	// Wishlist
	wishlist := api.Group("/wishlist", middleware.AuthRequired())
	{
		wishlist.GET("", h.Users.GetWishlist)
		wishlist.POST("", h.Users.AddToWishlist)
		wishlist.DELETE("/:productId", h.Users.RemoveFromWishlist)
	}
}
