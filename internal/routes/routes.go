package routes

import (
	"lunea_back_end/internal/handlers"
	"lunea_back_end/internal/handlers/product"
	"lunea_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// Vitrine
	api.GET("/products", product.GetAllProducts)
	api.GET("/products/featured", product.GetFeaturedProducts)
	api.GET("/products/search", product.SearchProducts)
	api.GET("/products/:id", product.GetProduct)
	api.POST("/contact", handlers.SubmitContact)

	// Panier (identifié par token, pas de compte requis)
	api.GET("/cart", handlers.GetCart)
	api.POST("/cart/add", handlers.AddToCart)
	api.PUT("/cart/items/:entryId", handlers.UpdateCartItem)
	api.DELETE("/cart/items/:entryId", handlers.RemoveCartItem)
	api.POST("/cart/clear", handlers.ClearCart)
	api.GET("/cart/ws", handlers.CartSocket)
	api.POST("/buy-now", handlers.BuyNow)
	api.GET("/buy-now", handlers.GetBuyNow)

	// Remise au checkout
	api.POST("/orders", handlers.CreateOrder)
	api.GET("/orders/:reference", handlers.GetOrderByReference)

	// Snapshots temps réel (collections vitrine)
	api.GET("/live/:collection", handlers.LiveCollection)

	// Administration
	admin := api.Group("/admin", middleware.AuthRequired(), middleware.RequireAdmin)
	{
		admin.POST("/products", product.CreateProduct)
		admin.PUT("/products/:id", product.UpdateProduct)
		admin.DELETE("/products/:id", product.DeleteProduct)
		admin.POST("/products/image", product.UploadImage)

		admin.GET("/discounts", handlers.GetAllDiscounts)
		admin.POST("/discounts", handlers.CreateDiscount)
		admin.PUT("/discounts/:id", handlers.UpdateDiscount)
		admin.DELETE("/discounts/:id", handlers.DeleteDiscount)
		admin.POST("/discounts/preview", handlers.PreviewDiscount)

		admin.GET("/orders", handlers.GetAllOrders)
		admin.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
		admin.GET("/orders/:id/qrcode", handlers.OrderQRCode)
		admin.GET("/orders/:id/invoice", handlers.OrderInvoice)

		admin.GET("/contacts", handlers.GetAllContacts)
		admin.PUT("/contacts/:id/read", handlers.MarkContactRead)
		admin.DELETE("/contacts/:id", handlers.DeleteContact)

		// Snapshots temps réel (collections admin)
		admin.GET("/live/:collection", handlers.LiveCollection)
	}
}
