package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/vmkazarin/online_store/internal/middleware/auth"
)

type Deps struct {
	Auth            *authmw.Middleware
	AuthHandler     *AuthHTTP
	UserHandler     *UserHTTP
	ProductHandler  *ProductHTTP
	CategoryHandler *CategoryHTTP
	CartHandler     *CartHTTP
	OrderHandler    *OrderHTTP
	WishlistHandler *WishlistHTTP
	ReviewHandler   *ReviewHTTP
	AddressHandler  *AddressHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/refresh", d.AuthHandler.Refresh)
	v1.POST("/logout", d.AuthHandler.LogOut)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.GET("/:id/reviews", d.ReviewHandler.GetProductReviews)
	products.POST("/:id/reviews", d.ReviewHandler.CreateReview, d.Auth.RequireAuth)

	categories := v1.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)

	me := v1.Group("/me", d.Auth.RequireAuth)
	me.GET("", d.UserHandler.Me)
	me.PATCH("", d.UserHandler.PatchMe)
	me.DELETE("", d.UserHandler.DeactivateMe)

	cart := v1.Group("/cart", d.Auth.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddItem)
	cart.PATCH("/:product_id", d.CartHandler.UpdateItem)
	cart.DELETE("/:product_id", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.Clear)

	orders := v1.Group("/orders", d.Auth.RequireAuth)
	orders.POST("", d.OrderHandler.Checkout)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("/:id/cancel", d.OrderHandler.CancelOrder)

	wishlist := v1.Group("/wishlist", d.Auth.RequireAuth)
	wishlist.GET("", d.WishlistHandler.GetWishlist)
	wishlist.POST("", d.WishlistHandler.AddItem)
	wishlist.DELETE("/:product_id", d.WishlistHandler.RemoveItem)

	addresses := v1.Group("/addresses", d.Auth.RequireAuth)
	addresses.GET("", d.AddressHandler.GetAddresses)
	addresses.POST("", d.AddressHandler.CreateAddress)
	addresses.PATCH("/:id", d.AddressHandler.PatchAddress)
	addresses.DELETE("/:id", d.AddressHandler.DeleteAddress)

	admin := v1.Group("/admin", d.Auth.RequireAdmin)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/categories", d.CategoryHandler.CreateCategory)
	admin.PATCH("/categories/:id", d.CategoryHandler.PatchCategory)
	admin.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory)
	admin.PATCH("/users/:id/role", d.UserHandler.UpdateRole)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus)
}
