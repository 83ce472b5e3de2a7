package httpserver

import (
	"log"

	categoryrepo "weetzen-shop/internal/repository/category"
	orderrepo "weetzen-shop/internal/repository/order"
	productrepo "weetzen-shop/internal/repository/product"
	profilerepo "weetzen-shop/internal/repository/profile"
	cartsvc "weetzen-shop/internal/service/cart"
	checkoutsvc "weetzen-shop/internal/service/checkout"
	customersvc "weetzen-shop/internal/service/customer"
	"weetzen-shop/internal/service/deliverynote"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries everything the routes need; constructed once in main and
// passed by reference, no ambient globals.
type Deps struct {
	CartSvc        *cartsvc.Service
	CheckoutSvc    *checkoutsvc.Service
	CustomerSvc    *customersvc.Service
	NoteSvc        *deliverynote.Service
	OrderRepo      orderrepo.Repository
	ProfileRepo    profilerepo.Repository
	ProductRepo    productrepo.Repository
	CategoryRepo   categoryrepo.Repository
	JWTSecret      string
	AllowedOrigins []string
}

// buildRouter wires all shop routes.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.AllowedOrigins) == 0 || deps.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = deps.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Guest-Id")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	auth := router.Group("/auth")
	{
		auth.POST("/signup", signupHandler(deps.CustomerSvc))
		auth.POST("/login", loginHandler(deps.CustomerSvc))
	}

	router.GET("/products", listProductsHandler(deps.ProductRepo))
	router.GET("/products/:id", getProductHandler(deps.ProductRepo))
	router.GET("/categories", listCategoriesHandler(deps.CategoryRepo))
	router.POST("/guest", newGuestHandler())

	cart := router.Group("/cart", authOptional(deps.JWTSecret))
	{
		cart.GET("", loadCartHandler(deps.CartSvc))
		cart.POST("/items", addCartItemHandler(deps.CartSvc))
		cart.PUT("/items/:productId", updateCartItemHandler(deps.CartSvc))
		cart.DELETE("/items/:productId", removeCartItemHandler(deps.CartSvc))
		cart.DELETE("", clearCartHandler(deps.CartSvc))
		cart.POST("/merge", mergeCartHandler(deps.CartSvc))
	}

	checkout := router.Group("/checkout", authOptional(deps.JWTSecret))
	{
		checkout.POST("/payment-intent", createPaymentIntentHandler(deps.CheckoutSvc))
		checkout.POST("/card", cardCheckoutHandler(deps.CheckoutSvc))
		checkout.POST("/cash", cashCheckoutHandler(deps.CheckoutSvc))
	}

	member := router.Group("/", authRequired(deps.JWTSecret))
	{
		member.GET("/orders", listOwnOrdersHandler(deps.OrderRepo))
		member.GET("/profile", getProfileHandler(deps.CustomerSvc))
		member.PUT("/profile", updateProfileHandler(deps.CustomerSvc))
	}

	admin := router.Group("/admin", authRequired(deps.JWTSecret), adminRequired(deps.ProfileRepo))
	{
		admin.GET("/orders", listAllOrdersHandler(deps.OrderRepo))
		admin.PUT("/orders/:id/status", updateOrderStatusHandler(deps.OrderRepo))
		admin.PUT("/orders/:id/payment-status", updatePaymentStatusHandler(deps.OrderRepo))
		admin.GET("/orders/:id/delivery-note", deliveryNoteHandler(deps.NoteSvc))
		admin.POST("/products", createProductHandler(deps.ProductRepo))
		admin.PUT("/products/:id", updateProductHandler(deps.ProductRepo))
		admin.DELETE("/products/:id", deactivateProductHandler(deps.ProductRepo))
		admin.POST("/categories", createCategoryHandler(deps.CategoryRepo))
		admin.PUT("/profiles/:id/admin", setAdminHandler(deps.ProfileRepo))
	}

	return router, nil
}
