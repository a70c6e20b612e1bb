package httpserver

import (
	"log"

	cartsvc "retroshop/internal/service/cart"
	checkoutsvc "retroshop/internal/service/checkout"
	webhooksvc "retroshop/internal/service/webhook"

	addressrepo "retroshop/internal/repository/address"
	orderrepo "retroshop/internal/repository/order"
	productrepo "retroshop/internal/repository/product"
	sessionrepo "retroshop/internal/repository/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries everything the handlers need.
type Deps struct {
	CartSvc     *cartsvc.Service
	CheckoutSvc *checkoutsvc.Service
	WebhookSvc  *webhooksvc.Service
	Products    productrepo.Repository
	Addresses   addressrepo.Repository
	Orders      orderrepo.Repository
	Sessions    sessionrepo.Repository
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := handlers{deps: deps, logger: logger}

	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)

	// Signed by the gateway, not by a user session.
	router.POST("/payments/webhook", h.paymentsWebhook)

	authed := router.Group("/", authMiddleware(deps.Sessions))
	{
		authed.GET("/cart", h.getCart)
		authed.POST("/cart", h.addToCart)
		authed.PUT("/cart/:itemId", h.updateCartItem)
		authed.DELETE("/cart/:itemId", h.removeCartItem)
		authed.POST("/cart/clear", h.clearCart)
		authed.GET("/cart/count", h.cartCount)

		authed.GET("/addresses", h.listAddresses)
		authed.POST("/addresses", h.createAddress)
		authed.POST("/addresses/:id/default", h.setDefaultAddress)

		authed.GET("/orders", h.listOrders)
		authed.GET("/orders/:id", h.getOrder)

		authed.POST("/payments", h.checkout)
	}

	return router
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}
