package routes

import (
	"log"

	"moda-store/config"
	"moda-store/controllers"
	"moda-store/libs"
	"moda-store/middleware"
	"moda-store/models"
	"moda-store/repositories"
	"moda-store/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(router *gin.Engine) {
	var store repositories.SessionStore
	if models.RedisClient != nil {
		store = repositories.NewRedisSessionStore(models.RedisClient)
	} else {
		store = repositories.NewMemorySessionStore()
	}

	catalog := repositories.NewCatalogRepository()
	userRepo := repositories.NewUserRepository()
	orderRepo := repositories.NewOrderRepository()

	inventory := services.NewInventoryService()
	cartSvc := services.NewCartService(store, inventory)
	shippingSvc := services.NewShippingService(libs.NewShippingClient(), libs.NewCEPClient(), store)

	emailSvc, err := models.NewEmailService()
	if err != nil {
		log.Println("Email service unavailable, order confirmations disabled")
		emailSvc = nil
	}

	checkoutSvc := services.NewCheckoutService(cartSvc, shippingSvc, orderRepo, libs.NewPaymentClient(), userRepo, emailSvc)

	authCtrl := controllers.NewAuthController()
	productCtrl := controllers.NewProductController(config.AppConfig.CatalogPageSize)
	cartCtrl := controllers.NewCartController(cartSvc, catalog, shippingSvc)
	shippingCtrl := controllers.NewShippingController(cartSvc, shippingSvc)
	checkoutCtrl := controllers.NewCheckoutController(checkoutSvc)
	orderCtrl := controllers.NewOrderController(orderRepo)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)
	router.GET("/products", productCtrl.GetProducts)
	router.GET("/products/more", productCtrl.GetMoreProducts)
	router.GET("/products/:id", productCtrl.GetProductDetail)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/auth/profile", authCtrl.GetProfile)
		auth.PATCH("/auth/profile", authCtrl.UpdateProfile)

		auth.GET("/cart", cartCtrl.GetCart)
		auth.POST("/cart", cartCtrl.AddToCart)
		auth.DELETE("/cart/:id", cartCtrl.RemoveFromCart)
		auth.PATCH("/cart/:id/quantity", cartCtrl.SetCartQuantity)

		auth.POST("/shipping/cep", shippingCtrl.EnterCEP)
		auth.GET("/shipping/quote", shippingCtrl.GetQuote)
		auth.POST("/shipping/select", shippingCtrl.SelectOption)
		auth.GET("/shipping/address", shippingCtrl.GetAddress)
		auth.PUT("/shipping/address", shippingCtrl.SaveAddress)

		auth.POST("/checkout", checkoutCtrl.BeginCheckout)
		auth.GET("/checkout", checkoutCtrl.GetCheckout)
		auth.DELETE("/checkout", checkoutCtrl.AbandonCheckout)
		auth.POST("/checkout/address", checkoutCtrl.ConfirmAddress)
		auth.POST("/checkout/shipping", checkoutCtrl.AttachShipping)
		auth.POST("/checkout/payment-method", checkoutCtrl.ChoosePaymentMethod)
		auth.POST("/checkout/submit", checkoutCtrl.SubmitPayment)

		auth.GET("/orders/:number", orderCtrl.GetOrder)
	}
}
