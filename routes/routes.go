package routes

import (
	"net/http"
	"time"

	"wanderly/handlers"
	"wanderly/middleware"
	"wanderly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCartRoutes registers the cart endpoints. All of them require a user token.
func RegisterCartRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/cart")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.JWTSecret))
		api.GET("", hb.GetCart)
		api.POST("/add", hb.AddCartItem)
		api.POST("/refresh", hb.RefreshCart)
		api.PUT("/:productItemId", hb.UpdateCartItem)
		api.DELETE("/:productItemId", hb.RemoveCartItem)
		api.DELETE("", hb.ClearCart)
	}
}

// RegisterWebhookRoutes registers provider callbacks. Signature checks happen in the handlers.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.StripeWebhook == nil {
		return
	}
	r.POST("/api/webhooks/stripe", hb.StripeWebhook)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		health := utils.GetHealthStatus()
		status := http.StatusOK
		if !health.Redis {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "message": "Hi, I'm Wanderly", "health": health})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterCartRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterHealthRoute(r)
}
