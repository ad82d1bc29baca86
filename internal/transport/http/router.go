package handlers

import (
	"strings"
	"time"

	"github.com/waste3d/tianji-twin-api/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(
	allowedOrigins string,
	astrologyHandler *AstrologyHandler,
	subscriptionHandler *SubscriptionHandler,
	profileHandler *ProfileHandler,
	walletHandler *WalletHandler,
	limiter *middleware.RateLimiter,
	tokens middleware.TokenValidator,
	users middleware.UserEnsurer,
) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = strings.Split(allowedOrigins, ",")
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Gateway callback authenticates itself, not the user.
	api.POST("/subscription/payment/callback", subscriptionHandler.PaymentCallback)

	auth := api.Group("")
	auth.Use(middleware.AuthMiddleware(tokens, users))
	{
		astrology := auth.Group("/astrology")
		{
			astrology.POST("/star-chart", astrologyHandler.CreateChart)
			astrology.GET("/star-chart", astrologyHandler.GetChart)
			astrology.PUT("/star-chart/brief-analysis", astrologyHandler.UpdateBriefAnalysis)

			astrology.POST("/time-assets/unlock", limiter.Limit("unlock", 10, 1*time.Minute), astrologyHandler.UnlockTimeAsset)
			astrology.GET("/time-assets", astrologyHandler.ListTimeAssets)
			astrology.GET("/time-assets/check", astrologyHandler.CheckTimeAsset)

			astrology.POST("/cache", astrologyHandler.PutCache)
			astrology.GET("/cache", astrologyHandler.GetCache)
		}

		subscription := auth.Group("/subscription")
		{
			subscription.GET("/status", subscriptionHandler.Status)
			subscription.GET("/check-feature", subscriptionHandler.CheckFeature)
			subscription.GET("/usage/:feature", subscriptionHandler.Usage)
			subscription.POST("/record-usage", limiter.Limit("record_usage", 60, 1*time.Minute), subscriptionHandler.RecordUsage)
			subscription.POST("/create", subscriptionHandler.Create)
			subscription.POST("/check-expired", subscriptionHandler.CheckExpired)
			subscription.POST("/cancel", subscriptionHandler.Cancel)
			subscription.GET("/check-status", subscriptionHandler.CheckStatus)
		}

		profile := auth.Group("/profile")
		{
			profile.GET("", profileHandler.Get)
			profile.PUT("", profileHandler.Update)
			profile.GET("/completeness", profileHandler.Completeness)
		}

		wallet := auth.Group("/wallet")
		{
			wallet.GET("/balance", walletHandler.Balance)
			wallet.GET("/transactions", walletHandler.Transactions)
		}
	}

	return r
}
