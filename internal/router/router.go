package router

import (
	"fmt"
	"strings"

	"github.com/himalbox/internal/cache"
	"github.com/himalbox/internal/config"
	adminhandlers "github.com/himalbox/internal/http/handlers/admin"
	publichandlers "github.com/himalbox/internal/http/handlers/public"
	"github.com/himalbox/internal/logger"
	"github.com/himalbox/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "hb"
	}
	redisClient := cache.Client()
	paymentRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:payment", redisPrefix),
		WindowSeconds: cfg.Security.PaymentRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.PaymentRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.PaymentRateLimit.BlockSeconds,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口（游客可带令牌获得个性化结果）
		public := apiV1.Group("/public")
		public.Use(OptionalUserJWTMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/payment-methods", publicHandler.GetPaymentMethods)
			public.POST("/payments/validate", publicHandler.ValidatePayment)
		}

		// 游客接口
		guest := apiV1.Group("/guest")
		{
			guest.POST("/quotes", publicHandler.CreateGuestQuote)
			guest.GET("/quotes/by-quote-no/:quote_no", publicHandler.GetGuestQuoteByQuoteNo)
			guest.POST("/payments", RateLimitMiddleware(redisClient, paymentRule, KeyByIPAndJSONField("guest_email")), publicHandler.CreateGuestPayment)
			guest.POST("/proofs", publicHandler.SubmitGuestProof)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/payment-profile", publicHandler.UpdatePaymentProfile)

			user.POST("/quotes", publicHandler.CreateQuote)
			user.GET("/quotes", publicHandler.ListQuotes)
			user.GET("/quotes/:quote_no", publicHandler.GetQuote)
			user.POST("/quotes/:quote_no/cancel", publicHandler.CancelQuote)
			user.POST("/quotes/payment-link", publicHandler.BuildPaymentLink)

			user.POST("/payments", RateLimitMiddleware(redisClient, paymentRule, KeyByIP), publicHandler.CreatePayment)
			user.GET("/payments", publicHandler.ListPayments)
			user.GET("/payments/by-payment-no/:payment_no", publicHandler.GetPaymentByPaymentNo)
			user.POST("/proofs", publicHandler.SubmitProof)

			user.POST("/parcels", publicHandler.RegisterParcel)
			user.GET("/parcels", publicHandler.ListParcels)
			user.GET("/parcels/:id", publicHandler.GetParcel)
			user.POST("/consolidations", publicHandler.CreateConsolidation)
			user.GET("/consolidations", publicHandler.ListConsolidations)
			user.GET("/consolidations/:id", publicHandler.GetConsolidation)
			user.POST("/consolidations/:id/parcels", publicHandler.AddConsolidationParcels)
			user.POST("/consolidations/:id/close", publicHandler.CloseConsolidation)

			user.GET("/notifications", publicHandler.ListNotifications)
			user.GET("/notifications/unread-count", publicHandler.CountUnreadNotifications)
			user.POST("/notifications/:id/read", publicHandler.MarkNotificationRead)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(AdminJWTAuthMiddleware(cfg.AdminJWT.SecretKey))
		{
			admin.GET("/gateways", adminHandler.ListGateways)
			admin.GET("/gateways/:code", adminHandler.GetGateway)
			admin.POST("/gateways", adminHandler.CreateGateway)
			admin.PUT("/gateways/:code", adminHandler.UpdateGateway)
			admin.DELETE("/gateways/:code", adminHandler.DeleteGateway)

			admin.GET("/country-settings", adminHandler.ListCountrySettings)
			admin.GET("/country-settings/:code", adminHandler.GetCountrySetting)
			admin.PUT("/country-settings/:code", adminHandler.SaveCountrySetting)
			admin.DELETE("/country-settings/:code", adminHandler.DeleteCountrySetting)

			admin.GET("/gateway-priority", adminHandler.GetGatewayPriority)
			admin.PUT("/gateway-priority", adminHandler.SetGatewayPriority)

			admin.GET("/quotes", adminHandler.ListQuotes)
			admin.POST("/quotes/:quote_no/quotation", adminHandler.SubmitQuotation)

			admin.GET("/proofs", adminHandler.ListProofs)
			admin.POST("/proofs/:id/review", adminHandler.ReviewProof)

			admin.GET("/parcels", adminHandler.ListParcels)
			admin.POST("/parcels/receive", adminHandler.ReceiveParcel)
			admin.GET("/consolidations", adminHandler.ListConsolidations)
			admin.POST("/consolidations/:id/ship", adminHandler.ShipConsolidation)

			admin.GET("/payments", adminHandler.ListPayments)
			admin.GET("/payments/:payment_no", adminHandler.GetPayment)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
