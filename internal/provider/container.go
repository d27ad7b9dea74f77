package provider

import (
	"github.com/himalbox/internal/cache"
	"github.com/himalbox/internal/config"
	"github.com/himalbox/internal/logger"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/payment/backend"
	"github.com/himalbox/internal/queue"
	"github.com/himalbox/internal/repository"
	"github.com/himalbox/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo           repository.UserRepository
	GatewayRepo        repository.GatewayRepository
	CountrySettingRepo repository.CountrySettingRepository
	QuoteRepo          repository.QuoteRepository
	PaymentRepo        repository.PaymentRepository
	ProofRepo          repository.ProofRepository
	ParcelRepo         repository.ParcelRepository
	ConsolidationRepo  repository.ConsolidationRepository
	NotificationRepo   repository.NotificationRepository
	SettingRepo        repository.SettingRepository

	// Services
	CatalogService      *service.CatalogService
	MethodService       *service.MethodService
	PaymentService      *service.PaymentService
	QuoteService        *service.QuoteService
	ProofService        *service.ProofService
	ParcelService       *service.ParcelService
	ProfileService      *service.ProfileService
	NotificationService *service.NotificationService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.GatewayRepo = repository.NewGatewayRepository(db)
	c.CountrySettingRepo = repository.NewCountrySettingRepository(db)
	c.QuoteRepo = repository.NewQuoteRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.ProofRepo = repository.NewProofRepository(db)
	c.ParcelRepo = repository.NewParcelRepository(db)
	c.ConsolidationRepo = repository.NewConsolidationRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
}

func (c *Container) initServices() {
	c.CatalogService = service.NewCatalogService(
		c.GatewayRepo,
		c.CountrySettingRepo,
		c.SettingRepo,
		c.Config.Payment.CatalogCacheTTLSeconds,
		c.Config.Payment.PriorityCacheTTLSeconds,
	)
	c.MethodService = service.NewMethodService(c.CatalogService, service.DefaultDisplayTable())

	backendCfg := &backend.Config{
		BaseURL:        c.Config.Backend.BaseURL,
		AnonKey:        c.Config.Backend.AnonKey,
		TimeoutMS:      c.Config.Backend.TimeoutMS,
		CreateFunction: c.Config.Backend.CreateFunction,
		StripeFunction: c.Config.Backend.StripeFunction,
		StripeGateways: c.Config.Backend.StripeGateways(),
	}
	c.PaymentService = service.NewPaymentService(c.MethodService, c.CatalogService, c.QuoteRepo, c.PaymentRepo, c.QueueClient, backendCfg)
	c.QuoteService = service.NewQuoteService(c.QuoteRepo)
	c.ProofService = service.NewProofService(c.ProofRepo, c.QuoteRepo, c.QueueClient)

	rates := service.ShippingRates{
		VolumetricDivisor: c.Config.Shipping.VolumetricDivisor,
		Currency:          c.Config.Shipping.Currency,
	}
	if rate, err := models.NewMoneyFromString(c.Config.Shipping.RatePerKg); err == nil {
		rates.RatePerKg = rate
	} else {
		logger.Warnw("provider_shipping_rate_invalid", "value", c.Config.Shipping.RatePerKg, "error", err)
	}
	if handling, err := models.NewMoneyFromString(c.Config.Shipping.HandlingPerPackage); err == nil {
		rates.HandlingPerPackage = handling
	} else {
		logger.Warnw("provider_shipping_handling_invalid", "value", c.Config.Shipping.HandlingPerPackage, "error", err)
	}
	c.ParcelService = service.NewParcelService(c.ParcelRepo, c.ConsolidationRepo, c.QueueClient, rates)

	c.ProfileService = service.NewProfileService(c.UserRepo)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo)
}
