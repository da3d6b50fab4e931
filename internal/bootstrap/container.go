package bootstrap

import (
	"context"
	"log"

	"resume-analyzer-be/internal/config"
	"resume-analyzer-be/internal/controller"
	"resume-analyzer-be/internal/pkg/logger"
	"resume-analyzer-be/internal/pkg/mailer"
	"resume-analyzer-be/internal/repository/memory"
	"resume-analyzer-be/internal/repository/unitofwork"
	"resume-analyzer-be/internal/service"
	"resume-analyzer-be/pkg/billing/catalog"
	"resume-analyzer-be/pkg/billing/entitlement"
	"resume-analyzer-be/pkg/billing/lifecycle"
	"resume-analyzer-be/pkg/billing/pricing"
	"resume-analyzer-be/pkg/billing/prompt"
	"resume-analyzer-be/pkg/billing/trial"
	"resume-analyzer-be/pkg/billing/usage"
	"resume-analyzer-be/pkg/gateway"
	"resume-analyzer-be/pkg/webhook"

	pktNats "resume-analyzer-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PlanController         controller.IPlanController
	EntitlementController  controller.IEntitlementController
	SubscriptionController controller.ISubscriptionController
	WebhookController      controller.IWebhookController

	// Background Services (Exposed for main.go to run)
	ConsumerService    service.IConsumerService
	MaintenanceService service.IMaintenanceService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// 3. Billing Domain
	planCatalog := catalog.New()
	calculator := pricing.NewCalculator(planCatalog)
	engine := entitlement.NewEngine(planCatalog)
	meter := usage.NewMeter(sysLogger)
	lifecycleManager := lifecycle.NewManager(planCatalog, meter, sysLogger)
	trialManager := trial.NewManager(planCatalog, sysLogger)

	paymentGateway := gateway.NewSnapGateway(cfg.Billing.MidtransServerKey, cfg.Billing.MidtransProduction)
	verifier := webhook.NewVerifier(cfg.Billing.WebhookSecret)
	dedup := memory.NewEventDedup(rdb, cfg.Billing.EventRetention)

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, service.ConversionTopicName, sysLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		service.ConversionTopicName,
		uowFactory,
		natsPub,
		sysLogger,
	)

	promptSelector := prompt.NewSelector(planCatalog, publisherService, sysLogger)

	planService := service.NewPlanService(planCatalog, calculator)
	entitlementService := service.NewEntitlementService(
		uowFactory,
		planCatalog,
		engine,
		meter,
		lifecycleManager,
		promptSelector,
		sysLogger,
	)
	subscriptionService := service.NewSubscriptionService(
		uowFactory,
		planCatalog,
		calculator,
		lifecycleManager,
		trialManager,
		paymentGateway,
		publisherService,
		cfg.App.ClientURL,
		sysLogger,
	)
	webhookService := service.NewWebhookService(uowFactory, verifier, dedup, lifecycleManager, emailService, publisherService, sysLogger)
	maintenanceService := service.NewMaintenanceService(
		uowFactory,
		lifecycleManager,
		trialManager,
		publisherService,
		emailService,
		sysLogger,
		cfg.Billing.SweepInterval,
		cfg.Billing.EventRetention,
		cfg.Billing.AbandonedCheckoutAfter,
	)

	// 5. Controllers
	return &Container{
		PlanController:         controller.NewPlanController(planService),
		EntitlementController:  controller.NewEntitlementController(entitlementService),
		SubscriptionController: controller.NewSubscriptionController(subscriptionService, publisherService),
		WebhookController:      controller.NewWebhookController(webhookService),

		ConsumerService:    consumerService,
		MaintenanceService: maintenanceService,

		Logger: sysLogger,
	}
}
