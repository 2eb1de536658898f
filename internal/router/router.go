// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/creatorbridge/negotiation-backend/internal/config"
	"github.com/creatorbridge/negotiation-backend/internal/handlers"
	"github.com/creatorbridge/negotiation-backend/internal/middleware"
	"github.com/creatorbridge/negotiation-backend/internal/pricing"
	"github.com/creatorbridge/negotiation-backend/internal/services"
	"github.com/creatorbridge/negotiation-backend/internal/store"
	"github.com/creatorbridge/negotiation-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) (*gin.Engine, error) {
	// Pricing engine
	model := pricing.NewModel()
	policy := pricing.Policy{
		OverageThreshold: cfg.Negotiation.OverageThresholdPercent / 100,
		Flexibility:      cfg.Negotiation.FlexibilityPercent / 100,
		DiscloseCeiling:  cfg.Negotiation.DiscloseCeiling,
	}
	engine := pricing.NewEngine(model, policy)

	// Stores
	sessionStore := store.NewGormSessionStore(db)
	contractStore := store.NewGormContractStore(db)

	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	documentService, err := services.NewDocumentService()
	if err != nil {
		return nil, err
	}
	paymentService := services.NewPaymentService(db, cfg)
	contractService := services.NewContractService(contractStore, documentService, storageService, paymentService, notificationService, logger)
	classifier := services.NewHostedClassifier(cfg.Classifier, logger)
	negotiationService := services.NewNegotiationService(
		sessionStore,
		engine,
		services.NewTemplateService(),
		classifier,
		contractService,
		notificationService,
		logger,
	)
	authService := services.NewAuthService(db, cfg, notificationService, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	negotiationHandler := handlers.NewNegotiationHandler(negotiationService)
	contractHandler := handlers.NewContractHandler(contractService)
	referenceHandler := handlers.NewReferenceHandler(model)
	voiceHandler := handlers.NewVoiceHandler(negotiationService, logger)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Negotiation routes
		negotiations := v1.Group("/negotiations")
		negotiations.Use(middleware.OptionalAuth())
		{
			negotiations.POST("", negotiationHandler.StartSession)
			negotiations.GET("", negotiationHandler.ListSessions)
			negotiations.GET("/:id", negotiationHandler.GetSession)
			negotiations.GET("/:id/summary", negotiationHandler.GetSummary)
			negotiations.GET("/:id/contract", contractHandler.GetContractBySession)
			negotiations.POST("/:id/messages", middleware.MessageRateLimit(), negotiationHandler.PostMessage)
			negotiations.PUT("/:id/deliverables", negotiationHandler.UpdateDeliverables)
			negotiations.PUT("/:id/budget", negotiationHandler.UpdateBudget)
			negotiations.POST("/:id/cancel", negotiationHandler.Cancel)
		}

		// Contract routes
		contracts := v1.Group("/contracts")
		contracts.Use(middleware.OptionalAuth())
		{
			contracts.GET("", contractHandler.ListContracts)
			contracts.GET("/:id", contractHandler.GetContract)
			contracts.GET("/:id/document", contractHandler.GetDocument)
			contracts.POST("/:id/sign", contractHandler.SignContract)
			contracts.POST("/:id/cancel", contractHandler.CancelContract)
		}

		// Voice webhooks (provider-authenticated, no user auth)
		voice := v1.Group("/voice")
		voice.Use(middleware.MessageRateLimit())
		{
			voice.POST("/:id/inbound", voiceHandler.Inbound)
			voice.POST("/:id/collect", voiceHandler.Collect)
		}

		// Reference data
		reference := v1.Group("/reference")
		{
			reference.GET("/platforms", referenceHandler.ListPlatforms)
			reference.GET("/locations", referenceHandler.ListLocations)
		}
	}

	return r, nil
}
