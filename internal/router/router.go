package router

import (
	"time"

	"ridgeworks/config"
	"ridgeworks/internal/feed"
	"ridgeworks/internal/handler"
	"ridgeworks/internal/middleware"
	"ridgeworks/internal/repository"
	"ridgeworks/internal/service"
	"ridgeworks/internal/ws"
	"ridgeworks/pkg/cloudinary"
	"ridgeworks/pkg/mailer"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers and returns the engine
// plus the websocket hub the feed subscriber delivers into.
func Setup(
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	cloud cloudinary.Client,
	mail mailer.Mailer,
	log *zap.SugaredLogger,
) (*gin.Engine, *ws.Hub) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	affRepo := repository.NewAffiliateRepository(db)
	contractRepo := repository.NewContractRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	deletionRepo := repository.NewDeletionRequestRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	emailLogRepo := repository.NewEmailLogRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	hub := ws.NewHub()

	// Services
	var feedPub service.FeedPublisher
	if rdb != nil {
		feedPub = feed.NewPublisher(rdb, log)
	}
	dispatcher := service.NewDispatcher(notifRepo, userRepo, emailLogRepo, mail, feedPub, log)
	authSvc := service.NewAuthService(cfg, userRepo, clientRepo, affRepo, log)
	workflowSvc := service.NewWorkflowService(
		contractRepo, clientRepo, affRepo, paymentRepo, activityRepo,
		deletionRepo, payoutRepo, cloud, dispatcher,
		cfg.Commission.DefaultRate, log,
	)

	// Handlers
	healthHandler := handler.NewHealthHandler(db, rdb)
	authHandler := handler.NewAuthHandler(authSvc, log)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	contractHandler := handler.NewContractHandler(workflowSvc, contractRepo, clientRepo, affRepo, activityRepo, log)
	workflowHandler := handler.NewWorkflowHandler(workflowSvc, log)
	clientHandler := handler.NewClientHandler(clientRepo, log)
	projectHandler := handler.NewProjectHandler(projectRepo, log)
	affiliateHandler := handler.NewAffiliateHandler(affRepo, payoutRepo, deletionRepo, log)
	notificationHandler := handler.NewNotificationHandler(notifRepo)
	messageHandler := handler.NewMessageHandler(msgRepo, contractRepo, clientRepo, affRepo, dispatcher, log)
	adminHandler := handler.NewAdminHandler(adminRepo, userRepo, paymentRepo, deletionRepo, settingRepo, emailLogRepo, log)
	uploadHandler := handler.NewUploadHandler(contractRepo, clientRepo, cloud, log)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired()

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
		}

		// Public signing-page lookup and portfolio.
		api.GET("/contracts/link/:token", contractHandler.GetByLinkToken)
		api.GET("/portfolio", projectHandler.Featured)

		contracts := api.Group("/contracts")
		contracts.Use(authMw)
		{
			contracts.POST("", middleware.RequireRole("ADMIN", "AFFILIATE"), contractHandler.Create)
			contracts.GET("", contractHandler.List)
			contracts.GET("/:id", contractHandler.Get)
			contracts.GET("/:id/activities", contractHandler.Activities)
			contracts.PUT("/:id/terms", workflowHandler.UpdateTerms)
			contracts.POST("/:id/sign", workflowHandler.Sign)
			contracts.POST("/:id/id-card", uploadHandler.IDCard)
			contracts.POST("/:id/payment-proof", workflowHandler.UploadPaymentProof)
			contracts.POST("/:id/verify-payment", adminMw, workflowHandler.VerifyPaymentProof)
			contracts.POST("/:id/deletion-request", middleware.RequireRole("AFFILIATE"), workflowHandler.RequestDeletion)
			contracts.POST("/:id/complete", adminMw, workflowHandler.Complete)
			contracts.POST("/:id/cancel", adminMw, workflowHandler.Cancel)
			contracts.DELETE("/:id", adminMw, workflowHandler.Delete)

			contracts.GET("/:id/messages", messageHandler.List)
			contracts.POST("/:id/messages", messageHandler.Send)
			contracts.PUT("/:id/messages/read", messageHandler.MarkRead)
			contracts.GET("/:id/messages/unread-count", messageHandler.UnreadCount)
		}

		clients := api.Group("/clients")
		clients.Use(authMw)
		{
			clients.GET("/me", clientHandler.Me)
			clients.POST("", adminMw, clientHandler.Create)
			clients.GET("", adminMw, clientHandler.List)
			clients.GET("/:id", adminMw, clientHandler.Get)
			clients.PUT("/:id", adminMw, clientHandler.Update)
		}

		affiliates := api.Group("/affiliates")
		affiliates.Use(authMw)
		{
			affiliates.GET("/me", affiliateHandler.Me)
			affiliates.GET("/me/stats", affiliateHandler.Stats)
			affiliates.GET("/me/payouts", affiliateHandler.Payouts)
			affiliates.GET("/me/deletion-requests", affiliateHandler.DeletionRequests)
			affiliates.GET("", adminMw, affiliateHandler.List)
			affiliates.GET("/:id/stats", adminMw, affiliateHandler.StatsByID)
		}

		projects := api.Group("/projects")
		projects.Use(authMw)
		{
			projects.GET("", projectHandler.List)
			projects.GET("/:id", projectHandler.Get)
			projects.POST("", adminMw, projectHandler.Create)
			projects.PUT("/:id", adminMw, projectHandler.Update)
			projects.DELETE("/:id", adminMw, projectHandler.Delete)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/users", adminHandler.Users)
			admin.GET("/payment-proofs/pending", adminHandler.PendingProofs)
			admin.GET("/deletion-requests/pending", adminHandler.PendingDeletions)
			admin.PUT("/deletion-requests/:id/review", workflowHandler.ReviewDeletion)
			admin.PUT("/payouts/:id/paid", affiliateHandler.MarkPayoutPaid)
			admin.GET("/settings", adminHandler.Settings)
			admin.PUT("/settings", adminHandler.UpdateSetting)
			admin.GET("/email-logs", adminHandler.EmailLogs)
		}
	}

	r.GET("/ws/events", ws.UpgradeEventsWS(&cfg.JWT, hub))

	return r, hub
}
