package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/familytask/familytask-go/internal/auth"
	"github.com/familytask/familytask-go/internal/config"
	"github.com/familytask/familytask-go/internal/email"
	"github.com/familytask/familytask-go/internal/handlers"
	"github.com/familytask/familytask-go/internal/middleware"
	"github.com/familytask/familytask-go/internal/realtime"
)

func registerRoutes(
	r *gin.Engine,
	pool *pgxpool.Pool,
	jwtService *auth.JWTService,
	hub *realtime.Hub,
	mailer *email.Client,
	cfg *config.Config,
	logger *zap.Logger,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": Version,
		})
	})

	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version": Version,
			"service": "familytask-go",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public endpoints: login, helpdesk intake, provider webhooks
	r.POST("/api/auth/login", handlers.Login(jwtService))
	r.POST("/api/support/tickets", handlers.CreateTicket(mailer, cfg.Email.SupportInbox, logger))
	r.POST("/api/webhooks/lemonsqueezy", handlers.LemonSqueezyWebhook(cfg.Webhooks.LemonSqueezySecret, logger))
	r.POST("/api/support-webhook", handlers.ResendWebhook(cfg.Webhooks.ResendSecret, logger))

	// Authenticated endpoints
	api := r.Group("/api")
	api.Use(middleware.RequireAuth(jwtService))
	{
		api.GET("/family", handlers.GetFamily)
		api.GET("/users", handlers.ListUsers)
		api.GET("/users/:id/points", handlers.GetUserPoints)

		api.GET("/tasks", handlers.ListTasks)
		api.GET("/tasks/:id", handlers.GetTask)
		api.POST("/tasks/:id/complete", handlers.CompleteTask(hub))

		api.GET("/rewards", handlers.ListRewards)
		api.POST("/rewards/:id/redeem", handlers.RedeemReward)

		api.GET("/redemptions", handlers.ListRedemptions)

		api.GET("/notifications", handlers.ListNotifications)
		api.GET("/notifications/stream", handlers.StreamNotifications(hub, logger))
		api.PATCH("/notifications/:id/read", handlers.MarkNotificationRead)
		api.DELETE("/notifications/:id", handlers.DeleteNotification)
	}

	// Parent-only endpoints. RequireParent re-checks the role in the
	// database on every call.
	parent := r.Group("/api")
	parent.Use(middleware.RequireAuth(jwtService), middleware.RequireParent(pool))
	{
		parent.POST("/tasks", handlers.CreateTask)
		parent.PATCH("/tasks/:id", handlers.UpdateTask)
		parent.DELETE("/tasks/:id", handlers.DeleteTask)
		parent.POST("/tasks/:id/approve", handlers.ApproveTask(hub))
		parent.POST("/tasks/:id/reset", handlers.ResetTask)

		parent.POST("/rewards", handlers.CreateReward)
		parent.PATCH("/rewards/:id", handlers.UpdateReward)

		parent.POST("/redemptions/:id/resolve", handlers.ResolveRedemption(hub))

		parent.POST("/notifications", handlers.CreateNotification(hub))

		parent.GET("/support/tickets", handlers.ListTickets)
		parent.PATCH("/support/tickets/:id", handlers.UpdateTicket)
	}
}
