package main

import (
	"net/http"
	"os"
	"time"

	"github.com/bobby0007/internal-CRM/internal/api"
	"github.com/bobby0007/internal-CRM/internal/audit"
	"github.com/bobby0007/internal-CRM/internal/catalog"
	"github.com/bobby0007/internal-CRM/internal/config"
	"github.com/bobby0007/internal-CRM/internal/database"
	"github.com/bobby0007/internal-CRM/internal/logging"
	"github.com/bobby0007/internal-CRM/internal/metrics"
	"github.com/bobby0007/internal-CRM/internal/session"
	"github.com/bobby0007/internal-CRM/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.NewLogger(cfg.LogLevel)

	db, err := database.Init(cfg)
	if err != nil {
		logger.Error("failed to initialise database", "error", err)
		os.Exit(1)
	}

	metricRegistry := metrics.Registry("internal_crm")
	upstreamClient := upstream.NewClient(cfg, metricRegistry, logger)
	sessionStore := session.NewStore(db, time.Duration(cfg.SessionTTLHours)*time.Hour)
	recorder := audit.NewRecorder(db, logger)
	drafts := catalog.NewDraftStore()

	authHandler := api.NewAuthHandler(sessionStore, cfg.AllowedEmailDomain)
	merchantHandler := api.NewMerchantHandler(upstreamClient, recorder)
	rateLimitHandler := api.NewRateLimitHandler(upstreamClient, recorder)
	configHandler := api.NewConfigHandler(upstreamClient, recorder)
	catalogHandler := api.NewCatalogHandler(upstreamClient, drafts, recorder)
	communicationsHandler := api.NewCommunicationsHandler(upstreamClient, recorder)
	silentAuthHandler := api.NewSilentAuthHandler(upstreamClient, recorder)
	auditHandler := api.NewAuditHandler(recorder)

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, token, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth Routes
	r.POST("/auth/callback", authHandler.Callback)
	r.GET("/auth/session", authHandler.Session)
	r.POST("/auth/logout", authHandler.Logout)

	// Dashboard API Routes
	apiGroup := r.Group("/api")
	apiGroup.Use(session.Middleware(sessionStore))
	{
		// Merchant Routes
		apiGroup.POST("/merchant/get", merchantHandler.GetDetails)
		apiGroup.POST("/merchant/status", merchantHandler.UpdateStatus)
		apiGroup.POST("/merchant/international", merchantHandler.UpdateInternational)

		// Rate Limit Routes
		apiGroup.POST("/rate-limit/get", rateLimitHandler.Get)
		apiGroup.POST("/rate-limit/update", rateLimitHandler.Update)
		apiGroup.POST("/rate-limit/country-code", rateLimitHandler.UpsertCountryCode)

		// Merchant Config Routes
		apiGroup.POST("/merchant-config/get", configHandler.Get)
		apiGroup.POST("/merchant-config/update", configHandler.Update)

		// Template Catalog Routes
		catalogGroup := apiGroup.Group("/template-catalog")
		{
			catalogGroup.GET("", catalogHandler.View)
			catalogGroup.POST("/fetch", catalogHandler.Fetch)
			catalogGroup.POST("/buckets", catalogHandler.AddBucket)
			catalogGroup.POST("/templates", catalogHandler.AddTemplate)
			catalogGroup.PUT("/templates", catalogHandler.EditTemplate)
			catalogGroup.POST("/templates/delete", catalogHandler.DeleteTemplate)
			catalogGroup.POST("/import", catalogHandler.Import)
			catalogGroup.POST("/toggle", catalogHandler.Toggle)
			catalogGroup.POST("/save", catalogHandler.Save)
		}

		// Communications Routes
		apiGroup.POST("/communications/template", communicationsHandler.CreateTemplate)

		// Silent Auth Routes
		apiGroup.POST("/silent-auth/config", silentAuthHandler.Save)

		// Audit Routes
		apiGroup.GET("/audit", auditHandler.Recent)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	logger.Info("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("failed to run server", "error", err)
		os.Exit(1)
	}
}
