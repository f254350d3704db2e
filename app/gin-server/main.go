package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/adchat/config"
	"github.com/yoockh/adchat/internal/ads"
	"github.com/yoockh/adchat/internal/api/handlers"
	"github.com/yoockh/adchat/internal/api/middleware"
	"github.com/yoockh/adchat/internal/api/routes"
	"github.com/yoockh/adchat/internal/cache"
	"github.com/yoockh/adchat/internal/logger"
	"github.com/yoockh/adchat/internal/providers/llm"
	"github.com/yoockh/adchat/internal/providers/sheets"
	mongorepo "github.com/yoockh/adchat/internal/repositories/mongo"
	pgrepo "github.com/yoockh/adchat/internal/repositories/postgres"
	"github.com/yoockh/adchat/internal/services"
	"github.com/yoockh/adchat/internal/storage"
	"github.com/yoockh/adchat/internal/workers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init PostgreSQL
	db, err := config.NewPostgres(cfg.PostgresURI)
	if err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := config.MigratePostgres(db); err != nil {
		log.WithError(err).Fatal("PostgreSQL migrate error")
	}
	log.Info("PostgreSQL connected")

	// Init Redis (optional, dashboard cache)
	var dashCache cache.Cache
	if cfg.RedisURL != "" {
		rdb, err := config.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("Redis init error")
		}
		defer rdb.Close()
		dashCache = cache.NewRedisCache(rdb, "adchat:")
		log.Info("Redis connected")
	}

	// Init MongoDB (optional, click audit)
	var clickAudit mongorepo.ClickEventRepository
	if cfg.MongoURI != "" {
		mc, err := config.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			log.WithError(err).Fatal("MongoDB init error")
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mc.Disconnect(dctx)
		}()
		mdb := mc.Database(cfg.MongoDB)
		if err := config.EnsureMongoIndexes(ctx, mdb); err != nil {
			log.WithError(err).Warn("MongoDB index setup failed")
		}
		clickAudit = mongorepo.NewClickEventRepo(mdb)
		log.Info("MongoDB connected")
	}

	// GCS (optional, chat images)
	var images storage.Uploader
	if cfg.GCSBucket != "" {
		up, err := storage.NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			log.WithError(err).Fatal("GCS init error")
		}
		defer up.Close()
		images = up
	}

	// Google Sheets (optional, catalog source)
	var catalogSource sheets.Source
	if cfg.SheetsSpreadsheetID != "" {
		src, err := sheets.NewCatalogSheet(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsRange, cfg.SheetsCredentialsFile)
		if err != nil {
			log.WithError(err).Fatal("Google Sheets init error")
		}
		catalogSource = src
	}

	provider, err := llm.New(ctx, llm.FactoryConfig{
		Provider:           cfg.LLMProvider,
		OpenRouterAPIKey:   cfg.OpenRouterAPIKey,
		OpenRouterBaseURL:  cfg.OpenRouterBaseURL,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
		Timeout:            cfg.LLMTimeout,
		VertexProjectID:    cfg.VertexProjectID,
		VertexLocation:     cfg.VertexLocation,
		VertexModel:        cfg.VertexModel,
	})
	if err != nil {
		log.WithError(err).Fatal("LLM provider init error")
	}
	defer provider.Close()

	tracker, err := ads.NewTracker(cfg.ClickBaseURL)
	if err != nil {
		log.WithError(err).Fatal("CLICK_BASE_URL is invalid")
	}

	// Repositories
	tx := pgrepo.NewTransactor(db)
	userRepo := pgrepo.NewUserRepo(db)
	assistantRepo := pgrepo.NewAssistantRepo(db)
	productRepo := pgrepo.NewProductRepo(db)
	messageRepo := pgrepo.NewMessageRepo(db)
	clickRepo := pgrepo.NewClickRepo(db)
	metricsRepo := pgrepo.NewMetricsRepo(db)

	// Services
	chatSvc := services.NewChatService(services.ChatDeps{
		Tx:            tx,
		Users:         userRepo,
		Assistants:    assistantRepo,
		Products:      productRepo,
		Messages:      messageRepo,
		LLM:           provider,
		Tracker:       tracker,
		Images:        images,
		HistoryWindow: cfg.HistoryWindow,
		DefaultModel:  cfg.LLMDefaultModel,
		Logger:        log,
	})
	clickSvc := services.NewClickService(tx, productRepo, clickRepo, clickAudit, cfg.ClickAuditTTL, log)
	conversationSvc := services.NewConversationService(messageRepo)
	assistantSvc := services.NewAssistantService(assistantRepo)
	dashboardSvc := services.NewDashboardService(metricsRepo, dashCache, cfg.DashboardCacheTTL)
	catalogSvc := services.NewCatalogService(catalogSource, productRepo, log)

	if catalogSource != nil {
		w := &workers.CatalogSyncWorker{Catalog: catalogSvc, Schedule: cfg.CatalogSyncCron, Logger: log}
		if err := w.Start(ctx); err != nil {
			log.WithError(err).Fatal("catalog sync worker error")
		}
		defer w.Stop()
	}

	// Start Gin server
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Chat:         handlers.NewChatHandler(chatSvc),
		Click:        handlers.NewClickHandler(clickSvc),
		Conversation: handlers.NewConversationHandler(conversationSvc),
		Assistant:    handlers.NewAssistantHandler(assistantSvc),
		Admin: handlers.NewAdminHandler(handlers.AdminDeps{
			Auth: services.NewAdminAuthService(services.AdminAuthConfig{
				Username:     cfg.AdminUsername,
				PasswordHash: cfg.AdminPasswordHash,
				Secret:       cfg.AdminJWTSecret,
				TTL:          cfg.AdminTokenTTL,
			}),
			Users:         services.NewUserService(userRepo),
			Conversations: conversationSvc,
			Products:      services.NewProductService(productRepo),
			Clicks:        clickSvc,
			Dashboard:     dashboardSvc,
			Catalog:       catalogSvc,
		}),
		TelegramAuth: middleware.TelegramAuthConfig{
			BotToken:  cfg.TelegramBotToken,
			MaxAge:    cfg.TelegramAuthMaxAge,
			DevUserID: cfg.AuthDevUserID,
		},
		AdminJWTSecret: cfg.AdminJWTSecret,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown error")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
