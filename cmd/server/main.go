package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/storekit/translations-backend/internal/api/handlers"
	"github.com/storekit/translations-backend/internal/config"
	"github.com/storekit/translations-backend/internal/database"
	"github.com/storekit/translations-backend/internal/metrics"
	"github.com/storekit/translations-backend/internal/middleware"
	"github.com/storekit/translations-backend/internal/services"
)

const metricsRefreshInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	if err := database.Initialize(cfg.DatabasePath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	db := database.GetDB()

	if err := database.RunMigrations(db, cfg.DefaultLanguage); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Services
	cache := services.NewMemoryCache(cfg.CacheTTL)
	registry := services.NewLanguageRegistry(db)
	store := services.NewLanguageValueStore(db)
	dictionary := services.NewDictionaryService(registry, store, cache, cfg.DefaultLanguage, cfg.CacheDisabled)
	translate := services.NewTranslateService(dictionary, cfg.TranslateDisabled)
	exports := services.NewExportService(cfg.ExportsDir, store)

	// Background workers
	ctx, cancel := context.WithCancel(context.Background())
	go cache.StartSweeper(ctx)
	go refreshMetricsLoop(ctx, db)

	// Router
	router := gin.Default()
	router.Use(metrics.HTTPMetrics())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	translationHandler := handlers.NewTranslationHandler(translate, dictionary, store)
	languageHandler := handlers.NewLanguageHandler(registry, store, exports)
	cacheHandler := handlers.NewCacheHandler(cache, store)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/auth/status", middleware.AuthStatus(cfg.AdminKey))

	api := router.Group("/api/translations")
	{
		// Read path: public, never fails past the resolver
		api.GET("/translate/:key", translationHandler.Translate)
		api.POST("/translate/format", translationHandler.TranslateFormat)
		api.POST("/translate/array", translationHandler.TranslateArray)
		api.GET("/languages", languageHandler.ListLanguages)
		api.GET("/languages/:code/translations", languageHandler.ListTranslationsByLanguage)
		api.GET("/cache/stats", cacheHandler.CacheStats)

		// Admin path: key-gated and rate-limited
		admin := api.Group("")
		admin.Use(middleware.AdminKeyAuth(cfg.AdminKey))
		admin.Use(middleware.RateLimit(cfg.AdminRateRPS, cfg.AdminRateBurst))
		{
			admin.POST("/refresh", translationHandler.Refresh)
			admin.POST("/translations", translationHandler.CreateTranslation)
			admin.PUT("/translations/:id", translationHandler.UpdateTranslation)
			admin.DELETE("/translations/:id", translationHandler.DeleteTranslation)
			admin.POST("/languages", languageHandler.CreateLanguage)
			admin.PUT("/languages/:id", languageHandler.UpdateLanguage)
			admin.DELETE("/languages/:id", languageHandler.DeleteLanguage)
			admin.POST("/languages/:id/default", languageHandler.SetDefaultLanguage)
			admin.GET("/languages/:code/missing", languageHandler.ListMissingTranslations)
			admin.GET("/languages/:code/export", languageHandler.ExportLanguage)
			admin.POST("/cache/clear", cacheHandler.ClearCache)
			admin.POST("/cache/warmup", cacheHandler.WarmUpCache)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Translations API listening on :%s (default language %s)", cfg.Port, cfg.DefaultLanguage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) > 0 {
		c.AllowOrigins = origins
	} else {
		c.AllowAllOrigins = true
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", "X-Language")
	return c
}

// refreshMetricsLoop keeps the store-level gauges current.
func refreshMetricsLoop(ctx context.Context, db *gorm.DB) {
	metrics.UpdateTranslationMetrics(db)

	ticker := time.NewTicker(metricsRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateTranslationMetrics(db)
		}
	}
}
