package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/donan22/shortlink-service/internal/config"
	"github.com/donan22/shortlink-service/internal/delivery/http/handlers"
	"github.com/donan22/shortlink-service/internal/delivery/http/middleware"
	publisher "github.com/donan22/shortlink-service/internal/infrastructure/kafka"
	"github.com/donan22/shortlink-service/internal/infrastructure/metrics"
	"github.com/donan22/shortlink-service/internal/infrastructure/migrate"
	"github.com/donan22/shortlink-service/internal/infrastructure/postgres"
	"github.com/donan22/shortlink-service/internal/infrastructure/postgres/repository"
	redisinfra "github.com/donan22/shortlink-service/internal/infrastructure/redis"
	"github.com/donan22/shortlink-service/internal/infrastructure/shrinkme"
	"github.com/donan22/shortlink-service/internal/usecase"
	"github.com/donan22/shortlink-service/internal/usecase/shortcode"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/donan22/shortlink-service/internal/domain"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	logger := newLogger(cfg)

	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.LinkDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.LinkDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Init repositories
	linkRepo := repository.NewDefaultLinkRepository(db)
	monetizerRepo := repository.NewDefaultMonetizerRepository(db)
	eventRepo := repository.NewDefaultEventRepository(db)
	securityRepo := repository.NewDefaultSecurityRepository(db)
	settingsRepo := repository.NewDefaultSettingsRepository(db)

	// Short-code generator backed by the registry
	generator, err := shortcode.NewGenerator(shortcode.DefaultLength, linkRepo)
	if err != nil {
		log.Fatalf("failed to init short code generator: %v", err)
	}

	// External shortener client
	shortenerClient := shrinkme.NewClient(cfg.Shortener.BaseURL, cfg.Shortener.Timeout, logger)

	// Optional redis link cache
	var linkCache domain.LinkCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		linkCache = redisinfra.NewLinkCache(redisClient)
	}

	// Optional kafka event stream
	var eventPublisher usecase.EventPublisher
	if cfg.KafkaService.Host != "" {
		brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
		eventPublisher = publisher.NewDefaultKafkaPublisher(brokers)
	}

	// Init usecases
	linkUsecase := usecase.NewDefaultLinkUsecase(
		linkRepo,
		monetizerRepo,
		generator,
		shortenerClient,
		linkCache,
		cfg.Redis.LinkTTL,
		cfg.SiteURL,
		logger,
	)
	trackingUsecase := usecase.NewDefaultTrackingUsecase(
		eventRepo,
		linkRepo,
		monetizerRepo,
		eventPublisher,
		cfg.KafkaService.Topic,
		logger,
	)
	securityUsecase := usecase.NewDefaultSecurityUsecase(securityRepo, settingsRepo, logger)

	// Metrics and handlers
	linkMetrics := metrics.NewLinkMetrics()
	redirectHandler := handlers.NewRedirectHandler(linkUsecase, trackingUsecase, linkMetrics, logger)
	linkHandler := handlers.NewLinkHandler(linkUsecase, linkMetrics, logger)
	trackHandler := handlers.NewTrackHandler(trackingUsecase, linkMetrics, logger)
	authHandler := handlers.NewAuthHandler(securityUsecase, cfg.Admin, linkMetrics, logger)

	// Routes
	router := mux.NewRouter()
	router.Use(middleware.IPBan(securityUsecase))

	router.HandleFunc("/go/{code}", redirectHandler.Redirect).Methods("GET")
	router.HandleFunc("/admin/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/api/track", trackHandler.Track).Methods("POST")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	adminAPI := router.PathPrefix("/api").Subrouter()
	adminAPI.Use(middleware.AdminAuth(cfg.Admin.JWTSecret))
	adminAPI.HandleFunc("/links", linkHandler.CreateLink).Methods("POST")
	adminAPI.HandleFunc("/links/top", linkHandler.TopLinks).Methods("GET")
	adminAPI.HandleFunc("/links/search", linkHandler.SearchLink).Methods("GET")
	adminAPI.HandleFunc("/links/{id}/deactivate", linkHandler.DeactivateLink).Methods("POST")
	adminAPI.HandleFunc("/posts/{id}/links", linkHandler.LinksByPost).Methods("GET")
	adminAPI.HandleFunc("/revenue", trackHandler.RevenueStats).Methods("GET")

	// Periodic revenue rollup. Yesterday is rebuilt as well so events
	// written around midnight are never missed.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for {
			now := time.Now()
			for _, day := range []time.Time{now, now.AddDate(0, 0, -1)} {
				if err := trackingUsecase.RollupDailyRevenue(context.Background(), day); err != nil {
					slog.Error("revenue rollup failed", "error", err.Error())
				}
			}
			<-ticker.C
		}
	}()

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("shortlink service started on %s\n", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}

func newLogger(cfg *config.ShortlinkConfig) *slog.Logger {
	if cfg.LogConfig.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
