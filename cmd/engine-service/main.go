package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/lifearc-ai/engine/pkg/actuarial"
	"github.com/lifearc-ai/engine/pkg/common/cache"
	"github.com/lifearc-ai/engine/pkg/common/config"
	"github.com/lifearc-ai/engine/pkg/common/kafka"
	"github.com/lifearc-ai/engine/pkg/common/logger"
	"github.com/lifearc-ai/engine/pkg/observability/metrics"
	"github.com/lifearc-ai/engine/pkg/predict"
	"github.com/lifearc-ai/engine/pkg/recommend"
	"github.com/lifearc-ai/engine/pkg/risk"
	"github.com/lifearc-ai/engine/pkg/scenario"
	"github.com/lifearc-ai/engine/pkg/server/middleware"
)

func main() {
	logger.Init()
	metrics.Init()
	cfg := config.Load()

	table, err := actuarial.Load(cfg.ActuarialTablePath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load actuarial table")
	}
	riskCfg, err := risk.LoadConfig(cfg.RiskConfigPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load risk config")
	}
	catalog, err := scenario.Load(cfg.ScenarioCatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load scenario catalog")
	}

	predictor, err := predict.New(table, riskCfg, catalog, predict.DefaultParams())
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to build predictor")
	}

	service := &EngineService{
		predictor: predictor,
		generator: recommend.NewGenerator(predictor),
	}
	if cfg.CacheEnabled {
		service.cache = cache.New(cfg)
	}
	if cfg.EventsEnabled {
		service.producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer service.producer.Close()
	}

	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods("GET")
	router.HandleFunc("/api/v1/predict", service.handlePredict).Methods("POST")
	router.HandleFunc("/api/v1/predict/scenario/{name}", service.handlePredictScenario).Methods("POST")
	router.HandleFunc("/api/v1/predict/compare", service.handleCompare).Methods("POST")
	router.HandleFunc("/api/v1/recommendations", service.handleRecommendations).Methods("POST")
	router.HandleFunc("/api/v1/scenarios", service.handleListScenarios).Methods("GET")

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Engine Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Engine Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Engine Service stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
