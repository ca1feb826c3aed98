package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/yewhenp/checkout-orchestrator/internal/address"
	"github.com/yewhenp/checkout-orchestrator/internal/api"
	"github.com/yewhenp/checkout-orchestrator/internal/config"
	"github.com/yewhenp/checkout-orchestrator/internal/fraud"
	"github.com/yewhenp/checkout-orchestrator/internal/interfaces"
	"github.com/yewhenp/checkout-orchestrator/internal/repository"
	"github.com/yewhenp/checkout-orchestrator/internal/service"
	"github.com/yewhenp/checkout-orchestrator/internal/telemetry"
	"github.com/yewhenp/checkout-orchestrator/internal/transaction"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := telemetry.NewLogger()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	if err := telemetry.InitTracing("checkout-orchestrator", cfg.JaegerEndpoint); err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer telemetry.Shutdown(context.Background())

	logger.Info("Starting Checkout Orchestrator")

	// Decision audit store (optional)
	var repo interfaces.DecisionRepository
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		decisionRepo := repository.NewDecisionRepository(db)
		if err := decisionRepo.InitDB(); err != nil {
			logger.Fatal("Failed to initialize database", zap.Error(err))
		}
		repo = decisionRepo
	} else {
		logger.Warn("DATABASE_URL not set, decision audit trail disabled")
	}

	// Geocode cache (optional)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.RedisURL,
		})
	}

	// Decision event stream (optional)
	var kafkaWriter *kafka.Writer
	if cfg.KafkaBrokers != "" {
		kafkaWriter = &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBrokers),
			Topic:    "order.decision",
			Balancer: &kafka.LeastBytes{},
		}
		defer kafkaWriter.Close()
	}

	// Transaction verification engine
	geocoder := address.NewNominatimClient(cfg.NominatimURL)
	resolver := address.NewResolver(geocoder, redisClient, address.DefaultRetryPolicy(), logger)
	transactionEngine := transaction.NewEngine(resolver, logger)

	// Fraud detection engine: evaluator choice is a deployment-time policy
	var evaluator fraud.Evaluator
	switch cfg.FraudEvaluator {
	case "ai":
		evaluator = fraud.NewAIEvaluator(fraud.NewAnthropicClient(cfg.AnthropicAPIKey), logger)
	case "rule":
		evaluator = fraud.NewRuleEvaluator(logger)
	default:
		logger.Fatal("Unknown fraud evaluator", zap.String("evaluator", cfg.FraudEvaluator))
	}
	fraudEngine := fraud.NewEngine(evaluator, logger)
	logger.Info("Fraud evaluator selected", zap.String("evaluator", fraudEngine.Evaluator()))

	// Checkout coordinator
	orchestrator := service.NewOrchestrator(
		fraudEngine,
		transactionEngine,
		repo,
		kafkaWriter,
		logger,
		cfg.DecisionTimeout,
	)

	// Setup HTTP server
	r := api.NewRouter(orchestrator, repo, logger)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Checkout Orchestrator starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
