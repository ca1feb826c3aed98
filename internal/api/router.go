package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yewhenp/checkout-orchestrator/internal/handlers"
	"github.com/yewhenp/checkout-orchestrator/internal/interfaces"
	"github.com/yewhenp/checkout-orchestrator/internal/telemetry"
)

func NewRouter(orchestrator handlers.Decider, repo interfaces.DecisionRepository, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware(logger))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "checkout-orchestrator"})
	})

	checkoutHandler := handlers.NewCheckoutHandler(orchestrator, logger)
	r.POST("/checkout", checkoutHandler.Checkout)

	if repo != nil {
		decisionHandler := handlers.NewDecisionHandler(repo)
		r.GET("/decisions/:id", decisionHandler.GetDecision)
	}

	return r
}
