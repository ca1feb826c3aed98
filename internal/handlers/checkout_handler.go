package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yewhenp/checkout-orchestrator/internal/models"
)

// Decider is the handler's view of the checkout coordinator.
type Decider interface {
	Decide(ctx context.Context, order *models.Order) (*models.OrderResponse, error)
}

type CheckoutHandler struct {
	orchestrator Decider
	logger       *zap.Logger
}

func NewCheckoutHandler(orchestrator Decider, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Checkout decodes the submission, runs the decision and returns the order
// response. A coordinator failure is a hard 500: an order is never approved
// because a verifier was unreachable.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	order, err := models.DecodeOrder(c.Request.Body)
	if err != nil {
		h.logger.Warn("rejected checkout request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.orchestrator.Decide(c.Request.Context(), order)
	if err != nil {
		h.logger.Error("checkout decision failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decide order"})
		return
	}

	c.JSON(http.StatusOK, response)
}
