package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yewhenp/checkout-orchestrator/internal/interfaces"
)

type DecisionHandler struct {
	repo interfaces.DecisionRepository
}

func NewDecisionHandler(repo interfaces.DecisionRepository) *DecisionHandler {
	return &DecisionHandler{repo: repo}
}

// GetDecision returns the audit record of a past checkout decision.
func (h *DecisionHandler) GetDecision(c *gin.Context) {
	orderID := c.Param("id")

	rec, err := h.repo.GetByOrderID(c.Request.Context(), orderID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Decision not found"})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch decision"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":      rec.OrderID,
		"status":        rec.Status,
		"error_message": rec.ErrorMessage,
		"evaluator":     rec.Evaluator,
		"created_at":    rec.CreatedAt,
	})
}
