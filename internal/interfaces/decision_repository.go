package interfaces

import (
	"context"

	"github.com/yewhenp/checkout-orchestrator/internal/models"
)

// DecisionRepository defines the contract for the decision audit trail.
// Only verdict outcomes are stored, never order contents.
type DecisionRepository interface {
	InsertDecision(ctx context.Context, rec models.DecisionRecord) error
	GetByOrderID(ctx context.Context, orderID string) (*models.DecisionRecord, error)
}
