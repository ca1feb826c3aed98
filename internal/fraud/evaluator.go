// Package fraud implements the fraud detection engine and its two evaluator
// variants: a deterministic denylist rule and an external AI judge.
package fraud

import (
	"context"

	"github.com/yewhenp/checkout-orchestrator/internal/models"
)

// Evaluator produces a fraud verdict for one order. Implementations fail
// closed on any internal uncertainty; the error return is reserved for
// context cancellation, never for a judgment outcome.
type Evaluator interface {
	Evaluate(ctx context.Context, order *models.Order) (models.FraudVerdict, error)
	Name() string
}
