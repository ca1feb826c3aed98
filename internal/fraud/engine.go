package fraud

import (
	"context"

	"go.uber.org/zap"

	"github.com/yewhenp/checkout-orchestrator/internal/models"
)

// Engine owns the CheckFraud contract. The evaluator behind it is a
// deployment-time choice, never a per-request one.
type Engine struct {
	evaluator Evaluator
	logger    *zap.Logger
}

func NewEngine(evaluator Evaluator, logger *zap.Logger) *Engine {
	return &Engine{evaluator: evaluator, logger: logger}
}

// Evaluator reports which evaluator variant backs this engine.
func (e *Engine) Evaluator() string {
	return e.evaluator.Name()
}

func (e *Engine) CheckFraud(ctx context.Context, order *models.Order) (models.FraudVerdict, error) {
	verdict, err := e.evaluator.Evaluate(ctx, order)
	if err != nil {
		return models.FraudVerdict{}, err
	}
	if verdict.IsFraud {
		e.logger.Warn("order flagged as fraudulent",
			zap.String("evaluator", e.evaluator.Name()),
			zap.String("reason", verdict.Reason),
		)
	}
	return verdict, nil
}
