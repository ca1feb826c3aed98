package fraud

import (
	"context"

	"go.uber.org/zap"

	"github.com/yewhenp/checkout-orchestrator/internal/models"
)

// The one denylisted card number recognized by the rule evaluator.
const denylistedCardNumber = "4111111111111111"

// RuleEvaluator is the deterministic fallback evaluator: fraudulent if and
// only if the card number matches the denylist.
type RuleEvaluator struct {
	logger *zap.Logger
}

func NewRuleEvaluator(logger *zap.Logger) *RuleEvaluator {
	return &RuleEvaluator{logger: logger}
}

func (e *RuleEvaluator) Name() string { return "rule" }

func (e *RuleEvaluator) Evaluate(ctx context.Context, order *models.Order) (models.FraudVerdict, error) {
	if err := ctx.Err(); err != nil {
		return models.FraudVerdict{}, err
	}
	if order.CreditCard.Number == denylistedCardNumber {
		e.logger.Warn("denylisted card number used")
		return models.FraudVerdict{IsFraud: true, Reason: "Fraudulent card number."}, nil
	}
	return models.FraudVerdict{}, nil
}
