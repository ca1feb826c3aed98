package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yewhenp/checkout-orchestrator/internal/interfaces"
	"github.com/yewhenp/checkout-orchestrator/internal/models"
	"github.com/yewhenp/checkout-orchestrator/internal/telemetry"
)

// FraudChecker is the coordinator's view of the fraud detection engine.
type FraudChecker interface {
	CheckFraud(ctx context.Context, order *models.Order) (models.FraudVerdict, error)
	Evaluator() string
}

// TransactionVerifier is the coordinator's view of the transaction
// verification engine. Verifiers fail closed into verdicts; they never
// surface transport faults.
type TransactionVerifier interface {
	VerifyTransaction(ctx context.Context, order *models.Order) models.TransactionVerdict
}

// Orchestrator is the checkout coordinator: it fans one order out to both
// verification engines in parallel, joins their verdicts and decides.
type Orchestrator struct {
	fraud           FraudChecker
	transaction     TransactionVerifier
	repo            interfaces.DecisionRepository
	kafkaWriter     *kafka.Writer
	logger          *zap.Logger
	decisionTimeout time.Duration
}

// NewOrchestrator wires the coordinator. repo and kafkaWriter may be nil;
// audit rows and decision events are best-effort side channels.
func NewOrchestrator(
	fraud FraudChecker,
	transaction TransactionVerifier,
	repo interfaces.DecisionRepository,
	kafkaWriter *kafka.Writer,
	logger *zap.Logger,
	decisionTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		fraud:           fraud,
		transaction:     transaction,
		repo:            repo,
		kafkaWriter:     kafkaWriter,
		logger:          logger,
		decisionTimeout: decisionTimeout,
	}
}

// Decide runs the fraud check and the transaction check concurrently, waits
// for both, and aggregates them with fraud taking precedence. A non-nil error
// means no decision was reached (deadline, cancellation); the caller must
// treat it as a hard failure, never as an approval.
func (o *Orchestrator) Decide(ctx context.Context, order *models.Order) (*models.OrderResponse, error) {
	if o.decisionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.decisionTimeout)
		defer cancel()
	}

	ctx, span := telemetry.StartSpan(ctx, "checkout.Decide")
	defer span.End()

	start := time.Now()
	orderID := uuid.NewString()

	var (
		fraudVerdict models.FraudVerdict
		txnVerdict   models.TransactionVerdict
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fctx, fraudSpan := telemetry.StartSpan(gctx, "checkout.CheckFraud")
		defer fraudSpan.End()

		verdict, err := o.fraud.CheckFraud(fctx, order)
		if err != nil {
			return fmt.Errorf("fraud check: %w", err)
		}
		fraudVerdict = verdict
		return nil
	})
	g.Go(func() error {
		tctx, txnSpan := telemetry.StartSpan(gctx, "checkout.VerifyTransaction")
		defer txnSpan.End()

		txnVerdict = o.transaction.VerifyTransaction(tctx, order)
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		o.logger.Error("checkout decision failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return nil, err
	}

	response := &models.OrderResponse{
		OrderID:        orderID,
		SuggestedBooks: models.SuggestedBooks(),
	}

	// Fraud takes precedence: only one reason is ever surfaced.
	switch {
	case fraudVerdict.IsFraud:
		response.Status = models.StatusDenied
		response.ErrorMessage = fraudVerdict.Reason
	case !txnVerdict.Valid:
		response.Status = models.StatusDenied
		response.ErrorMessage = txnVerdict.Reason
	default:
		response.Status = models.StatusApproved
	}

	span.SetAttributes(attribute.String("decision.status", response.Status))

	o.logger.Info("checkout decided",
		zap.String("order_id", orderID),
		zap.String("status", response.Status),
		zap.Duration("duration", time.Since(start)),
	)

	telemetry.DecisionsTotal.WithLabelValues(response.Status).Inc()
	telemetry.DecisionDuration.Observe(time.Since(start).Seconds())

	o.recordDecision(ctx, response)
	return response, nil
}

// recordDecision persists the audit row and publishes the decision event.
// Both are best-effort: the decision stands even when a side channel fails.
func (o *Orchestrator) recordDecision(ctx context.Context, response *models.OrderResponse) {
	now := time.Now()

	if o.repo != nil {
		rec := models.DecisionRecord{
			OrderID:      response.OrderID,
			Status:       response.Status,
			ErrorMessage: response.ErrorMessage,
			Evaluator:    o.fraud.Evaluator(),
			CreatedAt:    now,
		}
		if err := o.repo.InsertDecision(ctx, rec); err != nil {
			o.logger.Error("failed to persist decision",
				zap.String("order_id", response.OrderID),
				zap.Error(err),
			)
		}
	}

	if o.kafkaWriter != nil {
		event := models.DecisionEvent{
			OrderID:      response.OrderID,
			Status:       response.Status,
			ErrorMessage: response.ErrorMessage,
			Evaluator:    o.fraud.Evaluator(),
			DecidedAt:    now,
		}
		eventJSON, err := json.Marshal(event)
		if err != nil {
			o.logger.Error("failed to marshal decision event", zap.Error(err))
			return
		}
		if err := o.kafkaWriter.WriteMessages(ctx, kafka.Message{
			Key:   []byte(response.OrderID),
			Value: eventJSON,
		}); err != nil {
			o.logger.Error("failed to publish decision event",
				zap.String("order_id", response.OrderID),
				zap.Error(err),
			)
		}
	}
}
