// Package transaction implements the transaction verification engine: card
// integrity, issuer family, expiration, CVV, billing address and order
// contents, checked in a fixed order with short-circuit on first failure.
package transaction

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yewhenp/checkout-orchestrator/internal/card"
	"github.com/yewhenp/checkout-orchestrator/internal/models"
)

const maxItemQuantity = 100

// Verdict reason used when an unexpected internal failure is caught at the
// engine boundary. Details stay in the log, never in the response.
const internalFailureReason = "transaction verification failed unexpectedly"

// AddressResolver is the engine's view of the address resolution step.
type AddressResolver interface {
	Resolve(ctx context.Context, addr models.BillingAddress) bool
}

// Engine owns the VerifyTransaction contract.
type Engine struct {
	resolver AddressResolver
	logger   *zap.Logger
	now      func() time.Time
}

func NewEngine(resolver AddressResolver, logger *zap.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// VerifyTransaction runs all checks and reports the first failure. The engine
// fails closed: an unexpected panic in any check becomes an invalid verdict
// with a generic reason, never a fault surfaced to the caller.
func (e *Engine) VerifyTransaction(ctx context.Context, order *models.Order) (verdict models.TransactionVerdict) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("transaction verification panicked", zap.Any("panic", r))
			verdict = models.TransactionVerdict{Valid: false, Reason: internalFailureReason}
		}
	}()

	verdict = e.verify(ctx, order)
	if !verdict.Valid {
		e.logger.Error("transaction is invalid", zap.String("reason", verdict.Reason))
	}
	return verdict
}

func (e *Engine) verify(ctx context.Context, order *models.Order) models.TransactionVerdict {
	cc := order.CreditCard
	addr := order.BillingAddress

	if !card.ValidateNumber(cc.Number) {
		return invalid(fmt.Sprintf("Luhn's Algorithm failed, wrong card number %s", cc.Number))
	}
	if !card.ValidateVendor(cc.Number) {
		return invalid(fmt.Sprintf("Unrecognised credit card vendor of %s, supports only MasterCard or Visa", cc.Number))
	}
	if !card.ValidateExpirationAt(cc.ExpirationDate, e.now()) {
		return invalid(fmt.Sprintf("Credit card expired %s", cc.ExpirationDate))
	}
	if !card.ValidateCVV(cc.CVV) {
		return invalid(fmt.Sprintf("Invalid CVV %s", cc.CVV))
	}
	if !e.resolver.Resolve(ctx, addr) {
		return invalid(fmt.Sprintf("Invalid address %s %s %s %s", addr.Street, addr.City, addr.State, addr.Country))
	}
	if !validateItems(order.Items) {
		return invalid(fmt.Sprintf("Invalid order list %v", order.Items))
	}
	return models.TransactionVerdict{Valid: true}
}

// validateItems checks the ordered line items. All-or-nothing: one bad item
// invalidates the whole order.
func validateItems(items []models.OrderItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if item.Quantity < 0 || item.Quantity > maxItemQuantity {
			return false
		}
		if len(item.Name) == 0 {
			return false
		}
	}
	return true
}

func invalid(reason string) models.TransactionVerdict {
	return models.TransactionVerdict{Valid: false, Reason: reason}
}
