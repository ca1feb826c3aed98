package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yewhenp/checkout-orchestrator/internal/fraud"
	"github.com/yewhenp/checkout-orchestrator/internal/models"
	"github.com/yewhenp/checkout-orchestrator/internal/transaction"
)

type alwaysResolves struct{}

func (alwaysResolves) Resolve(ctx context.Context, addr models.BillingAddress) bool { return true }

// fullOrder returns an order that passes every transaction check. The
// expiration is derived from the wall clock since the engine checks it
// against today.
func fullOrder() *models.Order {
	exp := time.Now().AddDate(0, 2, 0)
	return &models.Order{
		User: models.User{Name: "Jane Doe", Contact: "jane@example.com"},
		CreditCard: models.CreditCard{
			Number:         "4532015112830366",
			ExpirationDate: fmt.Sprintf("%d/%d", int(exp.Month()), exp.Year()),
			CVV:            "123",
		},
		Items: []models.OrderItem{{Name: "book", Quantity: 1}},
		BillingAddress: models.BillingAddress{
			Street: "Main St 1", City: "Tartu", State: "Tartumaa", Zip: "51009", Country: "Estonia",
		},
		ShippingMethod: "standard",
		TermsAccepted:  true,
	}
}

func newRealOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	logger := zap.NewNop()

	fraudEngine := fraud.NewEngine(fraud.NewRuleEvaluator(logger), logger)
	txnEngine := transaction.NewEngine(alwaysResolves{}, logger)

	return NewOrchestrator(fraudEngine, txnEngine, nil, nil, logger, 5*time.Second)
}

func TestDecideEndToEndApproved(t *testing.T) {
	o := newRealOrchestrator(t)

	resp, err := o.Decide(context.Background(), fullOrder())
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, resp.Status)
	assert.Empty(t, resp.ErrorMessage)
}

func TestDecideEndToEndLuhnFailure(t *testing.T) {
	o := newRealOrchestrator(t)

	order := fullOrder()
	order.CreditCard.Number = "4532015112830367"

	resp, err := o.Decide(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDenied, resp.Status)
	assert.Contains(t, resp.ErrorMessage, "Luhn's Algorithm failed",
		"transaction reason wins when the fraud signal is clean")
}

func TestDecideEndToEndFraudPrecedence(t *testing.T) {
	o := newRealOrchestrator(t)

	// The denylisted number is Luhn-valid Visa, so the transaction check
	// passes and only the fraud engine objects.
	order := fullOrder()
	order.CreditCard.Number = "4111111111111111"

	resp, err := o.Decide(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDenied, resp.Status)
	assert.Equal(t, "Fraudulent card number.", resp.ErrorMessage)
}
