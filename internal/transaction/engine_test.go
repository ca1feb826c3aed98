package transaction

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yewhenp/checkout-orchestrator/internal/models"
)

type stubResolver struct {
	resolve bool
	panics  bool
	calls   int
}

func (r *stubResolver) Resolve(ctx context.Context, addr models.BillingAddress) bool {
	r.calls++
	if r.panics {
		panic("geocoder blew up")
	}
	return r.resolve
}

func validOrder() *models.Order {
	return &models.Order{
		User: models.User{Name: "Jane Doe", Contact: "jane@example.com"},
		CreditCard: models.CreditCard{
			Number:         "4532015112830366",
			ExpirationDate: "12/26",
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

func newTestEngine(resolver AddressResolver) *Engine {
	e := NewEngine(resolver, zap.NewNop())
	e.now = func() time.Time {
		return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	}
	return e
}

func TestVerifyTransactionValid(t *testing.T) {
	e := newTestEngine(&stubResolver{resolve: true})

	verdict := e.VerifyTransaction(context.Background(), validOrder())
	assert.True(t, verdict.Valid)
	assert.Empty(t, verdict.Reason)
}

func TestVerifyTransactionShortCircuits(t *testing.T) {
	cases := []struct {
		name       string
		mutate     func(o *models.Order)
		reasonPart string
	}{
		{
			name:       "bad card number",
			mutate:     func(o *models.Order) { o.CreditCard.Number = "4532015112830367" },
			reasonPart: "Luhn's Algorithm failed",
		},
		{
			name:       "unsupported vendor",
			mutate:     func(o *models.Order) { o.CreditCard.Number = "6011111111111117" },
			reasonPart: "Unrecognised credit card vendor",
		},
		{
			name:       "expired card",
			mutate:     func(o *models.Order) { o.CreditCard.ExpirationDate = "5/25" },
			reasonPart: "Credit card expired",
		},
		{
			name:       "bad cvv",
			mutate:     func(o *models.Order) { o.CreditCard.CVV = "12a" },
			reasonPart: "Invalid CVV",
		},
		{
			name:       "empty order list",
			mutate:     func(o *models.Order) { o.Items = nil },
			reasonPart: "Invalid order list",
		},
		{
			name:       "excessive quantity",
			mutate:     func(o *models.Order) { o.Items = []models.OrderItem{{Name: "book", Quantity: 101}} },
			reasonPart: "Invalid order list",
		},
		{
			name:       "nameless item",
			mutate:     func(o *models.Order) { o.Items = []models.OrderItem{{Name: "", Quantity: 1}} },
			reasonPart: "Invalid order list",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := validOrder()
			tc.mutate(order)
			e := newTestEngine(&stubResolver{resolve: true})

			verdict := e.VerifyTransaction(context.Background(), order)
			assert.False(t, verdict.Valid)
			assert.True(t, strings.Contains(verdict.Reason, tc.reasonPart),
				"reason %q should contain %q", verdict.Reason, tc.reasonPart)
		})
	}
}

func TestVerifyTransactionBadItemsReasonCarriesItems(t *testing.T) {
	e := newTestEngine(&stubResolver{resolve: true})

	order := validOrder()
	order.Items = []models.OrderItem{{Name: "book", Quantity: 101}}
	verdict := e.VerifyTransaction(context.Background(), order)

	assert.False(t, verdict.Valid)
	assert.Contains(t, verdict.Reason, "Invalid order list")
	assert.Contains(t, verdict.Reason, "book", "the offending items are echoed in the reason")
	assert.Contains(t, verdict.Reason, "101")
}

func TestVerifyTransactionCardFailureSkipsResolver(t *testing.T) {
	resolver := &stubResolver{resolve: true}
	e := newTestEngine(resolver)

	order := validOrder()
	order.CreditCard.CVV = "12"
	verdict := e.VerifyTransaction(context.Background(), order)

	assert.False(t, verdict.Valid)
	assert.Equal(t, 0, resolver.calls, "address resolution must not run after an earlier failure")
}

func TestVerifyTransactionUnresolvableAddress(t *testing.T) {
	e := newTestEngine(&stubResolver{resolve: false})

	verdict := e.VerifyTransaction(context.Background(), validOrder())
	assert.False(t, verdict.Valid)
	assert.Contains(t, verdict.Reason, "Invalid address")
}

func TestVerifyTransactionRecoversFromPanic(t *testing.T) {
	e := newTestEngine(&stubResolver{panics: true})

	verdict := e.VerifyTransaction(context.Background(), validOrder())
	assert.False(t, verdict.Valid)
	assert.Equal(t, internalFailureReason, verdict.Reason)
}

func TestValidateItems(t *testing.T) {
	cases := []struct {
		name  string
		items []models.OrderItem
		want  bool
	}{
		{"single item", []models.OrderItem{{Name: "book", Quantity: 1}}, true},
		{"quantity zero", []models.OrderItem{{Name: "book", Quantity: 0}}, true},
		{"quantity at limit", []models.OrderItem{{Name: "book", Quantity: 100}}, true},
		{"empty list", nil, false},
		{"negative quantity", []models.OrderItem{{Name: "book", Quantity: -1}}, false},
		{"over limit", []models.OrderItem{{Name: "book", Quantity: 101}}, false},
		{"empty name", []models.OrderItem{{Name: "", Quantity: 1}}, false},
		{"one bad item poisons all", []models.OrderItem{{Name: "book", Quantity: 1}, {Name: "", Quantity: 1}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, validateItems(tc.items))
		})
	}
}
