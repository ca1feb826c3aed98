package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yewhenp/checkout-orchestrator/internal/models"
)

type stubDecider struct {
	response *models.OrderResponse
	err      error
	order    *models.Order
}

func (s *stubDecider) Decide(ctx context.Context, order *models.Order) (*models.OrderResponse, error) {
	s.order = order
	return s.response, s.err
}

const checkoutBody = `{
	"user": {"name": "Jane Doe", "contact": "jane@example.com"},
	"creditCard": {"number": "4532015112830366", "expirationDate": "12/26", "cvv": "123"},
	"userComment": "",
	"items": [{"name": "book", "quantity": 1}],
	"billingAddress": {"street": "Main St 1", "city": "Tartu", "state": "Tartumaa", "zip": "51009", "country": "Estonia"},
	"shippingMethod": "standard",
	"giftWrapping": false,
	"termsAccepted": true
}`

func newCheckoutRouter(decider Decider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewCheckoutHandler(decider, zap.NewNop())
	r.POST("/checkout", handler.Checkout)
	return r
}

func TestCheckoutApproved(t *testing.T) {
	decider := &stubDecider{response: &models.OrderResponse{
		OrderID:        "order-1",
		Status:         models.StatusApproved,
		SuggestedBooks: models.SuggestedBooks(),
	}}
	router := newCheckoutRouter(decider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(checkoutBody))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusApproved, resp.Status)
	assert.Empty(t, resp.ErrorMessage)
	assert.Len(t, resp.SuggestedBooks, 2)

	require.NotNil(t, decider.order)
	assert.Equal(t, "Jane Doe", decider.order.User.Name)
}

func TestCheckoutDenied(t *testing.T) {
	decider := &stubDecider{response: &models.OrderResponse{
		OrderID:      "order-2",
		Status:       models.StatusDenied,
		ErrorMessage: "Fraudulent card number.",
	}}
	router := newCheckoutRouter(decider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(checkoutBody))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusDenied, resp.Status)
	assert.Equal(t, "Fraudulent card number.", resp.ErrorMessage)
}

func TestCheckoutBadRequest(t *testing.T) {
	decider := &stubDecider{}
	router := newCheckoutRouter(decider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"user":`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, decider.order, "a rejected submission must never reach the coordinator")
}

func TestCheckoutCoordinatorFailure(t *testing.T) {
	decider := &stubDecider{err: errors.New("verifier unreachable")}
	router := newCheckoutRouter(decider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(checkoutBody))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), models.StatusApproved)
}
