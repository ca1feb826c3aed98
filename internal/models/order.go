package models

import "time"

// Order statuses returned to the storefront.
const (
	StatusApproved = "Order Approved"
	StatusDenied   = "Order Denied"
)

// User identifies the buyer submitting the checkout.
type User struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// CreditCard is the payment instrument as submitted by the storefront.
// ExpirationDate is free-form "MM/YY" or "MM/YYYY"; normalization happens
// inside the card validators, not here.
type CreditCard struct {
	Number         string `json:"number"`
	ExpirationDate string `json:"expirationDate"`
	CVV            string `json:"cvv"`
}

// OrderItem is a single ordered line item.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// BillingAddress is the address the transaction engine resolves against
// the geocoding service.
type BillingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Order is one checkout request. It is constructed once by DecodeOrder,
// never mutated afterwards, and passed by read-only reference to both
// verification engines.
type Order struct {
	User           User           `json:"user"`
	CreditCard     CreditCard     `json:"creditCard"`
	UserComment    string         `json:"userComment"`
	Items          []OrderItem    `json:"items"`
	BillingAddress BillingAddress `json:"billingAddress"`
	ShippingMethod string         `json:"shippingMethod"`
	GiftWrapping   bool           `json:"giftWrapping"`
	TermsAccepted  bool           `json:"termsAccepted"`
}

// TransactionVerdict is the outcome of the transaction verification engine.
// Reason is set exactly when Valid is false.
type TransactionVerdict struct {
	Valid  bool   `json:"transaction_valid"`
	Reason string `json:"error_message,omitempty"`
}

// FraudVerdict is the outcome of the fraud detection engine.
// Reason is set exactly when IsFraud is true.
type FraudVerdict struct {
	IsFraud bool   `json:"is_fraud"`
	Reason  string `json:"error_message,omitempty"`
}

// Book is one entry of the static recommendation payload.
type Book struct {
	BookID string `json:"bookId"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// OrderResponse is the final checkout decision. Created once after both
// verdicts resolve, never mutated afterwards.
type OrderResponse struct {
	OrderID        string `json:"orderId"`
	Status         string `json:"status"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
	SuggestedBooks []Book `json:"suggestedBooks"`
}

// SuggestedBooks returns the static recommendation payload attached to
// every response. Recommendations are not part of the verification flow.
func SuggestedBooks() []Book {
	return []Book{
		{BookID: "123", Title: "The Best Book", Author: "Author 1"},
		{BookID: "456", Title: "The Second Best Book", Author: "Author 2"},
	}
}

// DecisionRecord is the audit row persisted for every completed decision.
type DecisionRecord struct {
	OrderID      string    `json:"order_id"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Evaluator    string    `json:"evaluator"`
	CreatedAt    time.Time `json:"created_at"`
}

// DecisionEvent is published to Kafka after every completed decision.
type DecisionEvent struct {
	OrderID      string    `json:"order_id"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Evaluator    string    `json:"evaluator"`
	DecidedAt    time.Time `json:"decided_at"`
}
