package models

import (
	"encoding/json"
	"fmt"
	"io"
)

// DecodeError reports which part of the checkout submission failed the
// decode-and-validate step.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid checkout request: %s: %s", e.Field, e.Reason)
}

// DecodeOrder decodes a checkout submission into a typed Order and checks
// structural presence of the required fields. No field reaches a validator
// before passing here; semantic checks (Luhn, expiration, address, ...)
// belong to the verification engines.
func DecodeOrder(r io.Reader) (*Order, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var order Order
	if err := dec.Decode(&order); err != nil {
		return nil, &DecodeError{Field: "body", Reason: err.Error()}
	}

	if order.User.Name == "" {
		return nil, &DecodeError{Field: "user.name", Reason: "must not be empty"}
	}
	if order.CreditCard.Number == "" {
		return nil, &DecodeError{Field: "creditCard.number", Reason: "must not be empty"}
	}
	if order.CreditCard.ExpirationDate == "" {
		return nil, &DecodeError{Field: "creditCard.expirationDate", Reason: "must not be empty"}
	}
	if order.CreditCard.CVV == "" {
		return nil, &DecodeError{Field: "creditCard.cvv", Reason: "must not be empty"}
	}
	if order.Items == nil {
		return nil, &DecodeError{Field: "items", Reason: "must be present"}
	}

	return &order, nil
}
