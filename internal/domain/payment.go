package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

type Payment struct {
	ID          string
	BookingID   string
	AmountCents int64
	Method      PaymentMethod
	Status      PaymentStatus
	Reference   string
	PaidAt      time.Time
}

// PaymentDetails carries the method specific input. Only the fields relevant
// to the chosen method are read.
type PaymentDetails struct {
	CardNumber    string `json:"card_number,omitempty"`
	CardHolder    string `json:"card_holder,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
}

// Reference validates details for the method and returns the masked value
// stored with the payment. Full card and account numbers are never kept.
func (m PaymentMethod) Reference(d PaymentDetails) (string, error) {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard:
		number := stripSpaces(d.CardNumber)
		if len(number) < 12 || len(number) > 19 || !allDigits(number) {
			return "", fmt.Errorf("%w: card number must be 12 to 19 digits", ErrValidation)
		}
		return maskTail(number), nil
	case PaymentMethodBankTransfer:
		account := stripSpaces(d.AccountNumber)
		if len(account) < 4 || !allDigits(account) {
			return "", fmt.Errorf("%w: bank account number is required", ErrValidation)
		}
		return maskTail(account), nil
	case PaymentMethodCash:
		return "", nil
	}
	return "", fmt.Errorf("%w: unsupported payment method %q", ErrValidation, string(m))
}

func maskTail(s string) string {
	return "****" + s[len(s)-4:]
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// PaymentSummary is the payment view of a booking.
type PaymentSummary struct {
	BookingID       string
	BookingStatus   BookingStatus
	TotalPriceCents int64
	Payment         *Payment
	IsPaid          bool
}
