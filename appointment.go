package luckbook

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a client paid for an appointment
type PaymentMethod string

const (
	PaymentPix        PaymentMethod = "pix"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentCash       PaymentMethod = "cash"
)

// PaymentMethods lists every accepted payment method
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentPix, PaymentCreditCard, PaymentDebitCard, PaymentCash}
}

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPix, PaymentCreditCard, PaymentDebitCard, PaymentCash:
		return true
	}
	return false
}

// AppointmentStatus is the lifecycle position of an appointment
type AppointmentStatus string

const (
	StatusUpcoming AppointmentStatus = "upcoming"
	StatusPast     AppointmentStatus = "past"
)

// Valid reports whether s is a known status
func (s AppointmentStatus) Valid() bool {
	return s == StatusUpcoming || s == StatusPast
}

// AppointmentRecord is one booked service. Cost may exceed Value.
type AppointmentRecord struct {
	ID            string            `json:"id"`
	ClientName    string            `json:"client_name"`
	ClientPhone   string            `json:"client_phone,omitempty"`
	Procedure     string            `json:"procedure"`
	ScheduledAt   time.Time         `json:"scheduled_at"`
	Value         decimal.Decimal   `json:"value"`
	Cost          decimal.Decimal   `json:"cost"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	Notes         string            `json:"notes,omitempty"`
	Status        AppointmentStatus `json:"status"`
}

// Profit is Value minus Cost
func (a AppointmentRecord) Profit() decimal.Decimal {
	return a.Value.Sub(a.Cost)
}

// Validate checks required fields, amounts and enumerations
func (a AppointmentRecord) Validate() error {
	if strings.TrimSpace(a.ClientName) == "" {
		return ErrMissingRequiredField.WithDetails("client name is required")
	}
	if strings.TrimSpace(a.Procedure) == "" {
		return ErrMissingRequiredField.WithDetails("procedure is required")
	}
	if a.ScheduledAt.IsZero() {
		return ErrMissingRequiredField.WithDetails("scheduled time is required")
	}
	if a.Value.IsNegative() {
		return ErrNegativeAmount.WithDetailsf("value=%s", a.Value)
	}
	if a.Cost.IsNegative() {
		return ErrNegativeAmount.WithDetailsf("cost=%s", a.Cost)
	}
	if !a.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod.WithDetailsf("payment_method=%q", a.PaymentMethod)
	}
	if a.Status != "" && !a.Status.Valid() {
		return ErrInvalidStatus.WithDetailsf("status=%q", a.Status)
	}
	return nil
}

// matches reports whether query appears in the client name or procedure, case-insensitively
func (a AppointmentRecord) matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(a.ClientName), q) ||
		strings.Contains(strings.ToLower(a.Procedure), q)
}
