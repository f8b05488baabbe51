package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

// PaymentMethods accepted by the settlement stub.
var PaymentMethods = []string{"CARD", "UPI", "NET_BANKING", "WALLET", "COD"}

// ValidPaymentMethod reports whether m is an accepted method.
func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

// Payment is the settlement row, 1:1 with its booking. AdminCommission
// plus ProviderAmount always equals TotalAmount exactly; the provider
// share is derived by subtraction, never rounded independently.
type Payment struct {
	ID              int64           `json:"id"`
	BookingID       int64           `json:"bookingId"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	AdminCommission decimal.Decimal `json:"adminCommission"`
	ProviderAmount  decimal.Decimal `json:"providerAmount"`
	Status          PaymentStatus   `json:"paymentStatus"`
	Method          string          `json:"paymentMethod"`
	TransactionID   string          `json:"transactionId"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
