package domain

import "time"

const (
	PaymentMethodCreditCard     = "credit_card"
	PaymentMethodPaypal         = "paypal"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
)

const (
	PaymentStatusPending          = "pending"
	PaymentStatusCompleted        = "completed"
	PaymentStatusFailed           = "failed"
	PaymentStatusAwaitingDelivery = "awaiting_delivery"
)

var validPaymentMethods = map[string]bool{
	PaymentMethodCreditCard:     true,
	PaymentMethodPaypal:         true,
	PaymentMethodCashOnDelivery: true,
}

// ParsePaymentMethod validates a method tag against the closed method set.
func ParsePaymentMethod(tag string) (string, error) {
	if !validPaymentMethods[tag] {
		return "", ErrInvalidPaymentMethod
	}
	return tag, nil
}

type Payments struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	Amount        float64   `gorm:"column:amount;not null" json:"amount"`
	PaymentMethod string    `gorm:"column:payment_method;not null" json:"payment_method"`
	PaymentStatus string    `gorm:"column:payment_status;default:pending" json:"payment_status"`
	TransactionID *string   `gorm:"column:transaction_id;unique" json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Payments) TableName() string {
	return "payments"
}
