package payments

import (
	"fmt"

	"eswika/domain"

	"github.com/google/uuid"
)

// PaymentRequest carries the method tag plus the method-specific fields
// supplied by the client. Fields irrelevant to the chosen method are
// ignored.
type PaymentRequest struct {
	Method          string
	CardNumber      string
	ExpiryMonth     string
	ExpiryYear      string
	CVV             string
	PaypalToken     string
	DeliveryAddress string
}

type paymentResult struct {
	TransactionID string
	Status        string
}

// processor is the closed dispatch over the fixed payment method set.
// Each implementation validates its own required fields and mocks the
// provider call.
type processor interface {
	process(req PaymentRequest) (paymentResult, error)
}

var processors = map[string]processor{
	domain.PaymentMethodCreditCard:     creditCardProcessor{},
	domain.PaymentMethodPaypal:         paypalProcessor{},
	domain.PaymentMethodCashOnDelivery: cashOnDeliveryProcessor{},
}

type creditCardProcessor struct{}

func (creditCardProcessor) process(req PaymentRequest) (paymentResult, error) {
	if req.CardNumber == "" || req.ExpiryMonth == "" || req.ExpiryYear == "" || req.CVV == "" {
		return paymentResult{}, domain.ErrMissingPaymentFields
	}

	return paymentResult{
		TransactionID: fmt.Sprintf("CC-%s", uuid.NewString()),
		Status:        domain.PaymentStatusCompleted,
	}, nil
}

type paypalProcessor struct{}

func (paypalProcessor) process(req PaymentRequest) (paymentResult, error) {
	if req.PaypalToken == "" {
		return paymentResult{}, domain.ErrMissingPaymentFields
	}

	return paymentResult{
		TransactionID: fmt.Sprintf("PP-%s", uuid.NewString()),
		Status:        domain.PaymentStatusCompleted,
	}, nil
}

type cashOnDeliveryProcessor struct{}

func (cashOnDeliveryProcessor) process(req PaymentRequest) (paymentResult, error) {
	if req.DeliveryAddress == "" {
		return paymentResult{}, domain.ErrMissingPaymentFields
	}

	return paymentResult{
		TransactionID: fmt.Sprintf("COD-%s", uuid.NewString()),
		Status:        domain.PaymentStatusAwaitingDelivery,
	}, nil
}
