package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eswika/business/payments"
	"eswika/domain"

	"github.com/labstack/echo/v4"
)

type stubPaymentsService struct {
	processErr error
	receipt    payments.PaymentReceipt
	statusErr  error
	confirmErr error
}

func (s *stubPaymentsService) ProcessPayment(ctx context.Context, userID uint, req payments.PaymentRequest) (payments.PaymentReceipt, error) {
	if s.processErr != nil {
		return payments.PaymentReceipt{}, s.processErr
	}
	return s.receipt, nil
}

func (s *stubPaymentsService) GetPaymentStatus(ctx context.Context, userID, paymentID uint) (domain.Payments, error) {
	return domain.Payments{}, s.statusErr
}

func (s *stubPaymentsService) ConfirmDelivery(ctx context.Context, userID, paymentID uint) error {
	return s.confirmErr
}

func processRequest(t *testing.T, svc PaymentsService, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/process", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	c.Set("user_id", uint(1))

	h := NewPaymentsHandler(svc)
	if err := h.ProcessPayment(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	return rec
}

const validBody = `{"payment_method":"credit_card","card_number":"4111111111111111","expiry_month":"09","expiry_year":"2028","cvv":"123","delivery_address":"12 Market Street"}`

func TestProcessPaymentCreated(t *testing.T) {
	svc := &stubPaymentsService{receipt: payments.PaymentReceipt{
		PaymentID:     1,
		TransactionID: "CC-test",
		Amount:        8.5,
		Status:        domain.PaymentStatusCompleted,
	}}

	rec := processRequest(t, svc, validBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "CC-test") {
		t.Fatalf("expected receipt in body, got %s", rec.Body.String())
	}
}

func TestProcessPaymentErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid method", domain.ErrInvalidPaymentMethod, http.StatusBadRequest},
		{"missing fields", domain.ErrMissingPaymentFields, http.StatusBadRequest},
		{"empty cart", domain.ErrEmptyCart, http.StatusBadRequest},
		{"checkout failed", domain.ErrCheckoutFailed, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := processRequest(t, &stubPaymentsService{processErr: tc.err}, validBody)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestProcessPaymentMissingRequiredBody(t *testing.T) {
	rec := processRequest(t, &stubPaymentsService{}, `{"card_number":"4111111111111111"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing method/address, got %d", rec.Code)
	}
}

func TestConfirmDeliveryErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"wrong owner", domain.ErrNotAuthorized, http.StatusForbidden},
		{"wrong state", domain.ErrInvalidPaymentState, http.StatusBadRequest},
		{"missing payment", domain.ErrNotFound, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/1/confirm-delivery", nil)
			rec := httptest.NewRecorder()

			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues("1")
			c.Set("user_id", uint(1))

			h := NewPaymentsHandler(&stubPaymentsService{confirmErr: tc.err})
			if err := h.ConfirmDelivery(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
