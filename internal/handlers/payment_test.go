package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type stubIntents struct {
	secret string
	err    error
	amount int64
}

func (s *stubIntents) CreateIntent(_ context.Context, amountCents int64, _ string) (string, error) {
	s.amount = amountCents
	return s.secret, s.err
}

func TestCreatePaymentIntent(t *testing.T) {
	stub := &stubIntents{secret: "pi_secret_123"}
	h := NewPaymentHandler(stub, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", nil)
	w := httptest.NewRecorder()
	h.CreateIntent(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if stub.amount != 500 {
		t.Fatalf("expected the fixed 5 USD fee, got %d", stub.amount)
	}
	if body := w.Body.String(); !strings.Contains(body, "pi_secret_123") {
		t.Fatalf("client secret missing from response: %s", body)
	}
}

func TestCreatePaymentIntentGatewayFailure(t *testing.T) {
	stub := &stubIntents{err: errors.New("gateway down")}
	h := NewPaymentHandler(stub, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", nil)
	w := httptest.NewRecorder()
	h.CreateIntent(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
	if body := w.Body.String(); strings.Contains(body, "gateway down") {
		t.Fatalf("internal detail leaked: %s", body)
	}
}
