package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/heartbridge/server/internal/httpx"
	"github.com/heartbridge/server/internal/payments"
)

// The contact-information fee is fixed: 5 USD.
const contactFeeCents = 500

type PaymentHandler struct {
	Intents payments.IntentCreator
	Log     zerolog.Logger
}

func NewPaymentHandler(intents payments.IntentCreator, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{Intents: intents, Log: log}
}

// CreateIntent handles POST /create-payment-intent (protected): delegates
// to the payment gateway and hands the client secret back.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	secret, err := h.Intents.CreateIntent(r.Context(), contactFeeCents, "usd")
	if err != nil {
		h.Log.Error().Err(err).Msg("payment intent creation failed")
		httpx.Error(w, http.StatusInternalServerError, "Failed to create payment intent", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"clientSecret": secret,
	})
}
