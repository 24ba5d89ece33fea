package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"cyberacademy/internal/api/v1/dto"
	"cyberacademy/internal/api/v1/operation"
	"cyberacademy/internal/service"

	"github.com/rs/zerolog"
)

// maxWebhookBodyBytes caps the payload read from Stripe.
const maxWebhookBodyBytes = 65536

type PaymentHandler struct {
	payments service.PaymentService
	logger   zerolog.Logger
}

func NewPaymentHandler(payments service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

func (h *PaymentHandler) CreatePaymentIntent(ctx context.Context, input *operation.CreatePaymentIntentInput) (*operation.CreatePaymentIntentOutput, error) {
	created, err := h.payments.CreatePaymentIntent(ctx, input.Body.Amount, input.Body.CourseID, input.Body.UserID)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to create payment intent")
	}
	return &operation.CreatePaymentIntentOutput{
		Body: dto.CreatePaymentIntentResponseDTO{
			ClientSecret:    created.ClientSecret,
			PaymentIntentID: created.PaymentIntentID,
		},
	}, nil
}

// PaymentSuccess enrolls the payer once the intent has succeeded. Repeating
// the call for the same intent returns the same enrollment.
func (h *PaymentHandler) PaymentSuccess(ctx context.Context, input *operation.PaymentSuccessInput) (*operation.PaymentSuccessOutput, error) {
	confirmation, err := h.payments.ConfirmPaymentSuccess(ctx, input.Body.PaymentIntentID)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to confirm payment")
	}
	return &operation.PaymentSuccessOutput{
		Body: dto.PaymentSuccessResponseDTO{
			Success:    confirmation.Success,
			Enrollment: confirmation.Enrollment,
		},
	}, nil
}

func (h *PaymentHandler) PaymentConfig(ctx context.Context, input *operation.PaymentConfigInput) (*operation.PaymentConfigOutput, error) {
	return &operation.PaymentConfigOutput{
		Body: dto.PaymentConfigResponseDTO{PublishableKey: h.payments.PublishableKey()},
	}, nil
}

// StripeWebhook is mounted as a raw handler: signature verification needs the
// exact request bytes.
func (h *PaymentHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusRequestEntityTooLarge)
		return
	}

	err = h.payments.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidSignature):
		http.Error(w, "Invalid signature", http.StatusBadRequest)
		return
	case errors.Is(err, service.ErrMissingMetadata), errors.Is(err, service.ErrPaymentNotSucceeded):
		// Redelivery cannot fix these; acknowledge so Stripe stops retrying.
		h.logger.Warn().Err(err).Msg("Ignoring unreconcilable Stripe event")
	default:
		http.Error(w, "Failed to process webhook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]bool{"received": true}); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}
