package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"
)

type stripeProcessor struct {
	webhookSecret string
	logger        zerolog.Logger
}

// NewStripeProcessor sets the Stripe API key and returns a PaymentProcessor
// backed by Stripe payment intents.
func NewStripeProcessor(secretKey, webhookSecret string, logger zerolog.Logger) PaymentProcessor {
	stripe.Key = secretKey
	return &stripeProcessor{
		webhookSecret: webhookSecret,
		logger:        logger.With().Str("service", "StripeProcessor").Logger(),
	}
}

func (p *stripeProcessor) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		p.logger.Error().Err(err).Int64("amount", amountCents).Msg("Failed to create Stripe payment intent")
		return nil, fmt.Errorf("create stripe payment intent: %w", err)
	}
	return fromStripeIntent(pi), nil
}

func (p *stripeProcessor) GetIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get stripe payment intent %s: %w", id, err)
	}
	return fromStripeIntent(pi), nil
}

func (p *stripeProcessor) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	p.logger.Debug().Str("event_type", string(event.Type)).RawJSON("payload", event.Data.Raw).Msg("Webhook payload received")

	evt := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Type == stripe.EventTypePaymentIntentSucceeded {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("invalid payment_intent payload: %w", err)
		}
		evt.Intent = fromStripeIntent(&pi)
	}
	return evt, nil
}

func fromStripeIntent(pi *stripe.PaymentIntent) *PaymentIntent {
	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
}
