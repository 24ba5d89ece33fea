package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"cyberacademy/internal/model"

	"github.com/rs/zerolog"
)

const (
	paymentCurrency        = "usd"
	paymentStatusSucceeded = "succeeded"
	metadataCourseID       = "courseId"
	metadataUserID         = "userId"
	webhookIntentSucceeded = "payment_intent.succeeded"
)

// PaymentIntent is the processor's view of a charge.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	Metadata     map[string]string
}

// WebhookEvent is a verified processor event. Intent is set for payment
// intent events.
type WebhookEvent struct {
	ID     string
	Type   string
	Intent *PaymentIntent
}

// PaymentProcessor is the external payment provider.
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (*PaymentIntent, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

type CreatedIntent struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type PaymentConfirmation struct {
	Success    bool              `json:"success"`
	Enrollment *model.Enrollment `json:"enrollment,omitempty"`
}

type PaymentService interface {
	// CreatePaymentIntent starts a charge of amountUSD whole dollars for the
	// course. The course and user ids travel as intent metadata.
	CreatePaymentIntent(ctx context.Context, amountUSD float64, courseID, userID int64) (*CreatedIntent, error)
	// ConfirmPaymentSuccess enrolls the payer of a succeeded intent. Calling
	// it again for the same intent returns the existing enrollment.
	ConfirmPaymentSuccess(ctx context.Context, paymentIntentID string) (*PaymentConfirmation, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	PublishableKey() string
}

type paymentService struct {
	processor      PaymentProcessor
	enrollments    EnrollmentService
	publishableKey string
	logger         zerolog.Logger
}

func NewPaymentService(processor PaymentProcessor, enrollments EnrollmentService, publishableKey string, logger zerolog.Logger) PaymentService {
	return &paymentService{
		processor:      processor,
		enrollments:    enrollments,
		publishableKey: publishableKey,
		logger:         logger.With().Str("service", "PaymentService").Logger(),
	}
}

// ToCents converts a whole-unit amount to minor units.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (s *paymentService) CreatePaymentIntent(ctx context.Context, amountUSD float64, courseID, userID int64) (*CreatedIntent, error) {
	if math.IsNaN(amountUSD) || math.IsInf(amountUSD, 0) || amountUSD <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if courseID <= 0 || userID <= 0 {
		return nil, fmt.Errorf("%w: courseId and userId are required", ErrValidation)
	}
	cents := ToCents(amountUSD)
	pi, err := s.processor.CreateIntent(ctx, cents, paymentCurrency, map[string]string{
		metadataCourseID: strconv.FormatInt(courseID, 10),
		metadataUserID:   strconv.FormatInt(userID, 10),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("payment_intent_id", pi.ID).Int64("amount_cents", cents).Int64("course_id", courseID).Int64("user_id", userID).Msg("Payment intent created")
	return &CreatedIntent{ClientSecret: pi.ClientSecret, PaymentIntentID: pi.ID}, nil
}

func (s *paymentService) ConfirmPaymentSuccess(ctx context.Context, paymentIntentID string) (*PaymentConfirmation, error) {
	if paymentIntentID == "" {
		return nil, fmt.Errorf("%w: paymentIntentId is required", ErrValidation)
	}
	pi, err := s.processor.GetIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, pi)
}

func (s *paymentService) reconcile(ctx context.Context, pi *PaymentIntent) (*PaymentConfirmation, error) {
	if pi.Status != paymentStatusSucceeded {
		return nil, fmt.Errorf("%w: intent %s is %s", ErrPaymentNotSucceeded, pi.ID, pi.Status)
	}
	courseID, err := metadataID(pi.Metadata, metadataCourseID)
	if err != nil {
		return nil, err
	}
	userID, err := metadataID(pi.Metadata, metadataUserID)
	if err != nil {
		return nil, err
	}

	e, err := s.enrollments.EnrollPaid(ctx, userID, courseID, pi.ID, pi.Amount)
	if errors.Is(err, ErrDuplicateEnrollment) {
		existing, getErr := s.enrollments.Get(ctx, userID, courseID)
		if getErr != nil {
			return nil, getErr
		}
		if existing.PaymentIntentID == nil || *existing.PaymentIntentID != pi.ID {
			// The payment did not create this row; it was free, cancelled or paid by another intent.
			evt := s.logger.Warn().
				Str("payment_intent_id", pi.ID).
				Int64("amount_cents", pi.Amount).
				Int64("enrollment_id", existing.ID).
				Str("enrollment_status", string(existing.Status))
			if existing.PaymentIntentID != nil {
				evt = evt.Str("enrollment_payment_intent_id", *existing.PaymentIntentID)
			}
			evt.Msg("Payment not applied: user already has an enrollment in this course")
		} else {
			s.logger.Info().Str("payment_intent_id", pi.ID).Int64("enrollment_id", existing.ID).Msg("Payment already reconciled")
		}
		return &PaymentConfirmation{Success: true, Enrollment: existing}, nil
	}
	if err != nil {
		return nil, err
	}
	return &PaymentConfirmation{Success: true, Enrollment: e}, nil
}

func metadataID(md map[string]string, key string) (int64, error) {
	raw, ok := md[key]
	if !ok || raw == "" {
		return 0, fmt.Errorf("%w: %s missing", ErrMissingMetadata, key)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrMissingMetadata, key, raw)
	}
	return id, nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	evt, err := s.processor.ParseWebhook(payload, signature)
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		return err
	}
	s.logger.Info().Str("event_id", evt.ID).Str("event_type", evt.Type).Msg("Stripe webhook received")

	if evt.Type != webhookIntentSucceeded || evt.Intent == nil {
		return nil
	}
	if _, err := s.reconcile(ctx, evt.Intent); err != nil {
		s.logger.Error().Err(err).Str("payment_intent_id", evt.Intent.ID).Msg("Failed to reconcile payment from webhook")
		return err
	}
	return nil
}

func (s *paymentService) PublishableKey() string {
	return s.publishableKey
}
