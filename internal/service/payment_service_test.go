package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"cyberacademy/internal/model"
	"cyberacademy/internal/repository/memory"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	mu      sync.Mutex
	intents map[string]*PaymentIntent
	created []int64
	event   *WebhookEvent
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{intents: map[string]*PaymentIntent{}}
}

func (p *fakeProcessor) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := fmt.Sprintf("pi_%d", len(p.intents)+1)
	pi := &PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       "requires_payment_method",
		Amount:       amountCents,
		Currency:     currency,
		Metadata:     metadata,
	}
	p.intents[id] = pi
	p.created = append(p.created, amountCents)
	return pi, nil
}

func (p *fakeProcessor) GetIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pi, ok := p.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment intent %s", id)
	}
	cp := *pi
	return &cp, nil
}

func (p *fakeProcessor) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	if signature != "valid" {
		return nil, ErrInvalidSignature
	}
	return p.event, nil
}

func (p *fakeProcessor) succeed(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intents[id].Status = "succeeded"
}

func (p *fakeProcessor) put(pi *PaymentIntent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intents[pi.ID] = pi
}

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(15000), ToCents(150.00))
	assert.Equal(t, int64(1999), ToCents(19.99))
	assert.Equal(t, int64(1), ToCents(0.005))
}

func TestCreatePaymentIntent(t *testing.T) {
	store := memory.New()
	proc := newFakeProcessor()
	svc := NewPaymentService(proc, newEnrollmentService(store, nil), "pk_test", nopLogger())

	out, err := svc.CreatePaymentIntent(context.Background(), 150.00, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, "pi_1", out.PaymentIntentID)
	assert.Equal(t, "pi_1_secret", out.ClientSecret)
	assert.Equal(t, []int64{15000}, proc.created)

	pi, err := proc.GetIntent(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, "usd", pi.Currency)
	assert.Equal(t, map[string]string{"courseId": "7", "userId": "3"}, pi.Metadata)
}

func TestCreatePaymentIntentRejectsBadAmount(t *testing.T) {
	svc := NewPaymentService(newFakeProcessor(), nil, "pk_test", nopLogger())

	for _, amount := range []float64{0, -10} {
		_, err := svc.CreatePaymentIntent(context.Background(), amount, 1, 1)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestConfirmPaymentSuccessIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := mustCreateUser(t, store, "payer", 0)
	course := mustCreateCourse(t, store, "Penetration Testing", 175, 14000)
	proc := newFakeProcessor()
	svc := NewPaymentService(proc, newEnrollmentService(store, nil), "pk_test", nopLogger())

	created, err := svc.CreatePaymentIntent(ctx, 175, course.ID, user.ID)
	require.NoError(t, err)
	proc.succeed(created.PaymentIntentID)

	first, err := svc.ConfirmPaymentSuccess(ctx, created.PaymentIntentID)
	require.NoError(t, err)
	assert.True(t, first.Success)
	require.NotNil(t, first.Enrollment)
	assert.Equal(t, created.PaymentIntentID, *first.Enrollment.PaymentIntentID)
	assert.Equal(t, int64(17500), *first.Enrollment.AmountPaidCents)

	second, err := svc.ConfirmPaymentSuccess(ctx, created.PaymentIntentID)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, first.Enrollment.ID, second.Enrollment.ID)
	assert.Equal(t, 1, store.EnrollmentCount())
}

func TestConcurrentConfirmCreatesOneEnrollment(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := mustCreateUser(t, store, "payer", 0)
	course := mustCreateCourse(t, store, "Digital Forensics", 190, 15000)
	proc := newFakeProcessor()
	svc := NewPaymentService(proc, newEnrollmentService(store, nil), "pk_test", nopLogger())

	created, err := svc.CreatePaymentIntent(ctx, 190, course.ID, user.ID)
	require.NoError(t, err)
	proc.succeed(created.PaymentIntentID)

	const workers = 12
	results := make([]*PaymentConfirmation, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.ConfirmPaymentSuccess(ctx, created.PaymentIntentID)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.True(t, results[i].Success)
		assert.Equal(t, results[0].Enrollment.ID, results[i].Enrollment.ID)
	}
	assert.Equal(t, 1, store.EnrollmentCount())
}

func TestConfirmPaymentOnCancelledEnrollmentWarns(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := mustCreateUser(t, store, "payer", 0)
	course := mustCreateCourse(t, store, "Network Security", 150, 12000)
	enrollments := newEnrollmentService(store, nil)
	old, err := enrollments.EnrollPaid(ctx, user.ID, course.ID, "pi_old", 15000)
	require.NoError(t, err)
	_, err = enrollments.UpdateStatus(ctx, old.ID, "cancelled")
	require.NoError(t, err)

	var logs bytes.Buffer
	proc := newFakeProcessor()
	svc := NewPaymentService(proc, enrollments, "pk_test", zerolog.New(&logs))
	created, err := svc.CreatePaymentIntent(ctx, 150, course.ID, user.ID)
	require.NoError(t, err)
	proc.succeed(created.PaymentIntentID)

	out, err := svc.ConfirmPaymentSuccess(ctx, created.PaymentIntentID)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, old.ID, out.Enrollment.ID)
	assert.Equal(t, model.EnrollmentCancelled, out.Enrollment.Status)
	assert.Equal(t, 1, store.EnrollmentCount())

	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), `"enrollment_status":"cancelled"`)
	assert.Contains(t, logs.String(), created.PaymentIntentID)
	assert.Contains(t, logs.String(), `"enrollment_payment_intent_id":"pi_old"`)
}

func TestConfirmPaymentNotSucceeded(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	proc := newFakeProcessor()
	svc := NewPaymentService(proc, newEnrollmentService(store, nil), "pk_test", nopLogger())

	created, err := svc.CreatePaymentIntent(ctx, 100, 1, 1)
	require.NoError(t, err)

	_, err = svc.ConfirmPaymentSuccess(ctx, created.PaymentIntentID)
	assert.ErrorIs(t, err, ErrPaymentNotSucceeded)
	assert.Zero(t, store.EnrollmentCount())
}

func TestConfirmPaymentMissingMetadata(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := mustCreateUser(t, store, "payer", 0)
	proc := newFakeProcessor()
	svc := NewPaymentService(proc, newEnrollmentService(store, nil), "pk_test", nopLogger())

	tests := map[string]map[string]string{
		"no metadata":        nil,
		"no course":          {"userId": strconv.FormatInt(user.ID, 10)},
		"non numeric course": {"courseId": "abc", "userId": strconv.FormatInt(user.ID, 10)},
	}
	for name, md := range tests {
		t.Run(name, func(t *testing.T) {
			id := "pi_" + name
			proc.put(&PaymentIntent{ID: id, Status: "succeeded", Amount: 100, Metadata: md})
			_, err := svc.ConfirmPaymentSuccess(ctx, id)
			assert.ErrorIs(t, err, ErrMissingMetadata)
		})
	}
	assert.Zero(t, store.EnrollmentCount())
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := mustCreateUser(t, store, "payer", 0)
	course := mustCreateCourse(t, store, "Digital Forensics", 190, 15000)
	proc := newFakeProcessor()
	svc := NewPaymentService(proc, newEnrollmentService(store, nil), "pk_test", nopLogger())

	err := svc.HandleWebhook(ctx, []byte("{}"), "forged")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	proc.event = &WebhookEvent{ID: "evt_1", Type: "charge.refunded"}
	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "valid"))
	assert.Zero(t, store.EnrollmentCount())

	proc.event = &WebhookEvent{ID: "evt_2", Type: "payment_intent.succeeded", Intent: &PaymentIntent{
		ID:     "pi_hook",
		Status: "succeeded",
		Amount: 19000,
		Metadata: map[string]string{
			"courseId": strconv.FormatInt(course.ID, 10),
			"userId":   strconv.FormatInt(user.ID, 10),
		},
	}}
	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "valid"))
	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "valid"))
	assert.Equal(t, 1, store.EnrollmentCount())
}

func TestPublishableKey(t *testing.T) {
	svc := NewPaymentService(newFakeProcessor(), nil, "pk_live_abc", nopLogger())
	assert.Equal(t, "pk_live_abc", svc.PublishableKey())
}
