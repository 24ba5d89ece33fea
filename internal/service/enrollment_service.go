package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cyberacademy/internal/model"
	"cyberacademy/internal/pubsub"
	"cyberacademy/internal/repository"

	"github.com/rs/zerolog"
)

// EnrollmentCreatedEvent is published after a new enrollment is stored.
type EnrollmentCreatedEvent struct {
	Type            string    `json:"type"`
	EnrollmentID    int64     `json:"enrollment_id"`
	UserID          int64     `json:"user_id"`
	CourseID        int64     `json:"course_id"`
	PaymentIntentID string    `json:"payment_intent_id,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

const eventEnrollmentCreated = "enrollment.created"

type EnrollmentService interface {
	// Enroll enrolls the user in a free course. Paid courses return
	// ErrPaymentRequired and are enrolled through EnrollPaid.
	Enroll(ctx context.Context, userID, courseID int64) (*model.Enrollment, error)
	// EnrollPaid enrolls the user and records the payment that paid for it.
	EnrollPaid(ctx context.Context, userID, courseID int64, paymentIntentID string, amountCents int64) (*model.Enrollment, error)
	IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error)
	// Get returns the user's enrollment in the course, or ErrNotFound.
	Get(ctx context.Context, userID, courseID int64) (*model.Enrollment, error)
	ListForUser(ctx context.Context, userID int64) ([]model.Enrollment, error)
	UpdateProgress(ctx context.Context, enrollmentID int64, progress int) (*model.Enrollment, error)
	UpdateStatus(ctx context.Context, enrollmentID int64, status string) (*model.Enrollment, error)
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	courseRepo     repository.CourseRepository
	userRepo       repository.UserRepository
	publisher      pubsub.Publisher
	topic          string
	now            func() time.Time
	logger         zerolog.Logger
}

// NewEnrollmentService creates an EnrollmentService. publisher may be nil, in
// which case no events are published.
func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	publisher pubsub.Publisher,
	topic string,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		publisher:      publisher,
		topic:          topic,
		now:            time.Now,
		logger:         logger.With().Str("service", "EnrollmentService").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID int64) (*model.Enrollment, error) {
	return s.create(ctx, &model.Enrollment{UserID: userID, CourseID: courseID})
}

// requirePayment rejects enrollments without a payment reference in paid courses.
func requirePayment(course *model.Course, e *model.Enrollment) error {
	if course.IsFree() || e.PaymentIntentID != nil {
		return nil
	}
	return fmt.Errorf("course %d costs %d USD: %w", course.ID, course.PriceUSD, ErrPaymentRequired)
}

func (s *enrollmentService) EnrollPaid(ctx context.Context, userID, courseID int64, paymentIntentID string, amountCents int64) (*model.Enrollment, error) {
	return s.create(ctx, &model.Enrollment{
		UserID:          userID,
		CourseID:        courseID,
		PaymentIntentID: &paymentIntentID,
		AmountPaidCents: &amountCents,
	})
}

// create inserts the enrollment. The unique (user_id, course_id) constraint
// is the only duplicate check.
func (s *enrollmentService) create(ctx context.Context, e *model.Enrollment) (*model.Enrollment, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, e.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course %d: %w", e.CourseID, err)
	}
	if course == nil {
		return nil, fmt.Errorf("course %d: %w", e.CourseID, ErrNotFound)
	}
	user, err := s.userRepo.GetUserByID(ctx, e.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", e.UserID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", e.UserID, ErrNotFound)
	}
	if err := requirePayment(course, e); err != nil {
		return nil, err
	}

	e.Status = model.EnrollmentActive
	e.Progress = 0
	if err := s.enrollmentRepo.CreateEnrollment(ctx, e); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateEnrollment
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	s.logger.Info().Int64("enrollment_id", e.ID).Int64("user_id", e.UserID).Int64("course_id", e.CourseID).Msg("User enrolled")
	s.publishCreated(ctx, e)
	return e, nil
}

func (s *enrollmentService) publishCreated(ctx context.Context, e *model.Enrollment) {
	if s.publisher == nil {
		return
	}
	evt := EnrollmentCreatedEvent{
		Type:         eventEnrollmentCreated,
		EnrollmentID: e.ID,
		UserID:       e.UserID,
		CourseID:     e.CourseID,
		OccurredAt:   e.EnrolledAt,
	}
	if e.PaymentIntentID != nil {
		evt.PaymentIntentID = *e.PaymentIntentID
	}
	data, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error().Err(err).Int64("enrollment_id", e.ID).Msg("Failed to marshal enrollment event")
		return
	}
	if _, err := s.publisher.Publish(ctx, s.topic, data); err != nil {
		s.logger.Error().Err(err).Str("topic", s.topic).Msg("Failed to publish enrollment event")
	}
}

func (s *enrollmentService) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	e, err := s.enrollmentRepo.GetEnrollment(ctx, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("get enrollment: %w", err)
	}
	return e != nil, nil
}

func (s *enrollmentService) Get(ctx context.Context, userID, courseID int64) (*model.Enrollment, error) {
	e, err := s.enrollmentRepo.GetEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if e == nil {
		return nil, fmt.Errorf("enrollment of user %d in course %d: %w", userID, courseID, ErrNotFound)
	}
	return e, nil
}

func (s *enrollmentService) ListForUser(ctx context.Context, userID int64) ([]model.Enrollment, error) {
	es, err := s.enrollmentRepo.ListEnrollmentsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return es, nil
}

func (s *enrollmentService) UpdateProgress(ctx context.Context, enrollmentID int64, progress int) (*model.Enrollment, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("%w: progress must be between 0 and 100", ErrValidation)
	}
	e, err := s.byID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if e.Status != model.EnrollmentActive {
		return nil, fmt.Errorf("%w: enrollment %d is %s", ErrEnrollmentClosed, e.ID, e.Status)
	}
	setProgress(e, progress, s.now())
	if err := s.enrollmentRepo.UpdateEnrollment(ctx, e); err != nil {
		return nil, fmt.Errorf("update enrollment: %w", err)
	}
	return e, nil
}

func (s *enrollmentService) UpdateStatus(ctx context.Context, enrollmentID int64, status string) (*model.Enrollment, error) {
	next, err := model.ParseEnrollmentStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	e, err := s.byID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if e.Status == next {
		return e, nil
	}
	if !e.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, e.Status, next)
	}
	e.Status = next
	if next == model.EnrollmentCompleted {
		now := s.now()
		e.CompletedAt = &now
	}
	if err := s.enrollmentRepo.UpdateEnrollment(ctx, e); err != nil {
		return nil, fmt.Errorf("update enrollment: %w", err)
	}
	s.logger.Info().Int64("enrollment_id", e.ID).Str("status", string(next)).Msg("Enrollment status changed")
	return e, nil
}

func (s *enrollmentService) byID(ctx context.Context, enrollmentID int64) (*model.Enrollment, error) {
	e, err := s.enrollmentRepo.GetEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("get enrollment %d: %w", enrollmentID, err)
	}
	if e == nil {
		return nil, fmt.Errorf("enrollment %d: %w", enrollmentID, ErrNotFound)
	}
	return e, nil
}

// setProgress stores progress and completes an active enrollment that
// reaches 100.
func setProgress(e *model.Enrollment, progress int, now time.Time) {
	e.Progress = progress
	if progress == 100 && e.Status == model.EnrollmentActive {
		e.Status = model.EnrollmentCompleted
		e.CompletedAt = &now
	}
}
