package model

import (
	"fmt"
	"time"
)

// EnrollmentStatus is the lifecycle state of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// ParseEnrollmentStatus returns the status matching s.
func ParseEnrollmentStatus(s string) (EnrollmentStatus, error) {
	switch st := EnrollmentStatus(s); st {
	case EnrollmentActive, EnrollmentCompleted, EnrollmentCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown enrollment status %q", s)
}

// CanTransitionTo reports whether an enrollment in status s may move to next.
// Only active enrollments change state; completed and cancelled are final.
func (s EnrollmentStatus) CanTransitionTo(next EnrollmentStatus) bool {
	if s == next {
		return true
	}
	return s == EnrollmentActive && (next == EnrollmentCompleted || next == EnrollmentCancelled)
}

// Enrollment links a user to a course.
type Enrollment struct {
	ID              int64            `db:"id" json:"id"`
	UserID          int64            `db:"user_id" json:"userId"`
	CourseID        int64            `db:"course_id" json:"courseId"`
	Status          EnrollmentStatus `db:"status" json:"status"`
	Progress        int              `db:"progress" json:"progress"`
	EnrolledAt      time.Time        `db:"enrolled_at" json:"enrollmentDate"`
	CompletedAt     *time.Time       `db:"completed_at" json:"completionDate,omitempty"`
	PaymentIntentID *string          `db:"payment_intent_id" json:"paymentIntentId,omitempty"`
	AmountPaidCents *int64           `db:"amount_paid_cents" json:"amountPaidCents,omitempty"`
}
