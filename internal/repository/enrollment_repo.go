package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cyberacademy/internal/model"
)

// EnrollmentRepository persists enrollments. (user_id, course_id) is unique.
type EnrollmentRepository interface {
	// CreateEnrollment returns ErrDuplicate if the user already has an
	// enrollment for the course
	CreateEnrollment(ctx context.Context, e *model.Enrollment) error
	GetEnrollment(ctx context.Context, userID, courseID int64) (*model.Enrollment, error)
	GetEnrollmentByID(ctx context.Context, id int64) (*model.Enrollment, error)
	ListEnrollmentsByUser(ctx context.Context, userID int64) ([]model.Enrollment, error)
	// UpdateEnrollment persists status, progress and completed_at
	UpdateEnrollment(ctx context.Context, e *model.Enrollment) error
}

type enrollmentRepo struct {
	db *sql.DB
}

func NewEnrollmentRepo(db *sql.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

const enrollmentColumns = `id, user_id, course_id, status, progress, enrolled_at, completed_at, payment_intent_id, amount_paid_cents`

func scanEnrollment(row interface{ Scan(...any) error }, e *model.Enrollment) error {
	return row.Scan(
		&e.ID,
		&e.UserID,
		&e.CourseID,
		&e.Status,
		&e.Progress,
		&e.EnrolledAt,
		&e.CompletedAt,
		&e.PaymentIntentID,
		&e.AmountPaidCents,
	)
}

func (r *enrollmentRepo) CreateEnrollment(ctx context.Context, e *model.Enrollment) error {
	query := `
		INSERT INTO enrollments (user_id, course_id, status, progress, payment_intent_id, amount_paid_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + enrollmentColumns
	row := conn(ctx, r.db).QueryRowContext(ctx, query,
		e.UserID, e.CourseID, e.Status, e.Progress, e.PaymentIntentID, e.AmountPaidCents)
	err := scanEnrollment(row, e)
	if _, ok := uniqueConstraint(err); ok {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

func (r *enrollmentRepo) getOne(ctx context.Context, query string, args ...any) (*model.Enrollment, error) {
	var e model.Enrollment
	if err := scanEnrollment(conn(ctx, r.db).QueryRowContext(ctx, query, args...), &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	return &e, nil
}

func (r *enrollmentRepo) GetEnrollment(ctx context.Context, userID, courseID int64) (*model.Enrollment, error) {
	return r.getOne(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE user_id = $1 AND course_id = $2`, userID, courseID)
}

func (r *enrollmentRepo) GetEnrollmentByID(ctx context.Context, id int64) (*model.Enrollment, error) {
	return r.getOne(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id)
}

func (r *enrollmentRepo) ListEnrollmentsByUser(ctx context.Context, userID int64) ([]model.Enrollment, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE user_id = $1 ORDER BY enrolled_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []model.Enrollment{}
	for rows.Next() {
		var e model.Enrollment
		if err := scanEnrollment(rows, &e); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

func (r *enrollmentRepo) UpdateEnrollment(ctx context.Context, e *model.Enrollment) error {
	query := `UPDATE enrollments SET status = $1, progress = $2, completed_at = $3 WHERE id = $4`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, e.Status, e.Progress, e.CompletedAt, e.ID)
	if err != nil {
		return fmt.Errorf("update enrollment %d: %w", e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
