package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cyberacademy/internal/model"
)

// MilestoneRepository persists milestones and per-user milestone progress.
type MilestoneRepository interface {
	// ListMilestones returns a course's milestones ordered by position
	ListMilestones(ctx context.Context, courseID int64) ([]model.Milestone, error)
	GetMilestoneByID(ctx context.Context, id int64) (*model.Milestone, error)
	CreateMilestone(ctx context.Context, m *model.Milestone) error
	// EnsureProgress creates an incomplete progress row if none exists yet
	EnsureProgress(ctx context.Context, userID, milestoneID int64) error
	// GetProgressForUpdate locks the progress row for the surrounding transaction
	GetProgressForUpdate(ctx context.Context, userID, milestoneID int64) (*model.MilestoneProgress, error)
	UpdateProgress(ctx context.Context, p *model.MilestoneProgress) error
	CompletedMilestoneIDs(ctx context.Context, userID, courseID int64) ([]int64, error)
}

type milestoneRepo struct {
	db *sql.DB
}

func NewMilestoneRepo(db *sql.DB) MilestoneRepository {
	return &milestoneRepo{db: db}
}

const milestoneColumns = `id, course_id, title, description, position, shareable_text, badge`

func scanMilestone(row interface{ Scan(...any) error }, m *model.Milestone) error {
	return row.Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.Position, &m.ShareableText, &m.Badge)
}

func (r *milestoneRepo) ListMilestones(ctx context.Context, courseID int64) ([]model.Milestone, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+milestoneColumns+` FROM milestones WHERE course_id = $1 ORDER BY position ASC`, courseID)
	if err != nil {
		return nil, fmt.Errorf("query milestones: %w", err)
	}
	defer rows.Close()

	milestones := []model.Milestone{}
	for rows.Next() {
		var m model.Milestone
		if err := scanMilestone(rows, &m); err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

func (r *milestoneRepo) GetMilestoneByID(ctx context.Context, id int64) (*model.Milestone, error) {
	var m model.Milestone
	row := conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE id = $1`, id)
	if err := scanMilestone(row, &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get milestone %d: %w", id, err)
	}
	return &m, nil
}

func (r *milestoneRepo) CreateMilestone(ctx context.Context, m *model.Milestone) error {
	query := `
		INSERT INTO milestones (course_id, title, description, position, shareable_text, badge)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		m.CourseID, m.Title, m.Description, m.Position, m.ShareableText, m.Badge).Scan(&m.ID)
	if _, ok := uniqueConstraint(err); ok {
		return ErrDuplicate
	}
	return err
}

func (r *milestoneRepo) EnsureProgress(ctx context.Context, userID, milestoneID int64) error {
	query := `
		INSERT INTO user_milestone_progress (user_id, milestone_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, milestone_id) DO NOTHING
	`
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, userID, milestoneID); err != nil {
		return fmt.Errorf("ensure milestone progress: %w", err)
	}
	return nil
}

func (r *milestoneRepo) GetProgressForUpdate(ctx context.Context, userID, milestoneID int64) (*model.MilestoneProgress, error) {
	query := `
		SELECT id, user_id, milestone_id, completed, completed_at, xp_earned
		FROM user_milestone_progress
		WHERE user_id = $1 AND milestone_id = $2
		FOR UPDATE
	`
	var p model.MilestoneProgress
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID, milestoneID).
		Scan(&p.ID, &p.UserID, &p.MilestoneID, &p.Completed, &p.CompletedAt, &p.XPEarned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get milestone progress: %w", err)
	}
	return &p, nil
}

func (r *milestoneRepo) UpdateProgress(ctx context.Context, p *model.MilestoneProgress) error {
	query := `UPDATE user_milestone_progress SET completed = $1, completed_at = $2, xp_earned = $3 WHERE id = $4`
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, p.Completed, p.CompletedAt, p.XPEarned, p.ID); err != nil {
		return fmt.Errorf("update milestone progress %d: %w", p.ID, err)
	}
	return nil
}

func (r *milestoneRepo) CompletedMilestoneIDs(ctx context.Context, userID, courseID int64) ([]int64, error) {
	query := `
		SELECT p.milestone_id
		FROM user_milestone_progress p
		JOIN milestones m ON m.id = p.milestone_id
		WHERE p.user_id = $1 AND m.course_id = $2 AND p.completed
		ORDER BY m.position ASC
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("query completed milestones: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
