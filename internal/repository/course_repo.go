package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cyberacademy/internal/model"
)

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	ListCourses(ctx context.Context) ([]model.Course, error)
	ListFeaturedCourses(ctx context.Context) ([]model.Course, error)
	// GetCourseByID returns nil when the course does not exist
	GetCourseByID(ctx context.Context, courseID int64) (*model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	ListCourseContent(ctx context.Context, courseID int64) ([]model.CourseContent, error)
	CreateCourseContent(ctx context.Context, cc *model.CourseContent) error
}

type courseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *sql.DB) CourseRepository {
	return &courseRepo{db: db}
}

const courseColumns = `id, title, description, price_usd, price_inr, level, duration, image_path, featured, created_at`

func scanCourse(row interface{ Scan(...any) error }, c *model.Course) error {
	return row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.PriceUSD,
		&c.PriceINR,
		&c.Level,
		&c.Duration,
		&c.ImagePath,
		&c.Featured,
		&c.CreatedAt,
	)
}

func (r *courseRepo) queryCourses(ctx context.Context, query string, args ...any) ([]model.Course, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

// ListCourses retrieves the full catalog in id order
func (r *courseRepo) ListCourses(ctx context.Context) ([]model.Course, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY id ASC`)
}

// ListFeaturedCourses retrieves courses flagged as featured
func (r *courseRepo) ListFeaturedCourses(ctx context.Context) ([]model.Course, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses WHERE featured ORDER BY id ASC`)
}

// GetCourseByID retrieves a course by its ID
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID int64) (*model.Course, error) {
	var c model.Course
	row := conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, courseID)
	if err := scanCourse(row, &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course %d: %w", courseID, err)
	}
	return &c, nil
}

// CreateCourse inserts a new course and fills in the generated fields
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (title, description, price_usd, price_inr, level, duration, image_path, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	return conn(ctx, r.db).QueryRowContext(ctx, query,
		c.Title, c.Description, c.PriceUSD, c.PriceINR, c.Level, c.Duration, c.ImagePath, c.Featured,
	).Scan(&c.ID, &c.CreatedAt)
}

// ListCourseContent retrieves the ordered material of a course
func (r *courseRepo) ListCourseContent(ctx context.Context, courseID int64) ([]model.CourseContent, error) {
	query := `
		SELECT id, course_id, title, content_type, body, position
		FROM course_contents
		WHERE course_id = $1
		ORDER BY position ASC
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("query course content: %w", err)
	}
	defer rows.Close()

	items := []model.CourseContent{}
	for rows.Next() {
		var cc model.CourseContent
		if err := rows.Scan(&cc.ID, &cc.CourseID, &cc.Title, &cc.Type, &cc.Body, &cc.Position); err != nil {
			return nil, fmt.Errorf("scan course content: %w", err)
		}
		items = append(items, cc)
	}
	return items, rows.Err()
}

func (r *courseRepo) CreateCourseContent(ctx context.Context, cc *model.CourseContent) error {
	query := `
		INSERT INTO course_contents (course_id, title, content_type, body, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return conn(ctx, r.db).QueryRowContext(ctx, query, cc.CourseID, cc.Title, cc.Type, cc.Body, cc.Position).Scan(&cc.ID)
}
