package service

import (
	"context"
	"fmt"

	"cyberacademy/internal/model"
	"cyberacademy/internal/repository"

	"github.com/rs/zerolog"
)

// CourseCache stores course lists under a key.
type CourseCache interface {
	GetCourses(ctx context.Context, key string) ([]model.Course, bool, error)
	SetCourses(ctx context.Context, key string, courses []model.Course) error
}

// ImageSigner turns a stored image path into a URL clients can fetch.
type ImageSigner interface {
	SignedURL(ctx context.Context, path string) (string, error)
}

const (
	cacheKeyAllCourses      = "courses:all"
	cacheKeyFeaturedCourses = "courses:featured"
)

// CatalogService answers read queries over the course catalog.
type CatalogService interface {
	List(ctx context.Context, f CourseFilter) (*CoursePage, error)
	Featured(ctx context.Context) ([]model.Course, error)
	Get(ctx context.Context, courseID int64) (*model.Course, error)
	// Content returns the course material. When userID is set, the user must
	// be enrolled.
	Content(ctx context.Context, courseID int64, userID *int64) ([]model.CourseContent, error)
}

type catalogService struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	cache          CourseCache
	images         ImageSigner
	logger         zerolog.Logger
}

// NewCatalogService creates a CatalogService. cache and images may be nil.
func NewCatalogService(courseRepo repository.CourseRepository, enrollmentRepo repository.EnrollmentRepository, cache CourseCache, images ImageSigner, logger zerolog.Logger) CatalogService {
	return &catalogService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		cache:          cache,
		images:         images,
		logger:         logger.With().Str("service", "CatalogService").Logger(),
	}
}

func (s *catalogService) List(ctx context.Context, f CourseFilter) (*CoursePage, error) {
	courses, err := s.cached(ctx, cacheKeyAllCourses, s.courseRepo.ListCourses)
	if err != nil {
		return nil, err
	}
	page := Paginate(FilterCourses(courses, f), f.Page, f.PageSize)
	page.Courses = s.signImages(ctx, page.Courses)
	return &page, nil
}

func (s *catalogService) Featured(ctx context.Context) ([]model.Course, error) {
	courses, err := s.cached(ctx, cacheKeyFeaturedCourses, s.courseRepo.ListFeaturedCourses)
	if err != nil {
		return nil, err
	}
	return s.signImages(ctx, courses), nil
}

func (s *catalogService) Get(ctx context.Context, courseID int64) (*model.Course, error) {
	c, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course %d: %w", courseID, err)
	}
	if c == nil {
		return nil, fmt.Errorf("course %d: %w", courseID, ErrNotFound)
	}
	signed := s.signImages(ctx, []model.Course{*c})
	return &signed[0], nil
}

func (s *catalogService) Content(ctx context.Context, courseID int64, userID *int64) ([]model.CourseContent, error) {
	c, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course %d: %w", courseID, err)
	}
	if c == nil {
		return nil, fmt.Errorf("course %d: %w", courseID, ErrNotFound)
	}
	if userID != nil {
		e, err := s.enrollmentRepo.GetEnrollment(ctx, *userID, courseID)
		if err != nil {
			return nil, fmt.Errorf("check enrollment: %w", err)
		}
		if e == nil {
			return nil, ErrUnauthorizedAccess
		}
	}
	content, err := s.courseRepo.ListCourseContent(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list course content: %w", err)
	}
	return content, nil
}

// cached reads through the course cache. Cache failures are logged and the
// repository is used instead.
func (s *catalogService) cached(ctx context.Context, key string, load func(context.Context) ([]model.Course, error)) ([]model.Course, error) {
	if s.cache != nil {
		courses, ok, err := s.cache.GetCourses(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Course cache read failed")
		} else if ok {
			return courses, nil
		}
	}

	courses, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetCourses(ctx, key, courses); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Course cache write failed")
		}
	}
	return courses, nil
}

func (s *catalogService) signImages(ctx context.Context, courses []model.Course) []model.Course {
	if s.images == nil {
		return courses
	}
	out := make([]model.Course, len(courses))
	for i, c := range courses {
		if c.ImagePath != "" {
			url, err := s.images.SignedURL(ctx, c.ImagePath)
			if err != nil {
				s.logger.Warn().Err(err).Int64("course_id", c.ID).Msg("Failed to sign course image")
			} else {
				c.ImagePath = url
			}
		}
		out[i] = c
	}
	return out
}
