package handler

import (
	"context"

	"cyberacademy/internal/api/v1/dto"
	"cyberacademy/internal/api/v1/operation"
	"cyberacademy/internal/model"
	"cyberacademy/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

const (
	enrollmentConfirmed = "confirmed"
	enrollmentUnknown   = "unknown"
)

// CourseHandler serves the catalog, enrollment and milestone listing routes
type CourseHandler struct {
	catalog     service.CatalogService
	enrollments service.EnrollmentService
	progress    service.ProgressService
	logger      zerolog.Logger
}

func NewCourseHandler(
	catalog service.CatalogService,
	enrollments service.EnrollmentService,
	progress service.ProgressService,
	logger zerolog.Logger,
) *CourseHandler {
	return &CourseHandler{
		catalog:     catalog,
		enrollments: enrollments,
		progress:    progress,
		logger:      logger,
	}
}

// ListCourses returns one page of the filtered catalog
func (h *CourseHandler) ListCourses(ctx context.Context, input *operation.ListCoursesInput) (*operation.ListCoursesOutput, error) {
	filter := service.CourseFilter{
		Search:   input.Search,
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if input.Level != "" && input.Level != "all" {
		level, err := model.ParseLevel(input.Level)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		filter.Level = level
	}
	priceRange, err := service.ParsePriceRange(input.PriceRange)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	filter.PriceRange = priceRange

	page, err := h.catalog.List(ctx, filter)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to list courses")
	}
	return &operation.ListCoursesOutput{
		Body: dto.CourseListResponseDTO{
			Courses:    page.Courses,
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
		},
	}, nil
}

func (h *CourseHandler) ListFeaturedCourses(ctx context.Context, input *operation.ListFeaturedCoursesInput) (*operation.ListFeaturedCoursesOutput, error) {
	courses, err := h.catalog.Featured(ctx)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to list featured courses")
	}
	return &operation.ListFeaturedCoursesOutput{Body: courses}, nil
}

func (h *CourseHandler) GetCourse(ctx context.Context, input *operation.GetCourseInput) (*operation.GetCourseOutput, error) {
	courseID, err := parseID("course id", input.CourseID)
	if err != nil {
		return nil, err
	}
	course, err := h.catalog.Get(ctx, courseID)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to get course")
	}
	return &operation.GetCourseOutput{Body: *course}, nil
}

// Enroll enrolls a user in a course without payment
func (h *CourseHandler) Enroll(ctx context.Context, input *operation.EnrollInput) (*operation.EnrollOutput, error) {
	courseID, err := parseID("course id", input.CourseID)
	if err != nil {
		return nil, err
	}
	enrollment, err := h.enrollments.Enroll(ctx, input.Body.UserID, courseID)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to enroll")
	}
	return &operation.EnrollOutput{Body: enrollment}, nil
}

// EnrollmentStatus always answers 200. When the answer cannot be trusted the
// status is "unknown" rather than an error.
func (h *CourseHandler) EnrollmentStatus(ctx context.Context, input *operation.EnrollmentStatusInput) (*operation.EnrollmentStatusOutput, error) {
	unknown := &operation.EnrollmentStatusOutput{
		Body: dto.EnrollmentStatusResponseDTO{IsEnrolled: false, Status: enrollmentUnknown},
	}
	courseID, err := parseID("course id", input.CourseID)
	if err != nil {
		return unknown, nil
	}
	userID, err := parseID("user id", input.UserID)
	if err != nil {
		return unknown, nil
	}
	enrolled, err := h.enrollments.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		h.logger.Error().Err(err).
			Int64("user_id", userID).
			Int64("course_id", courseID).
			Msg("Failed to check enrollment")
		return unknown, nil
	}
	return &operation.EnrollmentStatusOutput{
		Body: dto.EnrollmentStatusResponseDTO{IsEnrolled: enrolled, Status: enrollmentConfirmed},
	}, nil
}

func (h *CourseHandler) GetCourseContent(ctx context.Context, input *operation.GetCourseContentInput) (*operation.GetCourseContentOutput, error) {
	courseID, err := parseID("course id", input.CourseID)
	if err != nil {
		return nil, err
	}
	userID, err := parseOptionalID("user id", input.UserID)
	if err != nil {
		return nil, err
	}
	content, err := h.catalog.Content(ctx, courseID, userID)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to get course content")
	}
	return &operation.GetCourseContentOutput{Body: content}, nil
}

// ListCourseMilestones reports store failures through the response status.
func (h *CourseHandler) ListCourseMilestones(ctx context.Context, input *operation.ListCourseMilestonesInput) (*operation.ListCourseMilestonesOutput, error) {
	courseID, err := parseID("course id", input.CourseID)
	if err != nil {
		return nil, err
	}
	userID, err := parseOptionalID("user id", input.UserID)
	if err != nil {
		return nil, err
	}
	list := h.progress.ListMilestones(ctx, courseID, userID)

	out := make([]dto.MilestoneDTO, 0, len(list.Milestones))
	for _, m := range list.Milestones {
		out = append(out, dto.MilestoneDTO{
			ID:            m.ID,
			CourseID:      m.CourseID,
			Title:         m.Title,
			Description:   m.Description,
			Order:         m.Position,
			ShareableText: m.ShareableText,
			Badge:         m.Badge,
			Completed:     m.Completed,
			Locked:        m.Locked,
		})
	}
	return &operation.ListCourseMilestonesOutput{
		Body: dto.MilestoneListResponseDTO{Milestones: out, Status: string(list.Status)},
	}, nil
}
