package handler

import (
	"context"

	"cyberacademy/internal/api/v1/dto"
	"cyberacademy/internal/api/v1/operation"
	"cyberacademy/internal/middleware"
	"cyberacademy/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

// UserHandler implements account, progress and milestone completion routes
type UserHandler struct {
	users       service.UserService
	progress    service.ProgressService
	enrollments service.EnrollmentService
	logger      zerolog.Logger
}

func NewUserHandler(
	users service.UserService,
	progress service.ProgressService,
	enrollments service.EnrollmentService,
	logger zerolog.Logger,
) *UserHandler {
	return &UserHandler{
		users:       users,
		progress:    progress,
		enrollments: enrollments,
		logger:      logger,
	}
}

// Helper to extract user ID from context (injected by auth middleware)
func getUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return 0, huma.Error401Unauthorized("User ID not found in context")
	}
	return userID, nil
}

func (h *UserHandler) Register(ctx context.Context, input *operation.RegisterInput) (*operation.RegisterOutput, error) {
	user, err := h.users.Register(ctx, service.RegisterRequest{
		Username: input.Body.Username,
		Email:    input.Body.Email,
		Password: input.Body.Password,
		FullName: input.Body.FullName,
	})
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to register user")
	}
	return &operation.RegisterOutput{Body: dto.NewUserResponse(user)}, nil
}

func (h *UserHandler) Login(ctx context.Context, input *operation.LoginInput) (*operation.LoginOutput, error) {
	token, user, err := h.users.Login(ctx, input.Body.Username, input.Body.Password)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to log in")
	}
	return &operation.LoginOutput{
		Body: dto.LoginResponseDTO{Token: token, User: dto.NewUserResponse(user)},
	}, nil
}

// GetMe returns the authenticated user's profile
func (h *UserHandler) GetMe(ctx context.Context, input *operation.GetMeInput) (*operation.GetMeOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := h.users.Get(ctx, userID)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to get user")
	}
	return &operation.GetMeOutput{Body: dto.NewUserResponse(user)}, nil
}

func (h *UserHandler) GetProgress(ctx context.Context, input *operation.GetUserProgressInput) (*operation.GetUserProgressOutput, error) {
	userID, err := parseID("user id", input.UserID)
	if err != nil {
		return nil, err
	}
	p, err := h.users.Progress(ctx, userID)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to get user progress")
	}
	badges := p.Badges
	if badges == nil {
		badges = []string{}
	}
	return &operation.GetUserProgressOutput{
		Body: dto.UserProgressResponseDTO{XP: p.XP, Level: p.Level, Badges: badges},
	}, nil
}

func (h *UserHandler) ListEnrollments(ctx context.Context, input *operation.ListUserEnrollmentsInput) (*operation.ListUserEnrollmentsOutput, error) {
	userID, err := parseID("user id", input.UserID)
	if err != nil {
		return nil, err
	}
	enrollments, err := h.enrollments.ListForUser(ctx, userID)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to list enrollments")
	}
	return &operation.ListUserEnrollmentsOutput{Body: enrollments}, nil
}

// GetCompletedMilestones returns the ids of the milestones the user finished
// in a course.
func (h *UserHandler) GetCompletedMilestones(ctx context.Context, input *operation.GetCompletedMilestonesInput) (*operation.GetCompletedMilestonesOutput, error) {
	userID, err := parseID("user id", input.UserID)
	if err != nil {
		return nil, err
	}
	courseID, err := parseID("course id", input.CourseID)
	if err != nil {
		return nil, err
	}
	ids, err := h.progress.CompletedMilestoneIDs(ctx, userID, courseID)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to get completed milestones")
	}
	if ids == nil {
		ids = []int64{}
	}
	return &operation.GetCompletedMilestonesOutput{Body: ids}, nil
}

func (h *UserHandler) CompleteMilestone(ctx context.Context, input *operation.CompleteMilestoneInput) (*operation.CompleteMilestoneOutput, error) {
	userID, err := parseID("user id", input.UserID)
	if err != nil {
		return nil, err
	}
	milestoneID, err := parseID("milestone id", input.MilestoneID)
	if err != nil {
		return nil, err
	}
	xp := service.DefaultMilestoneXP
	if input.Body != nil && input.Body.XPEarned != nil {
		xp = *input.Body.XPEarned
	}

	res, err := h.progress.CompleteMilestone(ctx, userID, milestoneID, xp)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to complete milestone")
	}
	return &operation.CompleteMilestoneOutput{
		Body: dto.CompleteMilestoneResponseDTO{
			Progress:   res.Progress,
			User:       dto.NewUserResponse(res.User),
			Enrollment: res.Enrollment,
		},
	}, nil
}
