package operation

import "cyberacademy/internal/api/v1/dto"

type RegisterInput struct {
	Body dto.RegisterRequestDTO `json:"body"`
}

type RegisterOutput struct {
	Body dto.UserResponseDTO `json:"body"`
}

type LoginInput struct {
	Body dto.LoginRequestDTO `json:"body"`
}

type LoginOutput struct {
	Body dto.LoginResponseDTO `json:"body"`
}

type GetMeInput struct{}

type GetMeOutput struct {
	Body dto.UserResponseDTO `json:"body"`
}

type GetUserProgressInput struct {
	UserID string `path:"userId" doc:"User ID"`
}

type GetUserProgressOutput struct {
	Body dto.UserProgressResponseDTO `json:"body"`
}

type GetCompletedMilestonesInput struct {
	UserID   string `path:"userId" doc:"User ID"`
	CourseID string `path:"courseId" doc:"Course ID"`
}

type GetCompletedMilestonesOutput struct {
	Body []int64 `json:"body"`
}

type CompleteMilestoneInput struct {
	UserID      string                           `path:"userId" doc:"User ID"`
	MilestoneID string                           `path:"milestoneId" doc:"Milestone ID"`
	Body        *dto.CompleteMilestoneRequestDTO `json:"body" required:"false"`
}

type CompleteMilestoneOutput struct {
	Body dto.CompleteMilestoneResponseDTO `json:"body"`
}
