package operation

import (
	"cyberacademy/internal/api/v1/dto"
	"cyberacademy/internal/model"
)

type EnrollInput struct {
	CourseID string               `path:"courseId" doc:"Course ID"`
	Body     dto.EnrollRequestDTO `json:"body"`
}

type EnrollOutput struct {
	Body *model.Enrollment `json:"body"`
}

type EnrollmentStatusInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
	UserID   string `query:"userId" doc:"User ID"`
}

type EnrollmentStatusOutput struct {
	Body dto.EnrollmentStatusResponseDTO `json:"body"`
}

type ListUserEnrollmentsInput struct {
	UserID string `path:"userId" doc:"User ID"`
}

type ListUserEnrollmentsOutput struct {
	Body []model.Enrollment `json:"body"`
}

type UpdateEnrollmentProgressInput struct {
	EnrollmentID string                       `path:"enrollmentId" doc:"Enrollment ID"`
	Body         dto.UpdateProgressRequestDTO `json:"body"`
}

type UpdateEnrollmentStatusInput struct {
	EnrollmentID string                     `path:"enrollmentId" doc:"Enrollment ID"`
	Body         dto.UpdateStatusRequestDTO `json:"body"`
}

type EnrollmentOutput struct {
	Body *model.Enrollment `json:"body"`
}
