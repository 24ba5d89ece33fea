package handler

import (
	"context"

	"cyberacademy/internal/api/v1/operation"
	"cyberacademy/internal/service"

	"github.com/rs/zerolog"
)

type EnrollmentHandler struct {
	enrollments service.EnrollmentService
	logger      zerolog.Logger
}

func NewEnrollmentHandler(enrollments service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, logger: logger}
}

func (h *EnrollmentHandler) UpdateProgress(ctx context.Context, input *operation.UpdateEnrollmentProgressInput) (*operation.EnrollmentOutput, error) {
	enrollmentID, err := parseID("enrollment id", input.EnrollmentID)
	if err != nil {
		return nil, err
	}
	e, err := h.enrollments.UpdateProgress(ctx, enrollmentID, input.Body.Progress)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to update enrollment progress")
	}
	return &operation.EnrollmentOutput{Body: e}, nil
}

// UpdateStatus moves an enrollment through active -> completed|cancelled.
func (h *EnrollmentHandler) UpdateStatus(ctx context.Context, input *operation.UpdateEnrollmentStatusInput) (*operation.EnrollmentOutput, error) {
	enrollmentID, err := parseID("enrollment id", input.EnrollmentID)
	if err != nil {
		return nil, err
	}
	e, err := h.enrollments.UpdateStatus(ctx, enrollmentID, input.Body.Status)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to update enrollment status")
	}
	return &operation.EnrollmentOutput{Body: e}, nil
}
