package handler

import (
	"errors"
	"net/http"
	"strconv"

	"cyberacademy/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

// toHTTPError maps service errors onto huma status errors. Anything it does
// not recognise is logged and reported as a 500 with msg.
func toHTTPError(logger zerolog.Logger, err error, msg string) error {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrDuplicateEnrollment),
		errors.Is(err, service.ErrPaymentNotSucceeded),
		errors.Is(err, service.ErrMissingMetadata),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidSignature):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, service.ErrPaymentRequired):
		return huma.NewError(http.StatusPaymentRequired, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, service.ErrUnauthorizedAccess):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return huma.Error401Unauthorized(err.Error())
	case errors.Is(err, service.ErrMilestoneLocked),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrEnrollmentClosed):
		return huma.Error409Conflict(err.Error())
	}
	logger.Error().Err(err).Msg(msg)
	return huma.Error500InternalServerError(msg)
}

// parseID parses a positive numeric identifier from a path or query value.
func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, huma.Error400BadRequest("Invalid " + name)
	}
	return id, nil
}

// parseOptionalID returns nil for an empty value.
func parseOptionalID(name, raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(name, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
