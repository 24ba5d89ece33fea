package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cyberacademy/internal/util"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const UserContextKey = contextKey("user")

// UserIDFromContext returns the authenticated user id set by the auth
// middleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserContextKey).(int64)
	return id, ok && id > 0
}

var errMissingHeader = errors.New("authorization header missing")

// Authenticate resolves a "Bearer <jwt>" header to a user id.
func Authenticate(authHeader, jwtSecret string) (int64, error) {
	if authHeader == "" {
		return 0, errMissingHeader
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, errors.New("invalid authorization header")
	}
	claims, err := util.ValidateJWT(parts[1], jwtSecret)
	if err != nil {
		return 0, err
	}
	return util.UserIDFromClaims(claims)
}

// AuthMiddleware is a per-operation huma middleware that rejects requests
// without a valid token and stores the user id in the request context.
func AuthMiddleware(api huma.API, jwtSecret string, logger zerolog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		userID, err := Authenticate(ctx.Header("Authorization"), jwtSecret)
		if err != nil {
			if !errors.Is(err, errMissingHeader) {
				logger.Warn().Err(err).Str("path", ctx.URL().Path).Msg("Invalid token")
			}
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(huma.WithValue(ctx, UserContextKey, userID))
	}
}
