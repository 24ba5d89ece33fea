package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cyberacademy/internal/util"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type whoAmIOutput struct {
	Body struct {
		UserID int64 `json:"userId"`
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, api := humatest.New(t)
	huma.Register(api, huma.Operation{
		OperationID: "whoami",
		Method:      http.MethodGet,
		Path:        "/whoami",
		Middlewares: huma.Middlewares{AuthMiddleware(api, "secret", zerolog.Nop())},
	}, func(ctx context.Context, _ *struct{}) (*whoAmIOutput, error) {
		out := &whoAmIOutput{}
		id, ok := UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error500InternalServerError("no user in context")
		}
		out.Body.UserID = id
		return out, nil
	})

	token, err := util.IssueJWT(7, "alice", "secret", time.Hour)
	require.NoError(t, err)
	other, err := util.IssueJWT(7, "alice", "other-secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + other, http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args []any
			if tt.header != "" {
				args = append(args, "Authorization: "+tt.header)
			}
			resp := api.Get("/whoami", args...)
			assert.Equal(t, tt.want, resp.Code)
			if tt.want == http.StatusOK {
				assert.Contains(t, resp.Body.String(), `"userId":7`)
			}
		})
	}
}

func TestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	h := LoggerMiddleware(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/courses?level=Beginner", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), "/api/courses?level=Beginner")

	buf.Reset()
	req.Header.Set(RequestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), "req-123")
}
