package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cyberacademy/internal/model"
	"cyberacademy/internal/repository/memory"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

func nopLogger() zerolog.Logger { return zerolog.Nop() }

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func mustCreateUser(t *testing.T, store *memory.Store, username string, xp int) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", XP: xp, Level: model.LevelForXP(xp)}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func mustCreateCourse(t *testing.T, store *memory.Store, title string, priceUSD, priceINR int64) *model.Course {
	t.Helper()
	c := &model.Course{Title: title, PriceUSD: priceUSD, PriceINR: priceINR, Level: model.LevelBeginner}
	require.NoError(t, store.CreateCourse(context.Background(), c))
	return c
}

func mustCreateMilestones(t *testing.T, store *memory.Store, courseID int64, titles ...string) []model.Milestone {
	t.Helper()
	out := make([]model.Milestone, 0, len(titles))
	for i, title := range titles {
		m := &model.Milestone{CourseID: courseID, Title: title, Position: i, Badge: "badge-" + title}
		require.NoError(t, store.CreateMilestone(context.Background(), m))
		out = append(out, *m)
	}
	return out
}

type publishedMessage struct {
	topic   string
	payload []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.messages = append(p.messages, publishedMessage{topic: topic, payload: payload})
	return "msg-1", nil
}

func (p *fakePublisher) published() []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedMessage(nil), p.messages...)
}

func newEnrollmentService(store *memory.Store, pub *fakePublisher) EnrollmentService {
	if pub == nil {
		return NewEnrollmentService(store, store, store, nil, "enrollment-events", nopLogger())
	}
	return NewEnrollmentService(store, store, store, pub, "enrollment-events", nopLogger())
}
