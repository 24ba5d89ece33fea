package service

import (
	"context"
	"errors"
	"testing"

	"cyberacademy/internal/mailer"
	"cyberacademy/internal/model"
	"cyberacademy/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogRecentDefaultsToThree(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewBlogService(store, nil, nopLogger())
	for _, title := range []string{"one", "two", "three", "four"} {
		_, err := svc.Create(ctx, &model.BlogPost{Title: title, Content: "body", Author: "team"})
		require.NoError(t, err)
	}

	recent, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "four", recent[0].Title)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, &model.BlogPost{Title: " "})
	assert.ErrorIs(t, err, ErrValidation)
}

type recordingMailer struct {
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func TestContactSubmitNotifies(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := &recordingMailer{}
	svc := NewContactService(store, m, "ops@example.com", newValidator(), nopLogger())

	msg, err := svc.Submit(ctx, ContactRequest{Name: "Bob", Email: "bob@example.com", Message: "Do you offer team training?"})
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
	assert.Len(t, store.ContactMessages(), 1)
	require.Len(t, m.sent, 1)
	assert.Equal(t, "ops@example.com", m.sent[0].ToEmail)
	assert.Contains(t, m.sent[0].Body, "team training")
}

func TestContactSubmitIgnoresMailFailure(t *testing.T) {
	store := memory.New()
	svc := NewContactService(store, &recordingMailer{err: errors.New("smtp down")}, "ops@example.com", newValidator(), nopLogger())

	_, err := svc.Submit(context.Background(), ContactRequest{Name: "Bob", Email: "bob@example.com", Message: "hi"})
	require.NoError(t, err)
	assert.Len(t, store.ContactMessages(), 1)
}

func TestContactSubmitValidation(t *testing.T) {
	store := memory.New()
	svc := NewContactService(store, nil, "", newValidator(), nopLogger())

	_, err := svc.Submit(context.Background(), ContactRequest{Name: "Bob", Email: "nope", Message: "hi"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, store.ContactMessages())
}
