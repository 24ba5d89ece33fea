package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cyberacademy/internal/model"
	"cyberacademy/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUserAndCourses(t *testing.T, s *Store, courses int) (*model.User, []*model.Course) {
	t.Helper()
	ctx := context.Background()
	u := &model.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))
	var cs []*model.Course
	for i := 0; i < courses; i++ {
		c := &model.Course{Title: "course", Level: model.LevelBeginner}
		require.NoError(t, s.CreateCourse(ctx, c))
		cs = append(cs, c)
	}
	return u, cs
}

func TestRollbackRevertsOnlyTransactionWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	u, cs := seedUserAndCourses(t, s, 1)
	m := &model.Milestone{CourseID: cs[0].ID, Title: "Recon", Badge: "recon"}
	require.NoError(t, s.CreateMilestone(ctx, m))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, s.EnsureProgress(txCtx, u.ID, m.ID))
		p, err := s.GetProgressForUpdate(txCtx, u.ID, m.ID)
		require.NoError(t, err)
		p.Completed = true
		require.NoError(t, s.UpdateProgress(txCtx, p))

		award := *u
		award.XP = 50
		award.Badges = []string{"recon"}
		require.NoError(t, s.UpdateUserProgress(txCtx, &award))

		// Committed by another request while the transaction is open.
		require.NoError(t, s.CreateEnrollment(ctx, &model.Enrollment{UserID: u.ID, CourseID: cs[0].ID, Status: model.EnrollmentActive}))
		require.NoError(t, s.CreatePost(ctx, &model.BlogPost{Title: "Hello"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 1, s.EnrollmentCount())
	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	p, err := s.GetProgressForUpdate(ctx, u.ID, m.ID)
	require.NoError(t, err)
	assert.Nil(t, p)
	stored, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.XP)
	assert.Empty(t, stored.Badges)
}

func TestCommitKeepsTransactionWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	u, cs := seedUserAndCourses(t, s, 1)

	require.NoError(t, s.WithinTx(ctx, func(txCtx context.Context) error {
		return s.CreateEnrollment(txCtx, &model.Enrollment{UserID: u.ID, CourseID: cs[0].ID, Status: model.EnrollmentActive})
	}))
	assert.Equal(t, 1, s.EnrollmentCount())
}

func TestRollbackRestoresUpdatedEnrollment(t *testing.T) {
	ctx := context.Background()
	s := New()
	u, cs := seedUserAndCourses(t, s, 1)
	e := &model.Enrollment{UserID: u.ID, CourseID: cs[0].ID, Status: model.EnrollmentActive}
	require.NoError(t, s.CreateEnrollment(ctx, e))

	err := s.WithinTx(ctx, func(txCtx context.Context) error {
		changed := *e
		changed.Progress = 100
		changed.Status = model.EnrollmentCompleted
		require.NoError(t, s.UpdateEnrollment(txCtx, &changed))
		return errors.New("abort")
	})
	require.Error(t, err)

	stored, err := s.GetEnrollmentByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, stored.Status)
	assert.Zero(t, stored.Progress)
}

func TestConcurrentCreateEnrollmentIsUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	u, cs := seedUserAndCourses(t, s, 1)

	const workers = 20
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.CreateEnrollment(ctx, &model.Enrollment{UserID: u.ID, CourseID: cs[0].ID, Status: model.EnrollmentActive})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, s.EnrollmentCount())
}
