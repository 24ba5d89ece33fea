package service

import (
	"context"
	"testing"

	"cyberacademy/internal/model"
	"cyberacademy/internal/repository"
	"cyberacademy/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProgressService(store *memory.Store) ProgressService {
	return NewProgressService(store, store, store, store, nopLogger())
}

func TestCompleteMilestoneAwardsXPAndLevel(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := mustCreateUser(t, store, "learner", 90)
	require.Equal(t, 1, user.Level)
	course := mustCreateCourse(t, store, "Cybersecurity Fundamentals", 100, 8000)
	ms := mustCreateMilestones(t, store, course.ID, "intro")

	out, err := newProgressService(store).CompleteMilestone(ctx, user.ID, ms[0].ID, 20)
	require.NoError(t, err)
	assert.True(t, out.Awarded)
	assert.True(t, out.Progress.Completed)
	assert.Equal(t, 20, out.Progress.XPEarned)
	assert.Equal(t, 110, out.User.XP)
	assert.Equal(t, 2, out.User.Level)
	assert.Equal(t, []string{"badge-intro"}, out.User.Badges)

	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 110, stored.XP)
	assert.Equal(t, 2, stored.Level)
}

func TestCompleteMilestoneTwiceAwardsOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := mustCreateUser(t, store, "learner", 0)
	course := mustCreateCourse(t, store, "Kali Linux", 125, 10000)
	ms := mustCreateMilestones(t, store, course.ID, "setup")
	svc := newProgressService(store)

	_, err := svc.CompleteMilestone(ctx, user.ID, ms[0].ID, DefaultMilestoneXP)
	require.NoError(t, err)
	again, err := svc.CompleteMilestone(ctx, user.ID, ms[0].ID, DefaultMilestoneXP)
	require.NoError(t, err)

	assert.False(t, again.Awarded)
	assert.Equal(t, 10, again.User.XP)
	assert.Equal(t, []string{"badge-setup"}, again.User.Badges)
}

func TestCompleteMilestoneOutOfOrderIsLocked(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := mustCreateUser(t, store, "learner", 0)
	course := mustCreateCourse(t, store, "Ethical Hacking", 150, 12000)
	ms := mustCreateMilestones(t, store, course.ID, "recon", "scan", "exploit")
	svc := newProgressService(store)

	_, err := svc.CompleteMilestone(ctx, user.ID, ms[1].ID, 10)
	assert.ErrorIs(t, err, ErrMilestoneLocked)

	ids, err := svc.CompletedMilestoneIDs(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	u, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, u.XP)

	_, err = svc.CompleteMilestone(ctx, user.ID, ms[0].ID, 10)
	require.NoError(t, err)
	_, err = svc.CompleteMilestone(ctx, user.ID, ms[1].ID, 10)
	require.NoError(t, err)

	ids, err = svc.CompletedMilestoneIDs(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{ms[0].ID, ms[1].ID}, ids)
}

func TestCompleteMilestoneValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := mustCreateUser(t, store, "learner", 0)
	svc := newProgressService(store)

	_, err := svc.CompleteMilestone(ctx, user.ID, 1, -5)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CompleteMilestone(ctx, user.ID, 999, 10)
	assert.ErrorIs(t, err, ErrNotFound)

	course := mustCreateCourse(t, store, "Kali Linux", 125, 10000)
	ms := mustCreateMilestones(t, store, course.ID, "setup")
	_, err = svc.CompleteMilestone(ctx, 999, ms[0].ID, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteMilestoneUpdatesEnrollmentProgress(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := mustCreateUser(t, store, "learner", 0)
	course := mustCreateCourse(t, store, "Security Awareness", 0, 0)
	ms := mustCreateMilestones(t, store, course.ID, "phish", "passwords", "mfa")
	e, err := newEnrollmentService(store, nil).Enroll(ctx, user.ID, course.ID)
	require.NoError(t, err)
	svc := newProgressService(store)

	out, err := svc.CompleteMilestone(ctx, user.ID, ms[0].ID, 10)
	require.NoError(t, err)
	require.NotNil(t, out.Enrollment)
	assert.Equal(t, 33, out.Enrollment.Progress)

	_, err = svc.CompleteMilestone(ctx, user.ID, ms[1].ID, 10)
	require.NoError(t, err)
	out, err = svc.CompleteMilestone(ctx, user.ID, ms[2].ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 100, out.Enrollment.Progress)
	assert.Equal(t, model.EnrollmentCompleted, out.Enrollment.Status)

	stored, err := store.GetEnrollmentByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)
}

func TestAddXP(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := mustCreateUser(t, store, "learner", 0)
	svc := newProgressService(store)

	_, err := svc.AddXP(ctx, user.ID, -1)
	assert.ErrorIs(t, err, ErrValidation)

	prevXP, prevLevel := 0, 1
	for _, d := range []int{5, 95, 1, 250, 0, 40} {
		u, err := svc.AddXP(ctx, user.ID, d)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, u.XP, prevXP)
		assert.GreaterOrEqual(t, u.Level, prevLevel)
		prevXP, prevLevel = u.XP, u.Level
	}
	assert.Equal(t, 391, prevXP)
	assert.Equal(t, 4, prevLevel)

	_, err = svc.AddXP(ctx, 999, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMilestonesWithLocks(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := mustCreateUser(t, store, "learner", 0)
	course := mustCreateCourse(t, store, "Ethical Hacking", 150, 12000)
	ms := mustCreateMilestones(t, store, course.ID, "recon", "scan", "exploit")
	svc := newProgressService(store)
	_, err := svc.CompleteMilestone(ctx, user.ID, ms[0].ID, 10)
	require.NoError(t, err)

	list := svc.ListMilestones(ctx, course.ID, &user.ID)
	assert.Equal(t, Confirmed, list.Status)
	require.Len(t, list.Milestones, 3)
	assert.True(t, list.Milestones[0].Completed)
	assert.False(t, list.Milestones[1].Locked)
	assert.True(t, list.Milestones[2].Locked)

	anon := svc.ListMilestones(ctx, course.ID, nil)
	assert.Equal(t, Confirmed, anon.Status)
	assert.False(t, anon.Milestones[0].Locked)
	assert.True(t, anon.Milestones[1].Locked)

	empty := svc.ListMilestones(ctx, 999, nil)
	assert.Equal(t, Confirmed, empty.Status)
	assert.Empty(t, empty.Milestones)
}

type failingMilestones struct {
	repository.MilestoneRepository
}

func (failingMilestones) ListMilestones(ctx context.Context, courseID int64) ([]model.Milestone, error) {
	return nil, errStoreDown
}

func TestListMilestonesUnavailable(t *testing.T) {
	store := memory.New()
	svc := NewProgressService(store, failingMilestones{store}, store, store, nopLogger())

	list := svc.ListMilestones(context.Background(), 1, nil)
	assert.Equal(t, Unavailable, list.Status)
	assert.NotNil(t, list.Milestones)
	assert.Empty(t, list.Milestones)
}
