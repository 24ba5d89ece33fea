package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"cyberacademy/internal/model"
	"cyberacademy/internal/repository"

	"github.com/rs/zerolog"
)

// DefaultMilestoneXP is awarded when a completion does not name an amount.
const DefaultMilestoneXP = 10

// Availability tells a caller whether a result reflects the store or is a
// fallback after a failure.
type Availability string

const (
	Confirmed   Availability = "confirmed"
	Unavailable Availability = "unavailable"
)

// MilestoneView is a milestone with the requesting user's state.
type MilestoneView struct {
	model.Milestone
	Completed bool `json:"completed"`
	Locked    bool `json:"locked"`
}

type MilestoneList struct {
	Milestones []MilestoneView `json:"milestones"`
	Status     Availability    `json:"status"`
}

type MilestoneCompletion struct {
	Progress   *model.MilestoneProgress `json:"progress"`
	User       *model.User              `json:"user"`
	Enrollment *model.Enrollment        `json:"enrollment,omitempty"`
	// Awarded is false when the milestone had been completed before.
	Awarded bool `json:"awarded"`
}

type ProgressService interface {
	CompleteMilestone(ctx context.Context, userID, milestoneID int64, xpEarned int) (*MilestoneCompletion, error)
	AddXP(ctx context.Context, userID int64, delta int) (*model.User, error)
	CompletedMilestoneIDs(ctx context.Context, userID, courseID int64) ([]int64, error)
	// ListMilestones never fails; store errors are logged and reported
	// through the Status field. When userID is set, each milestone carries
	// the user's completion and lock state.
	ListMilestones(ctx context.Context, courseID int64, userID *int64) MilestoneList
}

type progressService struct {
	tx             repository.TxManager
	milestoneRepo  repository.MilestoneRepository
	userRepo       repository.UserRepository
	enrollmentRepo repository.EnrollmentRepository
	now            func() time.Time
	logger         zerolog.Logger
}

func NewProgressService(
	tx repository.TxManager,
	milestoneRepo repository.MilestoneRepository,
	userRepo repository.UserRepository,
	enrollmentRepo repository.EnrollmentRepository,
	logger zerolog.Logger,
) ProgressService {
	return &progressService{
		tx:             tx,
		milestoneRepo:  milestoneRepo,
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		now:            time.Now,
		logger:         logger.With().Str("service", "ProgressService").Logger(),
	}
}

func (s *progressService) CompleteMilestone(ctx context.Context, userID, milestoneID int64, xpEarned int) (*MilestoneCompletion, error) {
	if xpEarned < 0 {
		return nil, fmt.Errorf("%w: xpEarned must not be negative", ErrValidation)
	}

	var out MilestoneCompletion
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.milestoneRepo.GetMilestoneByID(ctx, milestoneID)
		if err != nil {
			return fmt.Errorf("get milestone %d: %w", milestoneID, err)
		}
		if m == nil {
			return fmt.Errorf("milestone %d: %w", milestoneID, ErrNotFound)
		}
		user, err := s.userRepo.GetUserForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("get user %d: %w", userID, err)
		}
		if user == nil {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}

		milestones, err := s.milestoneRepo.ListMilestones(ctx, m.CourseID)
		if err != nil {
			return fmt.Errorf("list milestones: %w", err)
		}
		completedIDs, err := s.milestoneRepo.CompletedMilestoneIDs(ctx, userID, m.CourseID)
		if err != nil {
			return fmt.Errorf("list completed milestones: %w", err)
		}
		completed := toSet(completedIDs)
		if prev := predecessor(milestones, m); prev != nil && !completed[prev.ID] {
			return fmt.Errorf("%w: complete %q first", ErrMilestoneLocked, prev.Title)
		}

		if err := s.milestoneRepo.EnsureProgress(ctx, userID, milestoneID); err != nil {
			return fmt.Errorf("ensure progress: %w", err)
		}
		p, err := s.milestoneRepo.GetProgressForUpdate(ctx, userID, milestoneID)
		if err != nil {
			return fmt.Errorf("lock progress: %w", err)
		}
		if p == nil {
			return fmt.Errorf("progress of milestone %d: %w", milestoneID, ErrNotFound)
		}

		if !p.Completed {
			now := s.now()
			p.Completed = true
			p.CompletedAt = &now
			p.XPEarned = xpEarned
			if err := s.milestoneRepo.UpdateProgress(ctx, p); err != nil {
				return fmt.Errorf("update progress: %w", err)
			}
			user.AwardXP(xpEarned)
			user.AddBadge(m.Badge)
			if err := s.userRepo.UpdateUserProgress(ctx, user); err != nil {
				return fmt.Errorf("update user progress: %w", err)
			}
			completed[m.ID] = true
			out.Awarded = true
		}

		e, err := s.syncEnrollment(ctx, userID, m.CourseID, len(completed), len(milestones))
		if err != nil {
			return err
		}
		out.Progress, out.User, out.Enrollment = p, user, e
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Awarded {
		s.logger.Info().Int64("user_id", userID).Int64("milestone_id", milestoneID).Int("xp", xpEarned).Int("level", out.User.Level).Msg("Milestone completed")
	}
	return &out, nil
}

// syncEnrollment sets the course enrollment's progress to the share of
// completed milestones. It returns nil when the user is not enrolled.
func (s *progressService) syncEnrollment(ctx context.Context, userID, courseID int64, done, total int) (*model.Enrollment, error) {
	e, err := s.enrollmentRepo.GetEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if e == nil || e.Status == model.EnrollmentCancelled || total == 0 {
		return e, nil
	}
	progress := int(math.Round(float64(done) * 100 / float64(total)))
	if progress == e.Progress {
		return e, nil
	}
	setProgress(e, progress, s.now())
	if err := s.enrollmentRepo.UpdateEnrollment(ctx, e); err != nil {
		return nil, fmt.Errorf("update enrollment: %w", err)
	}
	return e, nil
}

func (s *progressService) AddXP(ctx context.Context, userID int64, delta int) (*model.User, error) {
	if delta < 0 {
		return nil, fmt.Errorf("%w: xp delta must not be negative", ErrValidation)
	}
	var user *model.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.userRepo.GetUserForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("get user %d: %w", userID, err)
		}
		if u == nil {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		u.AwardXP(delta)
		if err := s.userRepo.UpdateUserProgress(ctx, u); err != nil {
			return fmt.Errorf("update user progress: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *progressService) CompletedMilestoneIDs(ctx context.Context, userID, courseID int64) ([]int64, error) {
	ids, err := s.milestoneRepo.CompletedMilestoneIDs(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("list completed milestones: %w", err)
	}
	return ids, nil
}

func (s *progressService) ListMilestones(ctx context.Context, courseID int64, userID *int64) MilestoneList {
	milestones, err := s.milestoneRepo.ListMilestones(ctx, courseID)
	if err != nil {
		s.logger.Error().Err(err).Int64("course_id", courseID).Msg("Failed to list milestones")
		return MilestoneList{Milestones: []MilestoneView{}, Status: Unavailable}
	}

	completed := map[int64]bool{}
	if userID != nil {
		ids, err := s.milestoneRepo.CompletedMilestoneIDs(ctx, *userID, courseID)
		if err != nil {
			s.logger.Error().Err(err).Int64("course_id", courseID).Int64("user_id", *userID).Msg("Failed to list completed milestones")
			return MilestoneList{Milestones: []MilestoneView{}, Status: Unavailable}
		}
		completed = toSet(ids)
	}

	locked := model.MilestoneLocks(milestones, completed)
	views := make([]MilestoneView, len(milestones))
	for i, m := range milestones {
		views[i] = MilestoneView{Milestone: m, Completed: completed[m.ID], Locked: locked[i]}
	}
	return MilestoneList{Milestones: views, Status: Confirmed}
}

// predecessor returns the milestone right before m in its course, if any.
func predecessor(milestones []model.Milestone, m *model.Milestone) *model.Milestone {
	var prev *model.Milestone
	for i := range milestones {
		c := &milestones[i]
		if c.Position < m.Position && (prev == nil || c.Position > prev.Position) {
			prev = c
		}
	}
	return prev
}

func toSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
