package model

import "time"

// Milestone is an ordered checkpoint of a course. Positions are unique within
// a course and define the unlock sequence.
type Milestone struct {
	ID            int64  `db:"id" json:"id"`
	CourseID      int64  `db:"course_id" json:"courseId"`
	Title         string `db:"title" json:"title"`
	Description   string `db:"description" json:"description"`
	Position      int    `db:"position" json:"order"`
	ShareableText string `db:"shareable_text" json:"shareableText"`
	Badge         string `db:"badge" json:"badge"`
}

// MilestoneProgress records a user's completion of one milestone.
type MilestoneProgress struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"userId"`
	MilestoneID int64      `db:"milestone_id" json:"milestoneId"`
	Completed   bool       `db:"completed" json:"completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	XPEarned    int        `db:"xp_earned" json:"xpEarned"`
}

// MilestoneLocks reports, for milestones sorted by position, which of them are
// locked: the first is always open and every other one opens once its
// predecessor is in completed.
func MilestoneLocks(milestones []Milestone, completed map[int64]bool) []bool {
	locked := make([]bool, len(milestones))
	for i := 1; i < len(milestones); i++ {
		locked[i] = !completed[milestones[i-1].ID]
	}
	return locked
}
