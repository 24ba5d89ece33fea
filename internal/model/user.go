package model

import "time"

// XPPerLevel is the amount of experience separating two levels.
const XPPerLevel = 100

// User represents a registered learner
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"fullName"`
	PasswordHash string    `db:"password_hash" json:"-"`
	XP           int       `db:"xp" json:"xp"`
	Level        int       `db:"level" json:"level"`
	Badges       []string  `db:"badges" json:"badges"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// LevelForXP is the level a user holds with xp experience points.
func LevelForXP(xp int) int {
	return xp/XPPerLevel + 1
}

// AwardXP adds delta to the user's experience. The level is only re-derived
// from the absolute XP once the current level's threshold is crossed, so a
// large award can skip several levels at once.
func (u *User) AwardXP(delta int) {
	u.XP += delta
	if u.XP >= u.Level*XPPerLevel {
		u.Level = LevelForXP(u.XP)
	}
}

// AddBadge appends badge unless the user already holds it. It reports whether
// the badge was added.
func (u *User) AddBadge(badge string) bool {
	if badge == "" {
		return false
	}
	for _, b := range u.Badges {
		if b == badge {
			return false
		}
	}
	u.Badges = append(u.Badges, badge)
	return true
}
