package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(99))
	assert.Equal(t, 2, LevelForXP(100))
	assert.Equal(t, 3, LevelForXP(250))
}

func TestAwardXP(t *testing.T) {
	tests := []struct {
		name      string
		xp, level int
		delta     int
		wantXP    int
		wantLevel int
	}{
		{"below threshold", 10, 1, 20, 30, 1},
		{"crosses threshold", 90, 1, 20, 110, 2},
		{"skips levels", 50, 1, 300, 350, 4},
		{"exactly on threshold", 80, 1, 20, 100, 2},
		{"zero delta", 150, 2, 0, 150, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{XP: tt.xp, Level: tt.level}
			u.AwardXP(tt.delta)
			assert.Equal(t, tt.wantXP, u.XP)
			assert.Equal(t, tt.wantLevel, u.Level)
		})
	}
}

func TestAwardXPNeverDecreases(t *testing.T) {
	u := User{XP: 0, Level: 1}
	for i := 0; i < 50; i++ {
		prevXP, prevLevel := u.XP, u.Level
		u.AwardXP(i * 7)
		assert.GreaterOrEqual(t, u.XP, prevXP)
		assert.GreaterOrEqual(t, u.Level, prevLevel)
	}
}

func TestAddBadge(t *testing.T) {
	u := User{}
	assert.True(t, u.AddBadge("recon"))
	assert.False(t, u.AddBadge("recon"))
	assert.False(t, u.AddBadge(""))
	assert.Equal(t, []string{"recon"}, u.Badges)
}

func TestEnrollmentTransitions(t *testing.T) {
	assert.True(t, EnrollmentActive.CanTransitionTo(EnrollmentCompleted))
	assert.True(t, EnrollmentActive.CanTransitionTo(EnrollmentCancelled))
	assert.True(t, EnrollmentCompleted.CanTransitionTo(EnrollmentCompleted))
	assert.False(t, EnrollmentCompleted.CanTransitionTo(EnrollmentActive))
	assert.False(t, EnrollmentCancelled.CanTransitionTo(EnrollmentCompleted))

	_, err := ParseEnrollmentStatus("paused")
	assert.Error(t, err)
}

func TestMilestoneLocks(t *testing.T) {
	ms := []Milestone{{ID: 1}, {ID: 2}, {ID: 3}}
	assert.Equal(t, []bool{false, true, true}, MilestoneLocks(ms, nil))
	assert.Equal(t, []bool{false, false, true}, MilestoneLocks(ms, map[int64]bool{1: true}))
	assert.Equal(t, []bool{false, true, false}, MilestoneLocks(ms, map[int64]bool{2: true}))
}
