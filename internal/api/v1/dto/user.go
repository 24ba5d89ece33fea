package dto

import (
	"time"

	"cyberacademy/internal/model"
)

type RegisterRequestDTO struct {
	Username string `json:"username" minLength:"3" maxLength:"50"`
	Email    string `json:"email" format:"email"`
	Password string `json:"password" minLength:"8" maxLength:"72"`
	FullName string `json:"fullName,omitempty" maxLength:"200"`
}

type LoginRequestDTO struct {
	Username string `json:"username" minLength:"1"`
	Password string `json:"password" minLength:"1"`
}

type LoginResponseDTO struct {
	Token string          `json:"token"`
	User  UserResponseDTO `json:"user"`
}

type UserResponseDTO struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	XP        int       `json:"xp"`
	Level     int       `json:"level"`
	Badges    []string  `json:"badges"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserResponse(u *model.User) UserResponseDTO {
	badges := u.Badges
	if badges == nil {
		badges = []string{}
	}
	return UserResponseDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		XP:        u.XP,
		Level:     u.Level,
		Badges:    badges,
		CreatedAt: u.CreatedAt,
	}
}

type UserProgressResponseDTO struct {
	XP     int      `json:"xp"`
	Level  int      `json:"level"`
	Badges []string `json:"badges"`
}

type CompleteMilestoneRequestDTO struct {
	XPEarned *int `json:"xpEarned,omitempty" minimum:"0" doc:"Defaults to 10"`
}

type CompleteMilestoneResponseDTO struct {
	Progress   *model.MilestoneProgress `json:"progress"`
	User       UserResponseDTO          `json:"user"`
	Enrollment *model.Enrollment        `json:"enrollment,omitempty"`
}
