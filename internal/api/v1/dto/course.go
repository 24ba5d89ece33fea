package dto

import "cyberacademy/internal/model"

type CourseListResponseDTO struct {
	Courses    []model.Course `json:"courses"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type EnrollRequestDTO struct {
	UserID int64 `json:"userId" minimum:"1" doc:"Enrolling user"`
}

type EnrollmentStatusResponseDTO struct {
	IsEnrolled bool `json:"isEnrolled"`
	// Status is "confirmed" when IsEnrolled reflects the store and "unknown"
	// when the lookup failed or the user id was malformed.
	Status string `json:"status" enum:"confirmed,unknown"`
}

type MilestoneListResponseDTO struct {
	Milestones []MilestoneDTO `json:"milestones"`
	Status     string         `json:"status" enum:"confirmed,unavailable"`
}

type MilestoneDTO struct {
	ID            int64  `json:"id"`
	CourseID      int64  `json:"courseId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Order         int    `json:"order"`
	ShareableText string `json:"shareableText"`
	Badge         string `json:"badge"`
	Completed     bool   `json:"completed"`
	Locked        bool   `json:"locked"`
}
