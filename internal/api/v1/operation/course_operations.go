package operation

import (
	"cyberacademy/internal/api/v1/dto"
	"cyberacademy/internal/model"
)

type ListCoursesInput struct {
	Search     string `query:"search" doc:"Case-insensitive match on title or description"`
	Level      string `query:"level" doc:"Beginner, Intermediate, Advanced, Expert or all"`
	PriceRange string `query:"priceRange" doc:"0-10000, 10000-15000, 15000+ or all (INR)"`
	Page       int    `query:"page" minimum:"0" doc:"1-based page; 0 returns every match"`
	PageSize   int    `query:"pageSize" minimum:"0" maximum:"100" doc:"Defaults to 6"`
}

type ListCoursesOutput struct {
	Body dto.CourseListResponseDTO `json:"body"`
}

type ListFeaturedCoursesInput struct{}

type ListFeaturedCoursesOutput struct {
	Body []model.Course `json:"body"`
}

type GetCourseInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type GetCourseOutput struct {
	Body model.Course `json:"body"`
}

type GetCourseContentInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
	UserID   string `query:"userId" doc:"When set, the user must be enrolled"`
}

type GetCourseContentOutput struct {
	Body []model.CourseContent `json:"body"`
}

type ListCourseMilestonesInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
	UserID   string `query:"userId" doc:"Adds the user's completion and lock state"`
}

type ListCourseMilestonesOutput struct {
	Body dto.MilestoneListResponseDTO `json:"body"`
}
