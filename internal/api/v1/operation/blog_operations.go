package operation

import (
	"cyberacademy/internal/api/v1/dto"
	"cyberacademy/internal/model"
)

type ListBlogPostsInput struct{}

type RecentBlogPostsInput struct {
	Limit int `query:"limit" minimum:"0" maximum:"50" doc:"Defaults to 3"`
}

type BlogPostsOutput struct {
	Body []model.BlogPost `json:"body"`
}

type GetBlogPostInput struct {
	PostID string `path:"postId" doc:"Blog post ID"`
}

type BlogPostOutput struct {
	Body *model.BlogPost `json:"body"`
}

type CreateBlogPostInput struct {
	Body dto.BlogPostCreateDTO `json:"body"`
}

type SubmitContactInput struct {
	Body dto.ContactRequestDTO `json:"body"`
}

type SubmitContactOutput struct {
	Body *model.ContactMessage `json:"body"`
}
