package handler

import (
	"context"

	"cyberacademy/internal/api/v1/operation"
	"cyberacademy/internal/model"
	"cyberacademy/internal/service"

	"github.com/rs/zerolog"
)

type BlogHandler struct {
	blog    service.BlogService
	users   service.UserService
	contact service.ContactService
	logger  zerolog.Logger
}

func NewBlogHandler(blog service.BlogService, users service.UserService, contact service.ContactService, logger zerolog.Logger) *BlogHandler {
	return &BlogHandler{blog: blog, users: users, contact: contact, logger: logger}
}

func (h *BlogHandler) ListPosts(ctx context.Context, input *operation.ListBlogPostsInput) (*operation.BlogPostsOutput, error) {
	posts, err := h.blog.List(ctx)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to list blog posts")
	}
	return &operation.BlogPostsOutput{Body: posts}, nil
}

func (h *BlogHandler) RecentPosts(ctx context.Context, input *operation.RecentBlogPostsInput) (*operation.BlogPostsOutput, error) {
	posts, err := h.blog.Recent(ctx, input.Limit)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to list recent blog posts")
	}
	return &operation.BlogPostsOutput{Body: posts}, nil
}

func (h *BlogHandler) GetPost(ctx context.Context, input *operation.GetBlogPostInput) (*operation.BlogPostOutput, error) {
	postID, err := parseID("post id", input.PostID)
	if err != nil {
		return nil, err
	}
	post, err := h.blog.Get(ctx, postID)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to get blog post")
	}
	return &operation.BlogPostOutput{Body: post}, nil
}

// CreatePost publishes a post. Without an explicit author the post is
// credited to the authenticated user.
func (h *BlogHandler) CreatePost(ctx context.Context, input *operation.CreateBlogPostInput) (*operation.BlogPostOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	author := input.Body.Author
	if author == "" {
		user, err := h.users.Get(ctx, userID)
		if err != nil {
			return nil, toHTTPError(h.logger, err, "Failed to get author")
		}
		author = user.FullName
		if author == "" {
			author = user.Username
		}
	}

	post, err := h.blog.Create(ctx, &model.BlogPost{
		Title:     input.Body.Title,
		Content:   input.Body.Content,
		Author:    author,
		ImagePath: input.Body.ImagePath,
	})
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to create blog post")
	}
	return &operation.BlogPostOutput{Body: post}, nil
}

func (h *BlogHandler) SubmitContact(ctx context.Context, input *operation.SubmitContactInput) (*operation.SubmitContactOutput, error) {
	msg, err := h.contact.Submit(ctx, service.ContactRequest{
		Name:    input.Body.Name,
		Email:   input.Body.Email,
		Message: input.Body.Message,
	})
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to submit contact message")
	}
	return &operation.SubmitContactOutput{Body: msg}, nil
}
