package service

import (
	"context"
	"fmt"

	"cyberacademy/internal/mailer"
	"cyberacademy/internal/model"
	"cyberacademy/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ContactRequest is a message submitted through the contact form.
type ContactRequest struct {
	Name    string `validate:"required,max=200"`
	Email   string `validate:"required,email"`
	Message string `validate:"required,max=5000"`
}

type ContactService interface {
	Submit(ctx context.Context, req ContactRequest) (*model.ContactMessage, error)
}

type contactService struct {
	repo     repository.ContactRepository
	mailer   mailer.Mailer
	notifyTo string
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewContactService creates a ContactService. When notifyTo is empty no
// notification email is sent.
func NewContactService(repo repository.ContactRepository, m mailer.Mailer, notifyTo string, validate *validator.Validate, logger zerolog.Logger) ContactService {
	return &contactService{
		repo:     repo,
		mailer:   m,
		notifyTo: notifyTo,
		validate: validate,
		logger:   logger.With().Str("service", "ContactService").Logger(),
	}
}

func (s *contactService) Submit(ctx context.Context, req ContactRequest) (*model.ContactMessage, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msg := &model.ContactMessage{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := s.repo.CreateContactMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}

	if s.notifyTo != "" && s.mailer != nil {
		err := s.mailer.Send(ctx, mailer.Message{
			ToEmail: s.notifyTo,
			Subject: "New contact message from " + req.Name,
			Body:    fmt.Sprintf("From: %s <%s>\n\n%s", req.Name, req.Email, req.Message),
		})
		if err != nil {
			s.logger.Error().Err(err).Int64("message_id", msg.ID).Msg("Failed to send contact notification")
		}
	}
	return msg, nil
}
