package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cyberacademy/internal/model"
	"cyberacademy/internal/repository"
	"cyberacademy/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// RegisterRequest carries the fields of a new account.
type RegisterRequest struct {
	Username string `validate:"required,min=3,max=50,alphanum"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
	FullName string `validate:"max=200"`
}

// UserProgress is the gamification summary of a user.
type UserProgress struct {
	XP     int      `json:"xp"`
	Level  int      `json:"level"`
	Badges []string `json:"badges"`
}

type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, error)
	// Login returns a signed token for valid credentials.
	Login(ctx context.Context, username, password string) (string, *model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	Progress(ctx context.Context, id int64) (*UserProgress, error)
}

type userService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	validate  *validator.Validate
	logger    zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, jwtSecret string, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		validate:  validate,
		logger:    logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Level:        1,
		Badges:       []string{},
	}
	if err := s.userRepo.CreateUser(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info().Int64("user_id", u.ID).Msg("User registered")
	return u, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	u, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := util.IssueJWT(u.ID, u.Username, s.jwtSecret, tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if u == nil {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return u, nil
}

func (s *userService) Progress(ctx context.Context, id int64) (*UserProgress, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	badges := u.Badges
	if badges == nil {
		badges = []string{}
	}
	return &UserProgress{XP: u.XP, Level: u.Level, Badges: badges}, nil
}
