package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-todo/internal/domain/repository"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
	"github.com/oksasatya/go-ddd-todo/pkg/validation"
)

type UserService struct {
	Repo   repo.UserRepository
	Hasher PasswordHasher
	Tokens TokenIssuer
	Logger *logrus.Logger
}

func NewUserService(repo repo.UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Hasher: hasher, Tokens: tokens, Logger: logger}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,personname"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
}

// Register validates in, hashes the password and stores the user.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Email = entity.NormalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, ValidationError("Validation error", validation.ToDetails(err))
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, InternalError("User registration failed", err)
	}
	u := &entity.User{Name: in.Name, Email: in.Email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ConflictError("Email already exists")
		}
		s.logError(err, "create user failed", logrus.Fields{"email": in.Email})
		return nil, InternalError("User registration failed", err)
	}
	return u, nil
}

// Login checks the credentials and issues a bearer token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = entity.NormalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, ValidationError("Validation error", validation.ToDetails(err))
	}

	u, err := s.Repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFoundError("User not found")
		}
		return nil, InternalError("Login failed", err)
	}
	if !s.Hasher.Verify(in.Password, u.Password) {
		return nil, UnauthorizedError("Invalid password")
	}

	token, exp, err := s.Tokens.IssueToken(u.ID, u.Email)
	if err != nil || token == "" {
		s.logError(err, "issue token failed", logrus.Fields{"user_id": u.ID})
		return nil, InternalError("Token generation failed", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, UserID: u.ID}, nil
}

func (s *UserService) logError(err error, msg string, fields logrus.Fields) {
	helpers.LogError(s.Logger, msg, err, fields)
}
