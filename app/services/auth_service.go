package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/bookstore/app/models"
	"github.com/shashiranjanraj/bookstore/app/repositories"
	"github.com/shashiranjanraj/bookstore/pkg/auth"
	"gorm.io/gorm"
)

// TokenIssuer is satisfied by *auth.Issuer.
type TokenIssuer interface {
	Issue(userID uint, role string) (string, error)
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthService struct {
	users  *repositories.UserRepository
	tokens TokenIssuer
}

func NewAuthService(db *gorm.DB, tokens TokenIssuer) *AuthService {
	return &AuthService{users: repositories.NewUserRepository(db), tokens: tokens}
}

// Register creates a customer account and signs the user in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Name: in.Name, Email: email, Password: hash, Role: models.RoleCustomer}
	if err := s.users.Create(ctx, &user); err != nil {
		// A concurrent registration of the same email loses on the unique index.
		if _, lookupErr := s.users.FindByEmail(ctx, email); lookupErr == nil {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.signIn(&user)
}

// Login verifies the credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.signIn(user)
}

func (s *AuthService) signIn(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{
		Token: token,
		User:  UserSummary{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
	}, nil
}
