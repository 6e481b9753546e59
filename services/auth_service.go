package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/maxesports/esports-hub/models"
	"github.com/maxesports/esports-hub/repositories"
)

const sessionTTL = 7 * 24 * time.Hour

// AuthService establishes and resolves admin sessions. Only the session
// token leaves this package; everything downstream consumes claims from the
// auth middleware and never sees a password hash.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (*models.User, string, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	EnsureAdmin(ctx context.Context, email, name, password string) error
}

type authService struct {
	userRepo repositories.UserRepository
	secret   []byte
	now      func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, secret string) AuthService {
	return &authService{
		userRepo: userRepo,
		secret:   []byte(secret),
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.mintToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return user, token, nil
}

func (s *authService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the admin account on first boot. An existing account
// with the same email is left untouched.
func (s *authService) EnsureAdmin(ctx context.Context, email, name, password string) error {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil // raced with another boot, account exists
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	return nil
}

func (s *authService) mintToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
		"iat":      now.Unix(),
		"exp":      now.Add(sessionTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
