package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/task-assignment-api/internal/auth"
	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrCredentialsMissing = &ValidationError{
		Message: "email and password are required",
		Fields:  map[string]string{"email": "is required", "password": "is required"},
	}
)

// TokenPair is the result of a successful login.
type TokenPair struct {
	Access           string
	Refresh          string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenService issues tokens and resolves bearer tokens into identities.
type TokenService struct {
	userRepo repository.UserRepository
	jwt      *auth.JWTManager
}

// NewTokenService creates a new TokenService
func NewTokenService(userRepo repository.UserRepository, jwt *auth.JWTManager) *TokenService {
	return &TokenService{
		userRepo: userRepo,
		jwt:      jwt,
	}
}

// Obtain checks the credentials and issues an access/refresh pair.
func (s *TokenService) Obtain(email, password string) (*TokenPair, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsMissing
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	access, accessExp, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, refreshExp, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		Access:           access,
		Refresh:          refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *TokenService) Refresh(refreshToken string) (string, time.Time, error) {
	claims, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", time.Time{}, ErrInvalidToken
	}

	user, err := s.activeUser(claims)
	if err != nil {
		return "", time.Time{}, err
	}

	access, exp, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return access, exp, nil
}

// Authenticate resolves an access token into the identity of a currently
// active user.
func (s *TokenService) Authenticate(accessToken string) (auth.Identity, error) {
	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return auth.Anonymous, ErrInvalidToken
	}

	user, err := s.activeUser(claims)
	if err != nil {
		return auth.Anonymous, err
	}

	return auth.IdentityFromUser(user), nil
}

func (s *TokenService) activeUser(claims *auth.Claims) (*models.User, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}
	return user, nil
}
