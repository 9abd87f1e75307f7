package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-assignment-api/internal/auth"
	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEmailRequired = &ValidationError{
		Message: "email is required",
		Fields:  map[string]string{"email": "is required"},
	}
	ErrEmailTaken           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// UserService handles user registration and lookup.
type UserService struct {
	userRepo         repository.UserRepository
	allowAdminSignup bool
}

// NewUserService creates a new UserService. When allowAdminSignup is false,
// only an authenticated admin may register another admin through Register.
func NewUserService(userRepo repository.UserRepository, allowAdminSignup bool) *UserService {
	return &UserService{
		userRepo:         userRepo,
		allowAdminSignup: allowAdminSignup,
	}
}

// CreateUserInput represents the information needed to register a user.
type CreateUserInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// NormalizeEmail canonicalizes an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a regular user, or an admin when asAdmin is set and the
// caller is allowed to do so.
func (s *UserService) Register(actor auth.Identity, input CreateUserInput, asAdmin bool) (*models.User, error) {
	if !asAdmin {
		return s.CreateUser(input)
	}
	if !s.allowAdminSignup && !actor.CanCreateAdmins() {
		return nil, ErrAdminRequired
	}
	return s.CreateSuperuser(input)
}

// CreateUser creates a regular active user.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	return s.create(input, false)
}

// CreateSuperuser creates a user with admin, staff and superadmin flags set
// in the same insert.
func (s *UserService) CreateSuperuser(input CreateUserInput) (*models.User, error) {
	return s.create(input, true)
}

func (s *UserService) create(input CreateUserInput, admin bool) (*models.User, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	// An empty password leaves the account unable to log in.
	passwordHash := ""
	if input.Password != "" {
		hashed, err := auth.HashPassword(input.Password)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		passwordHash = hashed
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: passwordHash,
		IsActive:     true,
		IsAdmin:      admin,
		IsStaff:      admin,
		IsSuperadmin: admin,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Lost a race with a concurrent registration for the same email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
