package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/office-task-api/internal/constants"
	"github.com/yukikurage/office-task-api/internal/models"
	"github.com/yukikurage/office-task-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameRequired     = errors.New("username and password are required")
	ErrInvalidRole          = errors.New("invalid role")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrLastDeputyDirector   = errors.New("cannot delete or demote the last deputy director account")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// UserService manages the user directory and login.
type UserService struct {
	userRepo repository.UserRepository
	ids      *userIDClock
	now      func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		ids:      &userIDClock{now: time.Now},
		now:      time.Now,
	}
}

// CreateUserInput represents the information needed to add a user.
type CreateUserInput struct {
	Username string
	Password string
	Role     models.Role
}

// UpdateUserInput holds the fields to change; nil and empty values are left alone.
type UpdateUserInput struct {
	Username *string
	Password *string
	Role     *models.Role
	Status   *string
}

// List returns every user in the directory.
func (s *UserService) List() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Create adds a user with a hashed password. Role defaults to officer.
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrUsernameRequired
	}

	role := input.Role
	if role == "" {
		role = models.RoleOfficer
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:  username,
		Password:  string(hashed),
		Role:      role,
		Status:    models.UserStatusActive,
		CreatedAt: s.now().UTC(),
	}

	// IDs can collide with records written by an earlier process.
	for attempt := 0; ; attempt++ {
		user.ID = s.ids.next()
		err = s.userRepo.Create(user)
		if !errors.Is(err, repository.ErrDuplicateID) || attempt+1 >= constants.MaxIDAttempts {
			break
		}
	}

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, repository.ErrDuplicateUsername):
		return nil, ErrUsernameTaken
	case errors.Is(err, repository.ErrDuplicateID):
		return nil, ErrIDSpaceExhausted
	default:
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
}

// Update changes the supplied fields of a user.
func (s *UserService) Update(id string, input UpdateUserInput) (*models.User, error) {
	if input.Role != nil && *input.Role != "" && !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	var hashed string
	if input.Password != nil && *input.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		hashed = string(b)
	}

	user, err := s.userRepo.Update(id, func(user *models.User, others []models.User) error {
		if input.Username != nil {
			if username := strings.TrimSpace(*input.Username); username != "" {
				user.Username = username
			}
		}
		if input.Role != nil && *input.Role != "" {
			if user.Role == models.RoleDeputyDirector && *input.Role != models.RoleDeputyDirector &&
				!hasDeputyDirector(others) {
				return ErrLastDeputyDirector
			}
			user.Role = *input.Role
		}
		if input.Status != nil && *input.Status != "" {
			user.Status = *input.Status
		}
		if hashed != "" {
			user.Password = hashed
		}
		now := s.now().UTC()
		user.UpdatedAt = &now
		return nil
	})
	if err != nil {
		return nil, translateUserError(err)
	}
	return user, nil
}

// Delete removes a user unless it is the last deputy director.
func (s *UserService) Delete(id string) error {
	err := s.userRepo.Delete(id, func(user *models.User, others []models.User) error {
		if user.Role == models.RoleDeputyDirector && !hasDeputyDirector(others) {
			return ErrLastDeputyDirector
		}
		return nil
	})
	if err != nil {
		return translateUserError(err)
	}
	return nil
}

// Login verifies credentials and returns the authenticated user.
// Unknown usernames and wrong passwords are reported the same way.
func (s *UserService) Login(username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// SeniorOfficers returns the users who can receive delegated work from a deputy director.
func (s *UserService) SeniorOfficers() ([]models.User, error) {
	return s.filter(func(u models.User) bool {
		return u.Role == models.RoleSeniorOfficer || u.Role == models.RolePrincipalOfficer
	})
}

// Officers returns every user below deputy director.
func (s *UserService) Officers() ([]models.User, error) {
	return s.filter(func(u models.User) bool {
		return u.Role != models.RoleDeputyDirector
	})
}

// Roles returns the fixed role list.
func (s *UserService) Roles() []models.Role {
	roles := make([]models.Role, len(models.Roles))
	copy(roles, models.Roles)
	return roles
}

// EnsureBootstrapAdmin creates a deputy director when the directory has none.
// It does nothing without a password.
func (s *UserService) EnsureBootstrapAdmin(username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, nil
	}

	users, err := s.List()
	if err != nil {
		return nil, err
	}
	if hasDeputyDirector(users) {
		return nil, nil
	}

	return s.Create(CreateUserInput{
		Username: username,
		Password: password,
		Role:     models.RoleDeputyDirector,
	})
}

func (s *UserService) filter(keep func(models.User) bool) ([]models.User, error) {
	users, err := s.List()
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

func hasDeputyDirector(users []models.User) bool {
	for _, u := range users {
		if u.Role == models.RoleDeputyDirector {
			return true
		}
	}
	return false
}

func translateUserError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicateUsername):
		return ErrUsernameTaken
	case errors.Is(err, ErrLastDeputyDirector):
		return ErrLastDeputyDirector
	default:
		return fmt.Errorf("failed to save user: %w", err)
	}
}
