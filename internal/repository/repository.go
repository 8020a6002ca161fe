package repository

import (
	"errors"

	"github.com/yukikurage/office-task-api/internal/models"
)

var (
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned by Create when a record with the same ID exists.
	ErrDuplicateID = errors.New("record id already exists")
	// ErrDuplicateUsername is returned when a username is taken, ignoring case.
	ErrDuplicateUsername = errors.New("username already exists")
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// List returns every task in storage order
	List() ([]models.Task, error)

	// FindByID finds a task by ID
	FindByID(id int64) (*models.Task, error)

	// Create stores a new task; ErrDuplicateID when the ID is in use
	Create(task *models.Task) error

	// Update applies mutate to the stored task atomically and returns the result
	Update(id int64, mutate func(task *models.Task) error) (*models.Task, error)

	// Delete removes a task; ErrNotFound when it does not exist
	Delete(id int64) error
}

// ComplaintRepository defines the interface for complaint data access.
// Complaints are write-once.
type ComplaintRepository interface {
	List() ([]models.Complaint, error)
	Create(complaint *models.Complaint) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// List returns every user
	List() ([]models.User, error)

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByUsername finds a user by username, ignoring case
	FindByUsername(username string) (*models.User, error)

	// Create stores a new user; ErrDuplicateID or ErrDuplicateUsername on conflict
	Create(user *models.User) error

	// Update applies mutate atomically. mutate receives the other users so
	// cross-record rules (unique usernames) are checked against a consistent view.
	Update(id string, mutate func(user *models.User, others []models.User) error) (*models.User, error)

	// Delete removes a user after guard approves it against the other users
	Delete(id string, guard func(user *models.User, others []models.User) error) error
}

// Set bundles the repositories of one storage backend.
type Set struct {
	Tasks      TaskRepository
	Users      UserRepository
	Complaints ComplaintRepository
}
