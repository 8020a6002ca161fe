package repository

import (
	"strings"

	"github.com/yukikurage/office-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// List returns all users, oldest first
func (r *GormUserRepository) List() ([]models.User, error) {
	users := []models.User{}
	if err := r.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByUsername finds a user by username, ignoring case
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("LOWER(username) = ?", strings.ToLower(username)).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// Create inserts a user after checking ID and username uniqueness in one transaction
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateID
		}

		if err := tx.Model(&models.User{}).
			Where("LOWER(username) = ?", strings.ToLower(user.Username)).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateUsername
		}

		return tx.Create(user).Error
	})
}

// Update locks the user table rows, applies mutate and saves the user
func (r *GormUserRepository) Update(id string, mutate func(user *models.User, others []models.User) error) (*models.User, error) {
	var user models.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		others, target, err := lockUsers(tx, id)
		if err != nil {
			return err
		}
		user = *target

		if err := mutate(&user, others); err != nil {
			return err
		}
		if usernameTaken(others, user.Username) {
			return ErrDuplicateUsername
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user if guard allows it
func (r *GormUserRepository) Delete(id string, guard func(user *models.User, others []models.User) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		others, target, err := lockUsers(tx, id)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(target, others); err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&models.User{}).Error
	})
}

// lockUsers loads every user with a row lock and splits out the one with id.
func lockUsers(tx *gorm.DB, id string) ([]models.User, *models.User, error) {
	var users []models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, nil, err
	}

	for i := range users {
		if users[i].ID == id {
			return without(users, i), &users[i], nil
		}
	}
	return nil, nil, ErrNotFound
}
