package repository

import (
	"errors"

	"github.com/yukikurage/office-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// List returns all tasks ordered by assignment time
func (r *GormTaskRepository) List() ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.db.Order("assigned_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id int64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// Create inserts a task unless its ID is already taken
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateID
		}
		return tx.Create(task).Error
	})
}

// Update locks the task row, applies mutate and saves it
func (r *GormTaskRepository) Update(id int64, mutate func(task *models.Task) error) (*models.Task, error) {
	var task models.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, id).Error; err != nil {
			return translateError(err)
		}
		if err := mutate(&task); err != nil {
			return err
		}
		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task
func (r *GormTaskRepository) Delete(id int64) error {
	result := r.db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// NewGormSet returns the GORM repositories sharing db.
func NewGormSet(db *gorm.DB) Set {
	return Set{
		Tasks:      NewTaskRepository(db),
		Users:      NewUserRepository(db),
		Complaints: NewComplaintRepository(db),
	}
}
