package repository

import (
	"github.com/yukikurage/office-task-api/internal/models"
	"gorm.io/gorm"
)

// GormComplaintRepository is a GORM implementation of ComplaintRepository
type GormComplaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates a new ComplaintRepository
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &GormComplaintRepository{db: db}
}

// List returns all complaints, oldest first
func (r *GormComplaintRepository) List() ([]models.Complaint, error) {
	complaints := []models.Complaint{}
	if err := r.db.Order("created_at ASC").Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

// Create inserts a complaint unless its ID is already taken
func (r *GormComplaintRepository) Create(complaint *models.Complaint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Complaint{}).Where("id = ?", complaint.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateID
		}
		return tx.Create(complaint).Error
	})
}
