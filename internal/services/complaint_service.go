package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/office-task-api/internal/models"
	"github.com/yukikurage/office-task-api/internal/repository"
)

var ErrComplaintTitleRequired = errors.New("complaint title is required")

// ComplaintService files and lists complaints. Complaints are never changed
// after they are filed.
type ComplaintService struct {
	complaintRepo repository.ComplaintRepository
	newID         IDSource
	now           func() time.Time
}

func NewComplaintService(complaintRepo repository.ComplaintRepository) *ComplaintService {
	return &ComplaintService{
		complaintRepo: complaintRepo,
		newID:         RandomRecordID,
		now:           time.Now,
	}
}

type CreateComplaintInput struct {
	Title       string
	Description string
	Category    string
	Department  string
	Urgency     string
	Priority    string
	DocumentURL *string
}

func (s *ComplaintService) List() ([]models.Complaint, error) {
	complaints, err := s.complaintRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

// Create files a complaint in the Open state
func (s *ComplaintService) Create(input CreateComplaintInput) (*models.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrComplaintTitleRequired
	}

	complaint := models.Complaint{
		Title:       title,
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		Department:  strings.TrimSpace(input.Department),
		Urgency:     strings.TrimSpace(input.Urgency),
		Priority:    strings.TrimSpace(input.Priority),
		Status:      models.ComplaintStatusOpen,
		DocumentURL: input.DocumentURL,
		CreatedAt:   s.now().UTC(),
	}

	if _, err := createWithUniqueID(s.newID, func(id int64) error {
		complaint.ID = id
		return s.complaintRepo.Create(&complaint)
	}); err != nil {
		if errors.Is(err, ErrIDSpaceExhausted) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}
	return &complaint, nil
}
