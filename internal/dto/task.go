package dto

import (
	"strings"
	"time"

	"github.com/yukikurage/office-task-api/internal/models"
)

// TaskDTO represents a task in API responses. AssignedOfficer is the display
// string of the resolved officers; AssignedOfficers keeps them as a list.
type TaskDTO struct {
	ID                    int64             `json:"id"`
	Name                  string            `json:"name"`
	Description           string            `json:"description"`
	Status                models.TaskStatus `json:"status"`
	AssignedOfficer       string            `json:"assignedOfficer"`
	AssignedOfficers      []string          `json:"assignedOfficers"`
	Deadline              string            `json:"deadline,omitempty"`
	Link                  string            `json:"link,omitempty"`
	DocumentURL           *string           `json:"documentUrl"`
	CompletionDocumentURL *string           `json:"completionDocumentUrl,omitempty"`
	Content               string            `json:"content"`
	Progress              int               `json:"progress"`
	AssignedAt            time.Time         `json:"assignedAt"`
}

// ComplaintDTO represents a complaint in API responses
type ComplaintDTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Department  string    `json:"department,omitempty"`
	Urgency     string    `json:"urgency,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	Status      string    `json:"status"`
	DocumentURL *string   `json:"documentUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Conversion functions

// ToTaskDTO converts a Task model and its resolved officer names to TaskDTO
func ToTaskDTO(task models.Task, officers []string) TaskDTO {
	if officers == nil {
		officers = []string{}
	}
	return TaskDTO{
		ID:                    task.ID,
		Name:                  task.Name,
		Description:           task.Description,
		Status:                task.Status,
		AssignedOfficer:       strings.Join(officers, ", "),
		AssignedOfficers:      officers,
		Deadline:              task.Deadline,
		Link:                  task.Link,
		DocumentURL:           task.DocumentURL,
		CompletionDocumentURL: task.CompletionDocumentURL,
		Content:               task.Content,
		Progress:              task.Progress,
		AssignedAt:            task.AssignedAt,
	}
}

// ToComplaintDTO converts a Complaint model to ComplaintDTO
func ToComplaintDTO(complaint models.Complaint) ComplaintDTO {
	return ComplaintDTO{
		ID:          complaint.ID,
		Title:       complaint.Title,
		Description: complaint.Description,
		Category:    complaint.Category,
		Department:  complaint.Department,
		Urgency:     complaint.Urgency,
		Priority:    complaint.Priority,
		Status:      complaint.Status,
		DocumentURL: complaint.DocumentURL,
		CreatedAt:   complaint.CreatedAt,
	}
}

// ToComplaintDTOs converts a list of complaints
func ToComplaintDTOs(complaints []models.Complaint) []ComplaintDTO {
	dtos := make([]ComplaintDTO, 0, len(complaints))
	for _, complaint := range complaints {
		dtos = append(dtos, ToComplaintDTO(complaint))
	}
	return dtos
}
