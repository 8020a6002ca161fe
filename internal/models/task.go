package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusAssigned  TaskStatus = "Assigned"
	TaskStatusPending   TaskStatus = "Pending"
	TaskStatusNotDone   TaskStatus = "Not Done"
	TaskStatusCompleted TaskStatus = "Completed"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusAssigned, TaskStatusPending, TaskStatusNotDone, TaskStatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID                    int64       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name                  string      `gorm:"type:varchar(255);not null" json:"name"`
	Description           string      `gorm:"type:text" json:"description"`
	Status                TaskStatus  `gorm:"type:varchar(20);not null;default:'Assigned'" json:"status"`
	AssignedOfficers      OfficerList `gorm:"type:text;serializer:json" json:"assignedOfficer"`
	Deadline              string      `gorm:"type:varchar(10)" json:"deadline,omitempty"`
	Link                  string      `gorm:"type:varchar(2048)" json:"link,omitempty"`
	DocumentURL           *string     `gorm:"type:varchar(512)" json:"documentUrl"`
	CompletionDocumentURL *string     `gorm:"type:varchar(512)" json:"completionDocumentUrl,omitempty"`
	Content               string      `gorm:"type:text" json:"content"`
	Progress              int         `gorm:"not null;default:0" json:"progress"`
	AssignedAt            time.Time   `json:"assignedAt"`
}

// RecordID implements the flat-file collection contract.
func (t Task) RecordID() int64 {
	return t.ID
}
