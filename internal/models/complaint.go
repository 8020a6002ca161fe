package models

import "time"

const ComplaintStatusOpen = "Open"

type Complaint struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(100)" json:"category,omitempty"`
	Department  string    `gorm:"type:varchar(100)" json:"department,omitempty"`
	Urgency     string    `gorm:"type:varchar(50)" json:"urgency,omitempty"`
	Priority    string    `gorm:"type:varchar(50)" json:"priority,omitempty"`
	Status      string    `gorm:"type:varchar(20);not null" json:"status"`
	DocumentURL *string   `gorm:"type:varchar(512)" json:"documentUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecordID implements the flat-file collection contract.
func (c Complaint) RecordID() int64 {
	return c.ID
}
