package models

import (
	"time"
)

type Role string

const (
	RoleDeputyDirector   Role = "deputyDirector"
	RolePrincipalOfficer Role = "principalOfficer"
	RoleSeniorOfficer    Role = "seniorOfficer"
	RoleOfficer          Role = "officer"
)

// Roles lists every role, most senior first.
var Roles = []Role{RoleDeputyDirector, RolePrincipalOfficer, RoleSeniorOfficer, RoleOfficer}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

const (
	UserStatusActive = "active"
)

type User struct {
	ID        string     `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Username  string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password  string     `gorm:"type:varchar(255);not null" json:"password"`
	Role      Role       `gorm:"type:varchar(32);not null" json:"role"`
	Status    string     `gorm:"type:varchar(32);not null" json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
}

// RecordID implements the flat-file collection contract.
func (u User) RecordID() string {
	return u.ID
}
