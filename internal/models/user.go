package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(100)" json:"name"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"type:varchar(20)" json:"phone"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	DateJoined   time.Time `gorm:"autoCreateTime" json:"date_joined"`
	UpdatedDate  time.Time `gorm:"autoUpdateTime" json:"updated_date"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	IsSuperadmin bool      `gorm:"not null;default:false" json:"is_superadmin"`

	// Relations
	Assignments []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
}
