package models

import "time"

type Course struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Code        string  `json:"code" gorm:"uniqueIndex;not null;size:10"`
	Name        string  `json:"name" gorm:"not null"`
	Department  *string `json:"department,omitempty"`
	Description *string `json:"description,omitempty"`
	LecturerID  string  `json:"lecturer_id" gorm:"type:uuid;not null;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Lecturer User `json:"lecturer,omitempty" gorm:"foreignKey:LecturerID;constraint:OnDelete:CASCADE;"`
}

func (Course) TableName() string {
	return "courses"
}
