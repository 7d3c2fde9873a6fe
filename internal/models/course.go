package models

import "time"

// Course is a unit of study taught by an instructor.
type Course struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Title        string       `gorm:"size:255;not null" json:"title"`
	Code         string       `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Description  string       `gorm:"type:text" json:"description"`
	InstructorID uint         `gorm:"not null" json:"instructor_id"`
	IsActive     bool         `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Instructor   User         `gorm:"foreignKey:InstructorID" json:"instructor"`
	Enrollments  []Enrollment `json:"enrollments,omitempty"`
	Assignments  []Assignment `json:"assignments,omitempty"`
}
