package models

import "time"

// Assignment is a graded task belonging to a course.
type Assignment struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CourseID    uint         `gorm:"not null;index" json:"course_id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	DueAt       time.Time    `gorm:"not null" json:"due_at"`
	MaxPoints   int          `gorm:"not null" json:"max_points"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Course      Course       `json:"course,omitempty"`
	Submissions []Submission `json:"submissions,omitempty"`
}

// IsPastDue returns true when the deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueAt)
}
