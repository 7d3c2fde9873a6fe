package models

import "time"

// Submission is a student's answer to an assignment, identified by a content
// URL. The (assignment_id, student_id) pair is unique at the storage layer.
type Submission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"assignment_id"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"student_id"`
	ContentURL   string     `gorm:"size:512;not null" json:"content_url"`
	Score        *int       `json:"score"`
	GradedBy     *uint      `json:"graded_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Assignment   Assignment `json:"assignment,omitempty"`
	Student      User       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Grader       *User      `gorm:"foreignKey:GradedBy" json:"grader,omitempty"`
}

// IsGraded reports whether a score has been recorded. Once graded, every
// student-side edit is rejected; only the grade operation may touch the row.
func (s Submission) IsGraded() bool {
	return s.Score != nil
}
