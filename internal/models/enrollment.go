package models

import "time"

// Enrollment links a student to a course. The (course_id, student_id) pair is
// unique at the storage layer so duplicate enrollment attempts fail on insert.
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CourseID   uint      `gorm:"not null;uniqueIndex:idx_enrollment_course_student" json:"course_id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_course_student" json:"student_id"`
	FinalGrade *float64  `json:"final_grade"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Course     Course    `json:"course"`
	Student    User      `gorm:"foreignKey:StudentID" json:"student"`
}
