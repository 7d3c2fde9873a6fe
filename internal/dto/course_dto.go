package dto

import (
	"time"

	"github.com/noah-isme/unireg-go-api/internal/models"
)

// CourseCreateRequest carries the course creation payload.
type CourseCreateRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	Code         string `json:"code" validate:"required,max=32"`
	Description  string `json:"description" validate:"omitempty"`
	InstructorID uint   `json:"instructor_id" validate:"required"`
}

// CourseUpdateRequest carries a partial course update. Nil fields are untouched.
type CourseUpdateRequest struct {
	Title        *string `json:"title" validate:"omitempty,max=255"`
	Code         *string `json:"code" validate:"omitempty,max=32"`
	Description  *string `json:"description" validate:"omitempty"`
	InstructorID *uint   `json:"instructor_id" validate:"omitempty"`
	IsActive     *bool   `json:"is_active"`
}

// CourseResponse serializes a course.
type CourseResponse struct {
	ID           uint          `json:"id"`
	Title        string        `json:"title"`
	Code         string        `json:"code"`
	Description  string        `json:"description"`
	InstructorID uint          `json:"instructor_id"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Instructor   *UserResponse `json:"instructor,omitempty"`
}

// NewCourseResponse maps a course model onto its response shape.
func NewCourseResponse(course models.Course) CourseResponse {
	response := CourseResponse{
		ID:           course.ID,
		Title:        course.Title,
		Code:         course.Code,
		Description:  course.Description,
		InstructorID: course.InstructorID,
		IsActive:     course.IsActive,
		CreatedAt:    course.CreatedAt,
		UpdatedAt:    course.UpdatedAt,
	}

	if course.Instructor.ID != 0 {
		instructor := NewUserResponse(course.Instructor)
		response.Instructor = &instructor
	}

	return response
}

// CourseDetailResponse extends the course shape with related records.
type CourseDetailResponse struct {
	CourseResponse
	Assignments []AssignmentResponse `json:"assignments"`
	Enrollments []EnrollmentResponse `json:"enrollments"`
}

// NewCourseDetailResponse maps a preloaded course onto the detailed shape.
func NewCourseDetailResponse(course models.Course) CourseDetailResponse {
	detail := CourseDetailResponse{
		CourseResponse: NewCourseResponse(course),
		Assignments:    make([]AssignmentResponse, 0, len(course.Assignments)),
		Enrollments:    make([]EnrollmentResponse, 0, len(course.Enrollments)),
	}

	for _, assignment := range course.Assignments {
		detail.Assignments = append(detail.Assignments, NewAssignmentResponse(assignment))
	}

	for _, enrollment := range course.Enrollments {
		detail.Enrollments = append(detail.Enrollments, NewEnrollmentResponse(enrollment))
	}

	return detail
}
