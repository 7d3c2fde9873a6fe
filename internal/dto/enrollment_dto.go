package dto

import (
	"time"

	"github.com/noah-isme/unireg-go-api/internal/models"
)

// EnrollmentListRequest defines filters for the admin enrollment listing.
type EnrollmentListRequest struct {
	Page      int
	PageSize  int
	CourseID  *uint
	StudentID *uint
}

// EnrollmentUpdateRequest carries the admin final-grade update.
type EnrollmentUpdateRequest struct {
	FinalGrade *float64 `json:"final_grade" validate:"omitempty,gte=0,lte=100"`
}

// EnrollmentResponse serializes an enrollment.
type EnrollmentResponse struct {
	ID         uint            `json:"id"`
	CourseID   uint            `json:"course_id"`
	StudentID  uint            `json:"student_id"`
	FinalGrade *float64        `json:"final_grade"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Course     *CourseResponse `json:"course,omitempty"`
	Student    *UserResponse   `json:"student,omitempty"`
}

// NewEnrollmentResponse maps an enrollment model onto its response shape.
func NewEnrollmentResponse(enrollment models.Enrollment) EnrollmentResponse {
	response := EnrollmentResponse{
		ID:         enrollment.ID,
		CourseID:   enrollment.CourseID,
		StudentID:  enrollment.StudentID,
		FinalGrade: enrollment.FinalGrade,
		CreatedAt:  enrollment.CreatedAt,
		UpdatedAt:  enrollment.UpdatedAt,
	}

	if enrollment.Course.ID != 0 {
		course := NewCourseResponse(enrollment.Course)
		response.Course = &course
	}

	if enrollment.Student.ID != 0 {
		student := NewUserResponse(enrollment.Student)
		response.Student = &student
	}

	return response
}

// EnrollmentListResponse wraps a paginated enrollment listing.
type EnrollmentListResponse struct {
	Items      []EnrollmentResponse `json:"items"`
	Pagination PaginationMeta       `json:"pagination"`
}
