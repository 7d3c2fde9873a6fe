package dto

import (
	"time"

	"github.com/noah-isme/unireg-go-api/internal/models"
)

// AssignmentCreateRequest carries the assignment creation payload.
type AssignmentCreateRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description" validate:"required"`
	DueAt       time.Time `json:"due_at" validate:"required"`
	MaxPoints   int       `json:"max_points" validate:"required,gte=1"`
}

// AssignmentUpdateRequest carries a partial assignment update. Nil fields are untouched.
type AssignmentUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Description *string    `json:"description" validate:"omitempty"`
	DueAt       *time.Time `json:"due_at"`
	MaxPoints   *int       `json:"max_points" validate:"omitempty,gte=1"`
}

// AssignmentResponse serializes an assignment.
type AssignmentResponse struct {
	ID          uint            `json:"id"`
	CourseID    uint            `json:"course_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueAt       time.Time       `json:"due_at"`
	MaxPoints   int             `json:"max_points"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Course      *CourseResponse `json:"course,omitempty"`
}

// NewAssignmentResponse maps an assignment model onto its response shape.
func NewAssignmentResponse(assignment models.Assignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:          assignment.ID,
		CourseID:    assignment.CourseID,
		Title:       assignment.Title,
		Description: assignment.Description,
		DueAt:       assignment.DueAt,
		MaxPoints:   assignment.MaxPoints,
		CreatedAt:   assignment.CreatedAt,
		UpdatedAt:   assignment.UpdatedAt,
	}

	if assignment.Course.ID != 0 {
		course := NewCourseResponse(assignment.Course)
		response.Course = &course
	}

	return response
}
