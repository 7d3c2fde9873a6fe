package dto

import (
	"time"

	"github.com/noah-isme/unireg-go-api/internal/models"
)

// SubmissionCreateRequest carries the student submission payload.
type SubmissionCreateRequest struct {
	ContentURL string `json:"content_url" validate:"required,url,max=512"`
}

// SubmissionUpdateRequest carries a student edit of an ungraded submission.
type SubmissionUpdateRequest struct {
	ContentURL string `json:"content_url" validate:"required,url,max=512"`
}

// GradeSubmissionRequest carries the grading payload.
type GradeSubmissionRequest struct {
	Score *int `json:"score" validate:"required,gte=0"`
}

// SubmissionListRequest defines filters for the instructor submission listing.
type SubmissionListRequest struct {
	AssignmentID *uint
	StudentID    *uint
	Graded       *bool
}

// SubmissionResponse serializes a submission.
type SubmissionResponse struct {
	ID           uint                `json:"id"`
	AssignmentID uint                `json:"assignment_id"`
	StudentID    uint                `json:"student_id"`
	ContentURL   string              `json:"content_url"`
	Score        *int                `json:"score"`
	GradedBy     *uint               `json:"graded_by"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Assignment   *AssignmentResponse `json:"assignment,omitempty"`
	Student      *UserResponse       `json:"student,omitempty"`
	Grader       *UserResponse       `json:"grader,omitempty"`
}

// NewSubmissionResponse maps a submission model onto its response shape.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:           submission.ID,
		AssignmentID: submission.AssignmentID,
		StudentID:    submission.StudentID,
		ContentURL:   submission.ContentURL,
		Score:        submission.Score,
		GradedBy:     submission.GradedBy,
		CreatedAt:    submission.CreatedAt,
		UpdatedAt:    submission.UpdatedAt,
	}

	if submission.Assignment.ID != 0 {
		assignment := NewAssignmentResponse(submission.Assignment)
		response.Assignment = &assignment
	}

	if submission.Student.ID != 0 {
		student := NewUserResponse(submission.Student)
		response.Student = &student
	}

	if submission.Grader != nil && submission.Grader.ID != 0 {
		grader := NewUserResponse(*submission.Grader)
		response.Grader = &grader
	}

	return response
}
