package service

import (
	"time"

	"github.com/noah-isme/unireg-go-api/internal/models"
)

// Snapshot constructors capture the tracked fields of each audited entity.
// Credential material never enters a snapshot.

func snapshotUser(user models.User) Snapshot {
	return Snapshot{
		"id":        user.ID,
		"full_name": user.FullName,
		"email":     user.Email,
		"role_id":   user.RoleID,
		"status":    user.Status,
	}
}

func snapshotCourse(course models.Course) Snapshot {
	return Snapshot{
		"id":            course.ID,
		"title":         course.Title,
		"code":          course.Code,
		"description":   course.Description,
		"instructor_id": course.InstructorID,
		"is_active":     course.IsActive,
	}
}

func snapshotEnrollment(enrollment models.Enrollment) Snapshot {
	snapshot := Snapshot{
		"id":          enrollment.ID,
		"course_id":   enrollment.CourseID,
		"student_id":  enrollment.StudentID,
		"final_grade": nil,
	}
	if enrollment.FinalGrade != nil {
		snapshot["final_grade"] = *enrollment.FinalGrade
	}
	return snapshot
}

func snapshotAssignment(assignment models.Assignment) Snapshot {
	return Snapshot{
		"id":          assignment.ID,
		"course_id":   assignment.CourseID,
		"title":       assignment.Title,
		"description": assignment.Description,
		"due_at":      assignment.DueAt.Format(time.RFC3339),
		"max_points":  assignment.MaxPoints,
	}
}

func snapshotSubmission(submission models.Submission) Snapshot {
	snapshot := Snapshot{
		"id":            submission.ID,
		"assignment_id": submission.AssignmentID,
		"student_id":    submission.StudentID,
		"content_url":   submission.ContentURL,
		"score":         nil,
		"graded_by":     nil,
	}
	if submission.Score != nil {
		snapshot["score"] = *submission.Score
	}
	if submission.GradedBy != nil {
		snapshot["graded_by"] = *submission.GradedBy
	}
	return snapshot
}

// snapshotPasswordMarker records the moment a credential changed without any
// hash material.
func snapshotPasswordMarker(at time.Time) Snapshot {
	return Snapshot{"password_updated_at": at.Format(time.RFC3339)}
}
