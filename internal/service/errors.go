package service

import "errors"

// Sentinel errors shared across services. Handlers translate these into the
// HTTP status taxonomy; anything unrecognized collapses to a generic 500.
var (
	// Authentication.
	ErrInvalidCredentials = errors.New("the provided credentials are incorrect")
	ErrAccountNotActive   = errors.New("account is not active")
	ErrUnauthenticated    = errors.New("unauthenticated")

	// Not found.
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")

	// Conflicts surfaced by storage-level unique constraints.
	ErrEmailTaken       = errors.New("email is already in use")
	ErrCourseCodeTaken  = errors.New("course code is already in use")
	ErrAlreadyEnrolled  = errors.New("already enrolled in this course")
	ErrAlreadySubmitted = errors.New("already submitted for this assignment")

	// Business rules.
	ErrInstructorNotFound       = errors.New("instructor does not reference a known user")
	ErrSubmissionGraded         = errors.New("submission has been graded and can no longer be edited")
	ErrScoreExceedsMax          = errors.New("score exceeds assignment max points")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")

	// ErrAuditWrite marks a failure of the audit recorder after the primary
	// mutation succeeded. It is kept distinct from operation errors so callers
	// can tell which side of the request failed.
	ErrAuditWrite = errors.New("audit trail write failed")
)
