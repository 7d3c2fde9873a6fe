package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/unireg-go-api/internal/models"
)

func createTestAssignment(t *testing.T, db *gorm.DB, courseID uint, title string) models.Assignment {
	t.Helper()
	assignment := models.Assignment{
		CourseID:  courseID,
		Title:     title,
		DueAt:     time.Now().Add(48 * time.Hour),
		MaxPoints: 100,
	}
	require.NoError(t, db.Create(&assignment).Error)
	return assignment
}

func TestSubmissionRepositoryDuplicatePair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)

	instructor := createTestUser(t, db, "teach@example.com", models.RoleIDInstructor)
	student := createTestUser(t, db, "student@example.com", models.RoleIDStudent)
	course := createTestCourse(t, db, "CS201", instructor.ID, true)
	assignment := createTestAssignment(t, db, course.ID, "Essay")

	first := models.Submission{AssignmentID: assignment.ID, StudentID: student.ID, ContentURL: "https://files.test/a.pdf"}
	require.NoError(t, repo.Create(context.Background(), &first))

	second := models.Submission{AssignmentID: assignment.ID, StudentID: student.ID, ContentURL: "https://files.test/b.pdf"}
	err := repo.Create(context.Background(), &second)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestSubmissionRepositoryGradedFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)

	instructor := createTestUser(t, db, "teach@example.com", models.RoleIDInstructor)
	alice := createTestUser(t, db, "alice@example.com", models.RoleIDStudent)
	bob := createTestUser(t, db, "bob@example.com", models.RoleIDStudent)
	course := createTestCourse(t, db, "CS201", instructor.ID, true)
	assignment := createTestAssignment(t, db, course.ID, "Essay")

	score := 90
	graded := models.Submission{AssignmentID: assignment.ID, StudentID: alice.ID, ContentURL: "https://files.test/a.pdf", Score: &score, GradedBy: &instructor.ID}
	require.NoError(t, repo.Create(context.Background(), &graded))
	pending := models.Submission{AssignmentID: assignment.ID, StudentID: bob.ID, ContentURL: "https://files.test/b.pdf"}
	require.NoError(t, repo.Create(context.Background(), &pending))

	wantGraded := true
	gradedOnly, err := repo.List(context.Background(), SubmissionFilter{Graded: &wantGraded})
	require.NoError(t, err)
	require.Len(t, gradedOnly, 1)
	require.Equal(t, alice.ID, gradedOnly[0].StudentID)

	wantGraded = false
	pendingOnly, err := repo.List(context.Background(), SubmissionFilter{Graded: &wantGraded})
	require.NoError(t, err)
	require.Len(t, pendingOnly, 1)
	require.Equal(t, bob.ID, pendingOnly[0].StudentID)
}

func TestSubmissionRepositoryGetByIDPreloads(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)

	instructor := createTestUser(t, db, "teach@example.com", models.RoleIDInstructor)
	student := createTestUser(t, db, "student@example.com", models.RoleIDStudent)
	course := createTestCourse(t, db, "CS201", instructor.ID, true)
	assignment := createTestAssignment(t, db, course.ID, "Essay")

	submission := models.Submission{AssignmentID: assignment.ID, StudentID: student.ID, ContentURL: "https://files.test/a.pdf"}
	require.NoError(t, repo.Create(context.Background(), &submission))

	found, err := repo.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, assignment.ID, found.Assignment.ID)
	require.Equal(t, course.ID, found.Assignment.Course.ID)
	require.Equal(t, student.ID, found.Student.ID)
}
