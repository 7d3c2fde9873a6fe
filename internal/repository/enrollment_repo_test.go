package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/unireg-go-api/internal/models"
)

func TestEnrollmentRepositoryDuplicatePair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentRepository(db)

	instructor := createTestUser(t, db, "teach@example.com", models.RoleIDInstructor)
	student := createTestUser(t, db, "student@example.com", models.RoleIDStudent)
	course := createTestCourse(t, db, "CS201", instructor.ID, true)

	first := models.Enrollment{CourseID: course.ID, StudentID: student.ID}
	require.NoError(t, repo.Create(context.Background(), &first))

	second := models.Enrollment{CourseID: course.ID, StudentID: student.ID}
	err := repo.Create(context.Background(), &second)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Same student in another course is fine.
	other := createTestCourse(t, db, "CS305", instructor.ID, true)
	third := models.Enrollment{CourseID: other.ID, StudentID: student.ID}
	require.NoError(t, repo.Create(context.Background(), &third))
}

func TestEnrollmentRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentRepository(db)

	instructor := createTestUser(t, db, "teach@example.com", models.RoleIDInstructor)
	alice := createTestUser(t, db, "alice@example.com", models.RoleIDStudent)
	bob := createTestUser(t, db, "bob@example.com", models.RoleIDStudent)
	algo := createTestCourse(t, db, "CS201", instructor.ID, true)
	dbs := createTestCourse(t, db, "CS305", instructor.ID, true)

	for _, enrollment := range []models.Enrollment{
		{CourseID: algo.ID, StudentID: alice.ID},
		{CourseID: algo.ID, StudentID: bob.ID},
		{CourseID: dbs.ID, StudentID: alice.ID},
	} {
		row := enrollment
		require.NoError(t, repo.Create(context.Background(), &row))
	}

	byCourse, total, err := repo.List(context.Background(), EnrollmentFilter{CourseID: &algo.ID})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, byCourse, 2)

	byStudent, total, err := repo.List(context.Background(), EnrollmentFilter{StudentID: &alice.ID})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, byStudent, 2)

	both, total, err := repo.List(context.Background(), EnrollmentFilter{CourseID: &dbs.ID, StudentID: &alice.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, both, 1)
}

func TestEnrollmentRepositoryReenrollAfterDrop(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentRepository(db)

	instructor := createTestUser(t, db, "teach@example.com", models.RoleIDInstructor)
	student := createTestUser(t, db, "student@example.com", models.RoleIDStudent)
	course := createTestCourse(t, db, "CS201", instructor.ID, true)

	enrollment := models.Enrollment{CourseID: course.ID, StudentID: student.ID}
	require.NoError(t, repo.Create(context.Background(), &enrollment))
	require.NoError(t, repo.Delete(context.Background(), enrollment.ID))

	again := models.Enrollment{CourseID: course.ID, StudentID: student.ID}
	require.NoError(t, repo.Create(context.Background(), &again), "dropping frees the slot")
}
