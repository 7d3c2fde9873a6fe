package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/unireg-go-api/internal/dto"
	"github.com/noah-isme/unireg-go-api/internal/models"
	"github.com/noah-isme/unireg-go-api/internal/repository"
)

type fakeCourseRepo struct {
	courses map[uint]models.Course
	nextID  uint
	failDup bool
}

func newFakeCourseRepo(courses ...models.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{courses: map[uint]models.Course{}, nextID: 1}
	for _, course := range courses {
		if course.ID >= repo.nextID {
			repo.nextID = course.ID + 1
		}
		repo.courses[course.ID] = course
	}
	return repo
}

func (f *fakeCourseRepo) List(_ context.Context, filter repository.CourseFilter) ([]models.Course, error) {
	items := make([]models.Course, 0, len(f.courses))
	for _, course := range f.courses {
		if filter.ActiveOnly && !course.IsActive {
			continue
		}
		items = append(items, course)
	}
	return items, nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id uint) (models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (f *fakeCourseRepo) GetDetailed(ctx context.Context, id uint) (models.Course, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	if f.failDup {
		return gorm.ErrDuplicatedKey
	}
	for _, existing := range f.courses {
		if existing.Code == course.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	course.ID = f.nextID
	f.nextID++
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id uint) error {
	delete(f.courses, id)
	return nil
}

type fakeEnrollmentRepo struct {
	enrollments map[uint]models.Enrollment
	nextID      uint
	deleteCalls int
}

func newFakeEnrollmentRepo(enrollments ...models.Enrollment) *fakeEnrollmentRepo {
	repo := &fakeEnrollmentRepo{enrollments: map[uint]models.Enrollment{}, nextID: 1}
	for _, enrollment := range enrollments {
		if enrollment.ID >= repo.nextID {
			repo.nextID = enrollment.ID + 1
		}
		repo.enrollments[enrollment.ID] = enrollment
	}
	return repo
}

func (f *fakeEnrollmentRepo) List(_ context.Context, filter repository.EnrollmentFilter) ([]models.Enrollment, int64, error) {
	items := make([]models.Enrollment, 0, len(f.enrollments))
	for _, enrollment := range f.enrollments {
		if filter.CourseID != nil && enrollment.CourseID != *filter.CourseID {
			continue
		}
		if filter.StudentID != nil && enrollment.StudentID != *filter.StudentID {
			continue
		}
		items = append(items, enrollment)
	}
	return items, int64(len(items)), nil
}

func (f *fakeEnrollmentRepo) GetByID(_ context.Context, id uint) (models.Enrollment, error) {
	enrollment, ok := f.enrollments[id]
	if !ok {
		return models.Enrollment{}, gorm.ErrRecordNotFound
	}
	return enrollment, nil
}

func (f *fakeEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	for _, existing := range f.enrollments {
		if existing.CourseID == enrollment.CourseID && existing.StudentID == enrollment.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	enrollment.ID = f.nextID
	f.nextID++
	f.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (f *fakeEnrollmentRepo) Update(_ context.Context, enrollment *models.Enrollment) error {
	f.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (f *fakeEnrollmentRepo) Delete(_ context.Context, id uint) error {
	f.deleteCalls++
	delete(f.enrollments, id)
	return nil
}

func newEnrollmentFixture(courses *fakeCourseRepo, enrollments *fakeEnrollmentRepo, audit *recordingAudit) EnrollmentService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewEnrollmentService(enrollments, courses, validate, audit, testLogger())
}

func TestEnrollmentServiceEnrollRecordsAudit(t *testing.T) {
	courses := newFakeCourseRepo(models.Course{ID: 1, Title: "Algorithms", Code: "CS201", IsActive: true})
	enrollments := newFakeEnrollmentRepo()
	audit := &recordingAudit{}
	svc := newEnrollmentFixture(courses, enrollments, audit)

	actor := Actor{ID: 9, Role: models.RoleStudent}
	result, err := svc.Enroll(context.Background(), actor, 1)
	require.NoError(t, err)
	require.Equal(t, uint(1), result.CourseID)
	require.Equal(t, uint(9), result.StudentID)

	require.Len(t, audit.entries, 1)
	require.Equal(t, models.AuditActionCreate, audit.entries[0].ActionType)
	require.Equal(t, "Enrollment", audit.entries[0].EntityType)
	require.Nil(t, audit.entries[0].Before)
	require.NotNil(t, audit.entries[0].After)
}

func TestEnrollmentServiceEnrollDuplicate(t *testing.T) {
	courses := newFakeCourseRepo(models.Course{ID: 1, Code: "CS201", IsActive: true})
	enrollments := newFakeEnrollmentRepo(models.Enrollment{ID: 5, CourseID: 1, StudentID: 9})
	audit := &recordingAudit{}
	svc := newEnrollmentFixture(courses, enrollments, audit)

	_, err := svc.Enroll(context.Background(), Actor{ID: 9, Role: models.RoleStudent}, 1)
	require.ErrorIs(t, err, ErrAlreadyEnrolled)
	require.Empty(t, audit.entries, "failed mutations leave no audit entry")
}

func TestEnrollmentServiceEnrollInactiveCourse(t *testing.T) {
	courses := newFakeCourseRepo(models.Course{ID: 1, Code: "CS201", IsActive: false})
	svc := newEnrollmentFixture(courses, newFakeEnrollmentRepo(), &recordingAudit{})

	_, err := svc.Enroll(context.Background(), Actor{ID: 9, Role: models.RoleStudent}, 1)
	require.ErrorIs(t, err, ErrCourseNotFound, "inactive courses are invisible to enrollment")
}

func TestEnrollmentServiceDropOwnership(t *testing.T) {
	enrollments := newFakeEnrollmentRepo(models.Enrollment{ID: 5, CourseID: 1, StudentID: 2})
	audit := &recordingAudit{}
	svc := newEnrollmentFixture(newFakeCourseRepo(), enrollments, audit)

	err := svc.Drop(context.Background(), Actor{ID: 3, Role: models.RoleStudent}, 5)
	require.ErrorIs(t, err, ErrEnrollmentNotFound, "someone else's enrollment looks missing")
	require.Zero(t, enrollments.deleteCalls)

	err = svc.Drop(context.Background(), Actor{ID: 2, Role: models.RoleStudent}, 5)
	require.NoError(t, err)
	require.Equal(t, 1, enrollments.deleteCalls)
	require.Len(t, audit.entries, 1)
	require.Equal(t, models.AuditActionDelete, audit.entries[0].ActionType)
	require.Nil(t, audit.entries[0].After)
}

func TestEnrollmentServiceUpdateGrade(t *testing.T) {
	enrollments := newFakeEnrollmentRepo(models.Enrollment{ID: 5, CourseID: 1, StudentID: 2})
	audit := &recordingAudit{}
	svc := newEnrollmentFixture(newFakeCourseRepo(), enrollments, audit)

	grade := 87.5
	result, err := svc.UpdateGrade(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, 5, dto.EnrollmentUpdateRequest{FinalGrade: &grade})
	require.NoError(t, err)
	require.NotNil(t, result.FinalGrade)
	require.Equal(t, 87.5, *result.FinalGrade)

	require.Len(t, audit.entries, 1)
	require.Equal(t, models.AuditActionUpdate, audit.entries[0].ActionType)
	require.NotNil(t, audit.entries[0].Before)
	require.NotNil(t, audit.entries[0].After)
}

func TestEnrollmentServiceUpdateGradeOutOfRange(t *testing.T) {
	svc := newEnrollmentFixture(newFakeCourseRepo(), newFakeEnrollmentRepo(), &recordingAudit{})

	grade := 120.0
	_, err := svc.UpdateGrade(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, 5, dto.EnrollmentUpdateRequest{FinalGrade: &grade})
	require.Error(t, err)
}
