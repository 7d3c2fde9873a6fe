package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unireg-go-api/internal/dto"
	"github.com/noah-isme/unireg-go-api/internal/models"
)

func newCourseFixture(courses *fakeCourseRepo, users *fakeUserRepo, cache *redis.Client, audit *recordingAudit) CourseService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewCourseService(courses, users, validate, audit, cache, time.Minute, testLogger())
}

func TestCourseServiceListActiveCaches(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer cache.Close()

	courses := newFakeCourseRepo(
		models.Course{ID: 1, Title: "Algorithms", Code: "CS201", IsActive: true},
		models.Course{ID: 2, Title: "Retired", Code: "CS000", IsActive: false},
	)
	svc := newCourseFixture(courses, newFakeUserRepo(), cache, &recordingAudit{})

	first, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, "CS201", first[0].Code)

	// mutate repo to ensure the cached copy is served
	courses.courses = map[uint]models.Course{}

	cached, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, cached, 1)
}

func TestCourseServiceCreateInvalidatesCatalog(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer cache.Close()

	users := newFakeUserRepo()
	instructor := seedUser(users, "teach@example.com", "s3cret-pass", models.RoleIDInstructor, models.UserStatusActive)

	courses := newFakeCourseRepo(models.Course{ID: 1, Title: "Algorithms", Code: "CS201", IsActive: true})
	svc := newCourseFixture(courses, users, cache, &recordingAudit{})

	_, err = svc.ListActive(context.Background())
	require.NoError(t, err)
	require.True(t, server.Exists("catalog:courses:active"))

	_, err = svc.Create(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, dto.CourseCreateRequest{
		Title:        "Databases",
		Code:         "cs305",
		InstructorID: instructor.ID,
	})
	require.NoError(t, err)
	require.False(t, server.Exists("catalog:courses:active"))
}

func TestCourseServiceCreateNormalizesAndSanitizes(t *testing.T) {
	users := newFakeUserRepo()
	instructor := seedUser(users, "teach@example.com", "s3cret-pass", models.RoleIDInstructor, models.UserStatusActive)

	courses := newFakeCourseRepo()
	audit := &recordingAudit{}
	svc := newCourseFixture(courses, users, nil, audit)

	result, err := svc.Create(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, dto.CourseCreateRequest{
		Title:        "  Databases ",
		Code:         "cs305",
		Description:  `Intro <script>alert("x")</script>to <b>SQL</b>`,
		InstructorID: instructor.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Databases", result.Title)
	require.Equal(t, "CS305", result.Code)
	require.NotContains(t, result.Description, "<script>")
	require.Contains(t, result.Description, "<b>SQL</b>")
	require.True(t, result.IsActive)

	require.Len(t, audit.entries, 1)
	require.Equal(t, "Course", audit.entries[0].EntityType)
}

func TestCourseServiceCreateUnknownInstructor(t *testing.T) {
	svc := newCourseFixture(newFakeCourseRepo(), newFakeUserRepo(), nil, &recordingAudit{})

	_, err := svc.Create(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, dto.CourseCreateRequest{
		Title:        "Databases",
		Code:         "CS305",
		InstructorID: 99,
	})
	require.ErrorIs(t, err, ErrInstructorNotFound)
}

func TestCourseServiceCreateDuplicateCode(t *testing.T) {
	users := newFakeUserRepo()
	instructor := seedUser(users, "teach@example.com", "s3cret-pass", models.RoleIDInstructor, models.UserStatusActive)

	courses := newFakeCourseRepo(models.Course{ID: 1, Title: "Algorithms", Code: "CS201", IsActive: true})
	svc := newCourseFixture(courses, users, nil, &recordingAudit{})

	_, err := svc.Create(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, dto.CourseCreateRequest{
		Title:        "Algorithms Again",
		Code:         "cs201",
		InstructorID: instructor.ID,
	})
	require.ErrorIs(t, err, ErrCourseCodeTaken)
}

func TestCourseServiceDeactivateHidesFromCatalog(t *testing.T) {
	users := newFakeUserRepo()
	courses := newFakeCourseRepo(models.Course{ID: 1, Title: "Algorithms", Code: "CS201", IsActive: true})
	svc := newCourseFixture(courses, users, nil, &recordingAudit{})

	inactive := false
	_, err := svc.Update(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, 1, dto.CourseUpdateRequest{IsActive: &inactive})
	require.NoError(t, err)

	listed, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Empty(t, listed)
}
