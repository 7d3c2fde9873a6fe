package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unireg-go-api/internal/dto"
	"github.com/noah-isme/unireg-go-api/internal/handler"
	"github.com/noah-isme/unireg-go-api/internal/middleware"
	"github.com/noah-isme/unireg-go-api/internal/models"
	"github.com/noah-isme/unireg-go-api/internal/service"
)

type mockSubmissionService struct {
	lastActor   service.Actor
	lastID      uint
	lastPayload dto.GradeSubmissionRequest
	response    dto.SubmissionResponse
	err         error
}

func (m *mockSubmissionService) Submit(_ context.Context, actor service.Actor, assignmentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	m.lastActor = actor
	m.lastID = assignmentID
	if m.err != nil {
		return dto.SubmissionResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockSubmissionService) MySubmissions(context.Context, uint) ([]dto.SubmissionResponse, error) {
	return nil, m.err
}

func (m *mockSubmissionService) GetOwn(context.Context, uint, uint) (dto.SubmissionResponse, error) {
	return m.response, m.err
}

func (m *mockSubmissionService) UpdateOwn(_ context.Context, actor service.Actor, id uint, _ dto.SubmissionUpdateRequest) (dto.SubmissionResponse, error) {
	m.lastActor = actor
	m.lastID = id
	return m.response, m.err
}

func (m *mockSubmissionService) List(context.Context, dto.SubmissionListRequest) ([]dto.SubmissionResponse, error) {
	return []dto.SubmissionResponse{m.response}, m.err
}

func (m *mockSubmissionService) Get(context.Context, uint) (dto.SubmissionResponse, error) {
	return m.response, m.err
}

func (m *mockSubmissionService) Grade(_ context.Context, actor service.Actor, id uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	m.lastActor = actor
	m.lastID = id
	m.lastPayload = payload
	if m.err != nil {
		return dto.SubmissionResponse{}, m.err
	}
	return m.response, nil
}

func newSubmissionTestApp(svc service.SubmissionService, role models.RoleName) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/submissions", func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, uint(10))
		c.Locals(middleware.LocalUserRole, role)
		return c.Next()
	})
	handler.NewSubmissionHandler(svc, zerolog.New(io.Discard)).RegisterGrading(group)
	return app
}

func gradeRequest(t *testing.T, score int) *http.Request {
	t.Helper()
	body, err := json.Marshal(fiber.Map{"score": score})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/3/grade", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSubmissionHandlerGradeSuccess(t *testing.T) {
	score := 88
	gradedBy := uint(10)
	svc := &mockSubmissionService{response: dto.SubmissionResponse{ID: 3, Score: &score, GradedBy: &gradedBy}}
	app := newSubmissionTestApp(svc, models.RoleInstructor)

	resp, err := app.Test(gradeRequest(t, 88))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, uint(3), svc.lastID)
	require.Equal(t, uint(10), svc.lastActor.ID)
	require.Equal(t, models.RoleInstructor, svc.lastActor.Role)
	require.NotNil(t, svc.lastPayload.Score)
	require.Equal(t, 88, *svc.lastPayload.Score)

	var response struct {
		Success bool                   `json:"success"`
		Data    dto.SubmissionResponse `json:"data"`
		Message string                 `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	resp.Body.Close()
	require.True(t, response.Success)
	require.Equal(t, "submission graded", response.Message)
	require.Equal(t, 88, *response.Data.Score)
}

func TestSubmissionHandlerGradeScoreExceedsMax(t *testing.T) {
	svc := &mockSubmissionService{err: service.ErrScoreExceedsMax}
	app := newSubmissionTestApp(svc, models.RoleInstructor)

	resp, err := app.Test(gradeRequest(t, 500))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSubmissionHandlerGradeNotFound(t *testing.T) {
	svc := &mockSubmissionService{err: service.ErrSubmissionNotFound}
	app := newSubmissionTestApp(svc, models.RoleInstructor)

	resp, err := app.Test(gradeRequest(t, 10))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmissionHandlerGradeAuditFailureIsDistinct(t *testing.T) {
	svc := &mockSubmissionService{err: service.ErrAuditWrite}
	app := newSubmissionTestApp(svc, models.RoleInstructor)

	resp, err := app.Test(gradeRequest(t, 10))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	resp.Body.Close()
	require.False(t, response.Success)
	require.Equal(t, "audit trail write failed", response.Message)
}

func TestSubmissionHandlerListRejectsMalformedFilter(t *testing.T) {
	svc := &mockSubmissionService{}
	app := newSubmissionTestApp(svc, models.RoleInstructor)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/submissions?student_id=abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	resp.Body.Close()
	require.False(t, response.Success)
	require.Equal(t, "invalid student_id", response.Message)
}

func TestSubmissionHandlerGradeInvalidID(t *testing.T) {
	svc := &mockSubmissionService{}
	app := newSubmissionTestApp(svc, models.RoleInstructor)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/abc/grade", bytes.NewReader([]byte(`{"score":10}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
