package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/unireg-go-api/internal/dto"
	"github.com/noah-isme/unireg-go-api/internal/models"
	"github.com/noah-isme/unireg-go-api/internal/repository"
)

// EnrollmentService covers student self-enrollment and the admin roster.
type EnrollmentService interface {
	Enroll(ctx context.Context, actor Actor, courseID uint) (dto.EnrollmentResponse, error)
	MyCourses(ctx context.Context, studentID uint) ([]dto.EnrollmentResponse, error)
	Drop(ctx context.Context, actor Actor, enrollmentID uint) error
	List(ctx context.Context, req dto.EnrollmentListRequest) (dto.EnrollmentListResponse, error)
	UpdateGrade(ctx context.Context, actor Actor, enrollmentID uint, payload dto.EnrollmentUpdateRequest) (dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	repo      repository.EnrollmentRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	audit     AuditRecorder
	logger    zerolog.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo repository.EnrollmentRepository, courses repository.CourseRepository, validate *validator.Validate, audit AuditRecorder, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		courses:   courses,
		validator: validate,
		audit:     audit,
		logger:    logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, actor Actor, courseID uint) (dto.EnrollmentResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	// Inactive courses are invisible to enrollment.
	if !course.IsActive {
		return dto.EnrollmentResponse{}, ErrCourseNotFound
	}

	enrollment := models.Enrollment{
		CourseID:  courseID,
		StudentID: actor.ID,
	}

	// The composite unique index decides duplicates; no check-then-insert.
	if err := s.repo.Create(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
		}
		return dto.EnrollmentResponse{}, err
	}

	created, err := s.repo.GetByID(ctx, enrollment.ID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}

	if err := s.audit.Record(ctx, actor, models.AuditActionCreate, "Enrollment", nil, snapshotEnrollment(created)); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	return dto.NewEnrollmentResponse(created), nil
}

func (s *enrollmentService) MyCourses(ctx context.Context, studentID uint) ([]dto.EnrollmentResponse, error) {
	enrollments, _, err := s.repo.List(ctx, repository.EnrollmentFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, dto.NewEnrollmentResponse(enrollment))
	}

	return responses, nil
}

func (s *enrollmentService) Drop(ctx context.Context, actor Actor, enrollmentID uint) error {
	enrollment, err := s.repo.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}

	// Students may only drop their own enrollment; someone else's row is
	// indistinguishable from a missing one.
	if enrollment.StudentID != actor.ID {
		return ErrEnrollmentNotFound
	}

	before := snapshotEnrollment(enrollment)

	if err := s.repo.Delete(ctx, enrollmentID); err != nil {
		return err
	}

	return s.audit.Record(ctx, actor, models.AuditActionDelete, "Enrollment", before, nil)
}

func (s *enrollmentService) List(ctx context.Context, req dto.EnrollmentListRequest) (dto.EnrollmentListResponse, error) {
	enrollments, total, err := s.repo.List(ctx, repository.EnrollmentFilter{
		Page:      req.Page,
		PageSize:  req.PageSize,
		CourseID:  req.CourseID,
		StudentID: req.StudentID,
	})
	if err != nil {
		return dto.EnrollmentListResponse{}, err
	}

	items := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		items = append(items, dto.NewEnrollmentResponse(enrollment))
	}

	return dto.EnrollmentListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *enrollmentService) UpdateGrade(ctx context.Context, actor Actor, enrollmentID uint, payload dto.EnrollmentUpdateRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	enrollment, err := s.repo.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrEnrollmentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	before := snapshotEnrollment(enrollment)

	if payload.FinalGrade != nil {
		grade := *payload.FinalGrade
		enrollment.FinalGrade = &grade
	}

	if err := s.repo.Update(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	updated, err := s.repo.GetByID(ctx, enrollmentID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}

	if err := s.audit.Record(ctx, actor, models.AuditActionUpdate, "Enrollment", before, snapshotEnrollment(updated)); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	return dto.NewEnrollmentResponse(updated), nil
}
