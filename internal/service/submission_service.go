package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/unireg-go-api/internal/dto"
	"github.com/noah-isme/unireg-go-api/internal/models"
	"github.com/noah-isme/unireg-go-api/internal/repository"
)

var gradeTracer trace.Tracer = otel.Tracer("github.com/noah-isme/unireg-go-api/internal/service/submission")

// SubmissionService covers the student submission lifecycle and grading.
type SubmissionService interface {
	Submit(ctx context.Context, actor Actor, assignmentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	MySubmissions(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error)
	GetOwn(ctx context.Context, studentID, id uint) (dto.SubmissionResponse, error)
	UpdateOwn(ctx context.Context, actor Actor, id uint, payload dto.SubmissionUpdateRequest) (dto.SubmissionResponse, error)
	List(ctx context.Context, req dto.SubmissionListRequest) ([]dto.SubmissionResponse, error)
	Get(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	Grade(ctx context.Context, actor Actor, id uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error)
}

type submissionService struct {
	repo        repository.SubmissionRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	audit       AuditRecorder
	logger      zerolog.Logger
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(repo repository.SubmissionRepository, assignments repository.AssignmentRepository, validate *validator.Validate, audit AuditRecorder, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		repo:        repo,
		assignments: assignments,
		validator:   validate,
		audit:       audit,
		logger:      logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) Submit(ctx context.Context, actor Actor, assignmentID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		AssignmentID: assignmentID,
		StudentID:    actor.ID,
		ContentURL:   payload.ContentURL,
	}

	// One submission per (assignment, student); the unique index decides.
	if err := s.repo.Create(ctx, &submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SubmissionResponse{}, ErrAlreadySubmitted
		}
		return dto.SubmissionResponse{}, err
	}

	created, err := s.repo.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if err := s.audit.Record(ctx, actor, models.AuditActionCreate, "Submission", nil, snapshotSubmission(created)); err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(created), nil
}

func (s *submissionService) MySubmissions(ctx context.Context, studentID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.repo.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, dto.NewSubmissionResponse(submission))
	}

	return responses, nil
}

func (s *submissionService) GetOwn(ctx context.Context, studentID, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	// Another student's submission is indistinguishable from a missing one.
	if submission.StudentID != studentID {
		return dto.SubmissionResponse{}, ErrSubmissionNotFound
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) UpdateOwn(ctx context.Context, actor Actor, id uint, payload dto.SubmissionUpdateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if submission.StudentID != actor.ID {
		return dto.SubmissionResponse{}, ErrSubmissionNotFound
	}

	// Once a score exists the row is frozen; only the grade operation may
	// touch it.
	if submission.IsGraded() {
		return dto.SubmissionResponse{}, ErrSubmissionGraded
	}

	before := snapshotSubmission(submission)
	submission.ContentURL = payload.ContentURL

	if err := s.repo.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if err := s.audit.Record(ctx, actor, models.AuditActionUpdate, "Submission", before, snapshotSubmission(submission)); err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) List(ctx context.Context, req dto.SubmissionListRequest) ([]dto.SubmissionResponse, error) {
	submissions, err := s.repo.List(ctx, repository.SubmissionFilter{
		AssignmentID: req.AssignmentID,
		StudentID:    req.StudentID,
		Graded:       req.Graded,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, dto.NewSubmissionResponse(submission))
	}

	return responses, nil
}

func (s *submissionService) Get(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Grade(ctx context.Context, actor Actor, id uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	ctx, span := gradeTracer.Start(ctx, "submission.grade")
	span.SetAttributes(
		attribute.Int64("submission.id", int64(id)),
		attribute.Int64("submission.grader_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	if *payload.Score > submission.Assignment.MaxPoints {
		span.SetStatus(codes.Error, "score_exceeds_max")
		return dto.SubmissionResponse{}, ErrScoreExceedsMax
	}

	before := snapshotSubmission(submission)

	score := *payload.Score
	gradedBy := actor.ID
	submission.Score = &score
	submission.GradedBy = &gradedBy

	if err := s.repo.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	if err := s.audit.Record(ctx, actor, models.AuditActionGrade, "Submission", before, snapshotSubmission(submission)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "audit_write_failed")
		return dto.SubmissionResponse{}, err
	}

	span.SetAttributes(attribute.Int("submission.score", score))

	return dto.NewSubmissionResponse(submission), nil
}
