package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/unireg-go-api/internal/dto"
	"github.com/noah-isme/unireg-go-api/internal/models"
	"github.com/noah-isme/unireg-go-api/internal/repository"
)

const catalogCacheKey = "catalog:courses:active"

// CourseService exposes the course catalog and its mutations.
type CourseService interface {
	ListActive(ctx context.Context) ([]dto.CourseResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseDetailResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type courseService struct {
	repo      repository.CourseRepository
	users     repository.UserRepository
	validator *validator.Validate
	audit     AuditRecorder
	cache     *redis.Client
	cacheTTL  time.Duration
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewCourseService constructs the course service. The redis client is
// optional; when nil, the catalog is served straight from the database.
func NewCourseService(repo repository.CourseRepository, users repository.UserRepository, validate *validator.Validate, audit AuditRecorder, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:      repo,
		users:     users,
		validator: validate,
		audit:     audit,
		cache:     cache,
		cacheTTL:  cacheTTL,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) ListActive(ctx context.Context) ([]dto.CourseResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, catalogCacheKey).Result(); err == nil {
			var responses []dto.CourseResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &responses); unmarshalErr == nil {
				s.logger.Debug().Msg("course catalog cache hit")
				return responses, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read course catalog cache")
		}
	}

	courses, err := s.repo.List(ctx, repository.CourseFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, dto.NewCourseResponse(course))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(responses); err == nil {
			if err := s.cache.Set(ctx, catalogCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store course catalog cache")
			}
		}
	}

	return responses, nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseDetailResponse, error) {
	course, err := s.repo.GetDetailed(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseDetailResponse{}, ErrCourseNotFound
		}
		return dto.CourseDetailResponse{}, err
	}

	return dto.NewCourseDetailResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, actor Actor, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, payload.InstructorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrInstructorNotFound
		}
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Title:        strings.TrimSpace(payload.Title),
		Code:         strings.ToUpper(strings.TrimSpace(payload.Code)),
		Description:  s.sanitizer.Sanitize(payload.Description),
		InstructorID: payload.InstructorID,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, &course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.CourseResponse{}, ErrCourseCodeTaken
		}
		return dto.CourseResponse{}, err
	}

	created, err := s.repo.GetByID(ctx, course.ID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.invalidateCatalog(ctx)

	if err := s.audit.Record(ctx, actor, models.AuditActionCreate, "Course", nil, snapshotCourse(created)); err != nil {
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(created), nil
}

func (s *courseService) Update(ctx context.Context, actor Actor, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	before := snapshotCourse(course)

	if payload.Title != nil {
		course.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Code != nil {
		course.Code = strings.ToUpper(strings.TrimSpace(*payload.Code))
	}
	if payload.Description != nil {
		course.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.InstructorID != nil {
		if _, err := s.users.GetByID(ctx, *payload.InstructorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CourseResponse{}, ErrInstructorNotFound
			}
			return dto.CourseResponse{}, err
		}
		course.InstructorID = *payload.InstructorID
	}
	if payload.IsActive != nil {
		course.IsActive = *payload.IsActive
	}

	if err := s.repo.Update(ctx, &course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.CourseResponse{}, ErrCourseCodeTaken
		}
		return dto.CourseResponse{}, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.invalidateCatalog(ctx)

	if err := s.audit.Record(ctx, actor, models.AuditActionUpdate, "Course", before, snapshotCourse(updated)); err != nil {
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(updated), nil
}

func (s *courseService) Delete(ctx context.Context, actor Actor, id uint) error {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	before := snapshotCourse(course)

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCatalog(ctx)

	return s.audit.Record(ctx, actor, models.AuditActionDelete, "Course", before, nil)
}

func (s *courseService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, catalogCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate course catalog cache")
	}
}
