package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/unireg-go-api/internal/dto"
	"github.com/noah-isme/unireg-go-api/internal/models"
	"github.com/noah-isme/unireg-go-api/internal/repository"
)

// UserService exposes the admin-only user CRUD.
type UserService interface {
	List(ctx context.Context, req dto.UserListRequest) (dto.UserListResponse, error)
	Get(ctx context.Context, id uint) (dto.UserResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.UserCreateRequest) (dto.UserResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.UserUpdateRequest) (dto.UserResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type userService struct {
	repo       repository.UserRepository
	tokens     repository.TokenRepository
	validator  *validator.Validate
	audit      AuditRecorder
	bcryptCost int
	logger     zerolog.Logger
}

// NewUserService constructs the admin user service.
func NewUserService(repo repository.UserRepository, tokens repository.TokenRepository, validate *validator.Validate, audit AuditRecorder, bcryptCost int, logger zerolog.Logger) UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &userService{
		repo:       repo,
		tokens:     tokens,
		validator:  validate,
		audit:      audit,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) List(ctx context.Context, req dto.UserListRequest) (dto.UserListResponse, error) {
	users, total, err := s.repo.List(ctx, repository.UserFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   strings.TrimSpace(req.Search),
	})
	if err != nil {
		return dto.UserListResponse{}, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.NewUserResponse(user))
	}

	return dto.UserListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *userService) Get(ctx context.Context, id uint) (dto.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) Create(ctx context.Context, actor Actor, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	payload.FullName = strings.TrimSpace(payload.FullName)
	payload.Email = normalizeEmail(payload.Email)

	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.bcryptCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	status := payload.Status
	if status == "" {
		status = models.UserStatusActive
	}

	user := models.User{
		FullName:       payload.FullName,
		Email:          payload.Email,
		CredentialHash: string(hash),
		RoleID:         payload.RoleID,
		Status:         status,
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrEmailTaken
		}
		return dto.UserResponse{}, err
	}

	created, err := s.repo.GetByID(ctx, user.ID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if err := s.audit.Record(ctx, actor, models.AuditActionCreate, "User", nil, snapshotUser(created)); err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(created), nil
}

func (s *userService) Update(ctx context.Context, actor Actor, id uint, payload dto.UserUpdateRequest) (dto.UserResponse, error) {
	if payload.FullName != nil {
		trimmed := strings.TrimSpace(*payload.FullName)
		payload.FullName = &trimmed
	}
	if payload.Email != nil {
		normalized := normalizeEmail(*payload.Email)
		payload.Email = &normalized
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	before := snapshotUser(user)

	if payload.FullName != nil {
		user.FullName = *payload.FullName
	}
	if payload.Email != nil {
		user.Email = *payload.Email
	}
	if payload.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), s.bcryptCost)
		if err != nil {
			return dto.UserResponse{}, err
		}
		user.CredentialHash = string(hash)
	}
	if payload.RoleID != nil {
		user.RoleID = *payload.RoleID
	}
	if payload.Status != nil {
		user.Status = *payload.Status
	}

	// The unique index owns email uniqueness; updating a row against its own
	// email passes through untouched.
	if err := s.repo.Update(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrEmailTaken
		}
		return dto.UserResponse{}, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if err := s.audit.Record(ctx, actor, models.AuditActionUpdate, "User", before, snapshotUser(updated)); err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(updated), nil
}

func (s *userService) Delete(ctx context.Context, actor Actor, id uint) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	before := snapshotUser(user)

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// A deleted account must not keep authenticating.
	if err := s.tokens.DeleteByUser(ctx, id); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", id).Msg("failed to revoke tokens of deleted user")
	}

	return s.audit.Record(ctx, actor, models.AuditActionDelete, "User", before, nil)
}
