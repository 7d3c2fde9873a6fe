package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/unireg-go-api/internal/dto"
	"github.com/noah-isme/unireg-go-api/internal/models"
	"github.com/noah-isme/unireg-go-api/internal/repository"
)

// AccountService covers the authenticated user's own profile and credentials.
type AccountService interface {
	Profile(ctx context.Context, userID uint) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
	ChangePassword(ctx context.Context, actor Actor, payload dto.ChangePasswordRequest) error
}

type accountService struct {
	repo       repository.UserRepository
	validator  *validator.Validate
	audit      AuditRecorder
	bcryptCost int
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAccountService constructs the account service.
func NewAccountService(repo repository.UserRepository, validate *validator.Validate, audit AuditRecorder, bcryptCost int, logger zerolog.Logger) AccountService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &accountService{
		repo:       repo,
		validator:  validate,
		audit:      audit,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "account_service").Logger(),
		now:        time.Now,
	}
}

func (s *accountService) Profile(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *accountService) UpdateProfile(ctx context.Context, actor Actor, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
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

	user, err := s.repo.GetByID(ctx, actor.ID)
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

	if err := s.repo.Update(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrEmailTaken
		}
		return dto.UserResponse{}, err
	}

	updated, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if err := s.audit.Record(ctx, actor, models.AuditActionUpdate, "Account", before, snapshotUser(updated)); err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(updated), nil
}

func (s *accountService) ChangePassword(ctx context.Context, actor Actor, payload dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.CredentialHash), []byte(payload.CurrentPassword)); err != nil {
		return ErrCurrentPasswordIncorrect
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	changedAt := s.now()
	user.CredentialHash = string(hash)

	if err := s.repo.Update(ctx, &user); err != nil {
		return err
	}

	// Snapshots carry a timestamp marker only; hash material never enters
	// the audit trail.
	marker := snapshotPasswordMarker(changedAt)
	return s.audit.Record(ctx, actor, models.AuditActionUpdate, "Password", marker, marker)
}
