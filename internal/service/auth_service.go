package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
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

const tokenSecretBytes = 32

// normalizeEmail trims and lowercases an address. Normalization runs before
// validation so padded input is accepted rather than rejected by the email tag.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthService owns the credential and token lifecycle: registration, login,
// opaque token issue/resolve, and single or bulk revocation.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Logout(ctx context.Context, tokenID uint) error
	LogoutAll(ctx context.Context, userID uint) error
	Resolve(ctx context.Context, plaintext string) (models.User, uint, error)
}

type authService struct {
	users      repository.UserRepository
	tokens     repository.TokenRepository
	validator  *validator.Validate
	bcryptCost int
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, validate *validator.Validate, bcryptCost int, logger zerolog.Logger) AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &authService{
		users:      users,
		tokens:     tokens,
		validator:  validate,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "auth_service").Logger(),
		now:        time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	payload.FullName = strings.TrimSpace(payload.FullName)
	payload.Email = normalizeEmail(payload.Email)

	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.bcryptCost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	// Self-registration always yields a Student; roles are assigned by admins.
	user := models.User{
		FullName:       payload.FullName,
		Email:          payload.Email,
		CredentialHash: string(hash),
		RoleID:         models.RoleIDStudent,
		Status:         models.UserStatusActive,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AuthResponse{}, ErrEmailTaken
		}
		return dto.AuthResponse{}, err
	}

	user.Role = models.Role{ID: models.RoleIDStudent, Name: models.RoleStudent}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{
		User:        dto.NewUserResponse(user),
		AccessToken: token,
		TokenType:   "Bearer",
	}, nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	payload.Email = normalizeEmail(payload.Email)

	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown email and wrong password produce the same answer.
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.CredentialHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	if !user.IsActive() {
		return dto.AuthResponse{}, ErrAccountNotActive
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{
		User:        dto.NewUserResponse(user),
		AccessToken: token,
		TokenType:   "Bearer",
	}, nil
}

func (s *authService) Logout(ctx context.Context, tokenID uint) error {
	return s.tokens.Delete(ctx, tokenID)
}

func (s *authService) LogoutAll(ctx context.Context, userID uint) error {
	return s.tokens.DeleteByUser(ctx, userID)
}

// Resolve validates a plaintext bearer token and returns the acting user and
// the token record id. Revoked tokens fail immediately: the lookup hits the
// store on every request, so there is no stale-acceptance window.
func (s *authService) Resolve(ctx context.Context, plaintext string) (models.User, uint, error) {
	id, secret, ok := splitToken(plaintext)
	if !ok {
		return models.User{}, 0, ErrUnauthenticated
	}

	token, err := s.tokens.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, 0, ErrUnauthenticated
		}
		return models.User{}, 0, err
	}

	digest := hashTokenSecret(secret)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(token.TokenHash)) != 1 {
		return models.User{}, 0, ErrUnauthenticated
	}

	if err := s.tokens.TouchLastUsed(ctx, token.ID, s.now()); err != nil {
		s.logger.Warn().Err(err).Uint("token_id", token.ID).Msg("failed to touch token last_used_at")
	}

	return token.User, token.ID, nil
}

// issueToken mints an opaque token in the "<id>|<secret>" wire format. Only
// the SHA-256 digest of the secret is persisted.
func (s *authService) issueToken(ctx context.Context, user models.User) (string, error) {
	raw := make([]byte, tokenSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	secret := hex.EncodeToString(raw)

	token := models.AccessToken{
		UserID:    user.ID,
		TokenHash: hashTokenSecret(secret),
		Name:      "api-token",
	}

	if err := s.tokens.Create(ctx, &token); err != nil {
		return "", err
	}

	return strconv.FormatUint(uint64(token.ID), 10) + "|" + secret, nil
}

func splitToken(plaintext string) (uint, string, bool) {
	parts := strings.SplitN(strings.TrimSpace(plaintext), "|", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return 0, "", false
	}

	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, "", false
	}

	return uint(id), parts[1], true
}

func hashTokenSecret(secret string) string {
	digest := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(digest[:])
}
