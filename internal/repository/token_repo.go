package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/unireg-go-api/internal/models"
)

// TokenRepository persists opaque access tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *models.AccessToken) error
	GetByID(ctx context.Context, id uint) (models.AccessToken, error)
	TouchLastUsed(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository instantiates the repository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *models.AccessToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) GetByID(ctx context.Context, id uint) (models.AccessToken, error) {
	var token models.AccessToken
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Role").
		First(&token, id).Error; err != nil {
		return models.AccessToken{}, err
	}

	return token, nil
}

func (r *tokenRepository) TouchLastUsed(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AccessToken{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}

func (r *tokenRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.AccessToken{}, id).Error
}

func (r *tokenRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.AccessToken{}).Error
}
