package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/unireg-go-api/internal/models"
)

func TestTokenRepositoryGetByIDPreloadsUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)

	user := createTestUser(t, db, "student@example.com", models.RoleIDStudent)
	token := models.AccessToken{UserID: user.ID, TokenHash: "digest-1", Name: "api-token"}
	require.NoError(t, repo.Create(context.Background(), &token))

	found, err := repo.GetByID(context.Background(), token.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, found.User.ID)
	require.Equal(t, models.RoleStudent, found.User.Role.Name)
	require.Nil(t, found.LastUsedAt)
}

func TestTokenRepositoryTouchLastUsed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)

	user := createTestUser(t, db, "student@example.com", models.RoleIDStudent)
	token := models.AccessToken{UserID: user.ID, TokenHash: "digest-1", Name: "api-token"}
	require.NoError(t, repo.Create(context.Background(), &token))

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.TouchLastUsed(context.Background(), token.ID, at))

	found, err := repo.GetByID(context.Background(), token.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastUsedAt)
}

func TestTokenRepositoryDeleteByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)

	alice := createTestUser(t, db, "alice@example.com", models.RoleIDStudent)
	bob := createTestUser(t, db, "bob@example.com", models.RoleIDStudent)

	for i, userID := range []uint{alice.ID, alice.ID, bob.ID} {
		token := models.AccessToken{UserID: userID, TokenHash: "digest-" + string(rune('a'+i)), Name: "api-token"}
		require.NoError(t, repo.Create(context.Background(), &token))
	}

	require.NoError(t, repo.DeleteByUser(context.Background(), alice.ID))

	var remaining []models.AccessToken
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	require.Equal(t, bob.ID, remaining[0].UserID)

	_, err := repo.GetByID(context.Background(), 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
