package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unireg-go-api/internal/dto"
	"github.com/noah-isme/unireg-go-api/internal/models"
)

func newUserFixture(users *fakeUserRepo, tokens *fakeTokenRepo, audit *recordingAudit) UserService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewUserService(users, tokens, validate, audit, 4, testLogger())
}

func TestUserServiceCreateAssignsRequestedRole(t *testing.T) {
	users := newFakeUserRepo()
	audit := &recordingAudit{}
	svc := newUserFixture(users, newFakeTokenRepo(users), audit)

	result, err := svc.Create(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, dto.UserCreateRequest{
		FullName: "Grace Hopper",
		Email:    "Grace@Example.com",
		Password: "compilers1",
		RoleID:   models.RoleIDInstructor,
	})
	require.NoError(t, err)
	require.Equal(t, "grace@example.com", result.Email)
	require.Equal(t, models.RoleIDInstructor, result.RoleID)

	stored := users.users[result.ID]
	require.NotEqual(t, "compilers1", stored.CredentialHash)

	require.Len(t, audit.entries, 1)
	require.Equal(t, models.AuditActionCreate, audit.entries[0].ActionType)
	require.Equal(t, "User", audit.entries[0].EntityType)
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(users, "grace@example.com", "whatever1", models.RoleIDStudent, models.UserStatusActive)
	svc := newUserFixture(users, newFakeTokenRepo(users), &recordingAudit{})

	_, err := svc.Create(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, dto.UserCreateRequest{
		FullName: "Grace Hopper",
		Email:    "grace@example.com",
		Password: "compilers1",
		RoleID:   models.RoleIDInstructor,
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserServiceUpdateStatus(t *testing.T) {
	users := newFakeUserRepo()
	seeded := seedUser(users, "grace@example.com", "whatever1", models.RoleIDStudent, models.UserStatusActive)
	audit := &recordingAudit{}
	svc := newUserFixture(users, newFakeTokenRepo(users), audit)

	status := models.UserStatusSuspended
	result, err := svc.Update(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, seeded.ID, dto.UserUpdateRequest{Status: &status})
	require.NoError(t, err)
	require.Equal(t, models.UserStatusSuspended, result.Status)

	require.Len(t, audit.entries, 1)
	require.Equal(t, models.AuditActionUpdate, audit.entries[0].ActionType)
}

func TestUserServiceDeleteRevokesTokens(t *testing.T) {
	users := newFakeUserRepo()
	seeded := seedUser(users, "grace@example.com", "whatever1", models.RoleIDStudent, models.UserStatusActive)
	tokens := newFakeTokenRepo(users)
	require.NoError(t, tokens.Create(context.Background(), &models.AccessToken{UserID: seeded.ID, TokenHash: "digest", Name: "api-token"}))

	audit := &recordingAudit{}
	svc := newUserFixture(users, tokens, audit)

	require.NoError(t, svc.Delete(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, seeded.ID))
	require.Empty(t, tokens.tokens, "deleting an account revokes its sessions")
	require.NotContains(t, users.users, seeded.ID)

	require.Len(t, audit.entries, 1)
	require.Equal(t, models.AuditActionDelete, audit.entries[0].ActionType)
	require.Nil(t, audit.entries[0].After)
}

func TestUserServiceGetUnknown(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserFixture(users, newFakeTokenRepo(users), &recordingAudit{})

	_, err := svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, ErrUserNotFound)
}
