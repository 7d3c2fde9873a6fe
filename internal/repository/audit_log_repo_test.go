package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/noah-isme/unireg-go-api/internal/models"
)

func TestAuditLogRepositoryListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditLogRepository(db)

	admin := createTestUser(t, db, "admin@example.com", models.RoleIDAdmin)

	for _, action := range []string{models.AuditActionCreate, models.AuditActionUpdate, models.AuditActionDelete} {
		entry := models.AuditLog{
			ActorID:    admin.ID,
			ActionType: action,
			EntityType: "Course",
			After:      datatypes.JSONMap{"schema_version": 1},
		}
		require.NoError(t, repo.Create(context.Background(), &entry))
	}

	entries, total, err := repo.List(context.Background(), AuditLogFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, entries, 3)
	require.Equal(t, models.AuditActionDelete, entries[0].ActionType, "newest entry first")
	require.Equal(t, models.AuditActionCreate, entries[2].ActionType)
	require.Equal(t, admin.ID, entries[0].Actor.ID)
}

func TestAuditLogRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditLogRepository(db)

	admin := createTestUser(t, db, "admin@example.com", models.RoleIDAdmin)
	instructor := createTestUser(t, db, "teach@example.com", models.RoleIDInstructor)

	rows := []models.AuditLog{
		{ActorID: admin.ID, ActionType: models.AuditActionCreate, EntityType: "Course"},
		{ActorID: instructor.ID, ActionType: models.AuditActionGrade, EntityType: "Submission"},
		{ActorID: admin.ID, ActionType: models.AuditActionDelete, EntityType: "User"},
	}
	for i := range rows {
		require.NoError(t, repo.Create(context.Background(), &rows[i]))
	}

	byActor, total, err := repo.List(context.Background(), AuditLogFilter{ActorID: &admin.ID})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, byActor, 2)

	byAction, total, err := repo.List(context.Background(), AuditLogFilter{ActionType: models.AuditActionGrade})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Submission", byAction[0].EntityType)

	bySearch, total, err := repo.List(context.Background(), AuditLogFilter{Search: "Sub"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, bySearch, 1)

	paged, total, err := repo.List(context.Background(), AuditLogFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, paged, 1)
}

func TestAuditLogRepositoryRoundTripsSnapshots(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditLogRepository(db)

	admin := createTestUser(t, db, "admin@example.com", models.RoleIDAdmin)

	entry := models.AuditLog{
		ActorID:    admin.ID,
		ActionType: models.AuditActionUpdate,
		EntityType: "Course",
		Before:     datatypes.JSONMap{"schema_version": 1, "fields": map[string]interface{}{"title": "Old"}},
		After:      datatypes.JSONMap{"schema_version": 1, "fields": map[string]interface{}{"title": "New"}},
	}
	require.NoError(t, repo.Create(context.Background(), &entry))

	entries, _, err := repo.List(context.Background(), AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	before := entries[0].Before["fields"].(map[string]interface{})
	after := entries[0].After["fields"].(map[string]interface{})
	require.Equal(t, "Old", before["title"])
	require.Equal(t, "New", after["title"])
}
