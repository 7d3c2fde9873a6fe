package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit action types.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
	AuditActionGrade  = "grade"
)

// SnapshotSchemaVersion identifies the layout of the before/after JSON
// payloads so consumers can handle future shape changes.
const SnapshotSchemaVersion = 1

// AuditLog records a single mutation: who did it, what kind of change it was,
// and the full entity state before and after. Rows are append-only; nothing
// updates or deletes them.
type AuditLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    uint              `gorm:"not null;index" json:"actor_id"`
	ActionType string            `gorm:"size:16;not null;index" json:"action_type"`
	EntityType string            `gorm:"size:64;not null;index" json:"entity_type"`
	Before     datatypes.JSONMap `gorm:"column:before_json;type:json" json:"before"`
	After      datatypes.JSONMap `gorm:"column:after_json;type:json" json:"after"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
	Actor      User              `gorm:"foreignKey:ActorID" json:"actor"`
}
