package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/unireg-go-api/internal/dto"
	"github.com/noah-isme/unireg-go-api/internal/models"
	"github.com/noah-isme/unireg-go-api/internal/repository"
)

// Actor identifies the authenticated user performing an operation. It is
// passed explicitly into every mutating call; nothing reads it from ambient
// state.
type Actor struct {
	ID   uint
	Role models.RoleName
}

// Snapshot is a schema-less copy of an entity's fields at a point in time.
type Snapshot map[string]interface{}

// AuditRecorder records one audit entry per successful mutation.
type AuditRecorder interface {
	Record(ctx context.Context, actor Actor, actionType, entityType string, before, after Snapshot) error
}

// AuditService exposes recording plus the admin read side of the audit trail.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error)
}

type auditService struct {
	repo    repository.AuditLogRepository
	nats    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewAuditService constructs the audit service. The NATS connection is
// optional; when nil, event publication is skipped.
func NewAuditService(repo repository.AuditLogRepository, natsConn *nats.Conn, subject string, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:    repo,
		nats:    natsConn,
		subject: subject,
		logger:  logger.With().Str("component", "audit_service").Logger(),
	}
}

// auditEvent is the payload published to NATS after a successful insert.
type auditEvent struct {
	ID         uint      `json:"id"`
	ActorID    uint      `json:"actor_id"`
	ActionType string    `json:"action_type"`
	EntityType string    `json:"entity_type"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *auditService) Record(ctx context.Context, actor Actor, actionType, entityType string, before, after Snapshot) error {
	if strings.TrimSpace(actionType) == "" {
		return fmt.Errorf("action type is required")
	}
	if strings.TrimSpace(entityType) == "" {
		return fmt.Errorf("entity type is required")
	}

	entry := models.AuditLog{
		ActorID:    actor.ID,
		ActionType: actionType,
		EntityType: entityType,
		Before:     wrapSnapshot(before),
		After:      wrapSnapshot(after),
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).
			Str("action_type", actionType).
			Str("entity_type", entityType).
			Uint("actor_id", actor.ID).
			Msg("failed to persist audit entry")
		return fmt.Errorf("%w: %v", ErrAuditWrite, err)
	}

	s.publish(entry)
	return nil
}

// publish forwards a lightweight event to NATS, best effort. Failures are
// logged and never affect the request.
func (s *auditService) publish(entry models.AuditLog) {
	if s.nats == nil || s.subject == "" {
		return
	}

	payload, err := json.Marshal(auditEvent{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActionType: entry.ActionType,
		EntityType: entry.EntityType,
		CreatedAt:  entry.CreatedAt,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal audit event")
		return
	}

	if err := s.nats.Publish(s.subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.subject).Msg("failed to publish audit event")
	}
}

func (s *auditService) List(ctx context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error) {
	filter := repository.AuditLogFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		ActionType: strings.TrimSpace(req.ActionType),
		EntityType: strings.TrimSpace(req.EntityType),
		Search:     strings.TrimSpace(req.Search),
	}
	if req.ActorID > 0 {
		filter.ActorID = &req.ActorID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AuditLogListResponse{}, err
	}

	items := make([]dto.AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewAuditLogResponse(entry))
	}

	return dto.AuditLogListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

// wrapSnapshot versions the snapshot so future shape changes stay readable.
func wrapSnapshot(snapshot Snapshot) datatypes.JSONMap {
	if snapshot == nil {
		return nil
	}

	return datatypes.JSONMap{
		"schema_version": models.SnapshotSchemaVersion,
		"fields":         map[string]interface{}(snapshot),
	}
}
