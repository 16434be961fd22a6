package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuditServiceImpl logs audit entries immediately and persists them in the
// background (fire-and-forget). Persistence failures are logged, never returned.
type AuditServiceImpl struct {
	repo ports.AuditRepository
	log  zerolog.Logger
	wg   sync.WaitGroup
}

// NewAuditService creates a new audit service.
// If repo is nil, audit logs are only written to the logger.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditServiceImpl {
	return &AuditServiceImpl{repo: repo, log: log}
}

// Log records entry. Security entries are logged at warn level.
func (s *AuditServiceImpl) Log(ctx context.Context, entry *domain.AuditLog) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Severity == "" {
		entry.Severity = domain.AuditSeverityInfo
	}

	ev := s.log.Info()
	if entry.Severity == domain.AuditSeveritySecurity {
		ev = s.log.Warn()
	}
	ev.Str("action", string(entry.Action)).
		Str("actor", entry.Actor).
		Str("entity_type", entry.EntityType).
		Str("entity_id", entry.EntityID).
		Str("ip", entry.IPAddress).
		Msg("audit")

	if s.repo == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
			s.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("failed to persist audit log")
		}
	}()
}

// List returns persisted entries, newest first.
func (s *AuditServiceImpl) List(ctx context.Context, params ports.AuditListParams) ([]domain.AuditLog, int64, error) {
	if s.repo == nil {
		return nil, 0, nil
	}
	params.Page, params.PageSize = normalizePage(params.Page, params.PageSize)
	logs, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, total, nil
}

// Wait blocks until every background write has finished.
func (s *AuditServiceImpl) Wait() {
	s.wg.Wait()
}

// auditDetails renders key/value pairs as a JSON object string.
func auditDetails(kv map[string]any) string {
	return string(mustJSON(kv))
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
