package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Prantik009/accusitions/internal/core/domain"
	"github.com/Prantik009/accusitions/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService. repo may be nil, in which case
// events are only logged.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record logs the event and persists it when a repository is configured.
// Expected outcomes (duplicate email, wrong password...) are informational.
func (s *auditService) Record(ctx context.Context, event domain.AuthEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	lvl := zerolog.InfoLevel
	switch event.Outcome {
	case domain.OutcomeError:
		lvl = zerolog.ErrorLevel
	case domain.OutcomeInvalidToken:
		lvl = zerolog.WarnLevel
	}
	s.log.WithLevel(lvl).
		Str("event", string(event.Type)).
		Str("outcome", event.Outcome).
		Str("account_id", event.AccountID).
		Str("email", event.Email).
		Str("request_id", event.RequestID).
		Str("remote_ip", event.RemoteIP).
		Msg("auth audit")

	if s.repo == nil {
		return nil
	}
	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}
