package ports

import (
	"context"

	"github.com/Prantik009/accusitions/internal/core/domain"
)

// AuditRepository persists auth audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditService records auth audit events.
type AuditService interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}
