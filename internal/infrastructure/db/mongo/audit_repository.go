package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Prantik009/accusitions/internal/core/domain"
	"github.com/Prantik009/accusitions/internal/core/ports"
)

const authEventsCollection = "auth_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{db: db}
}

// InsertEvent persists an auth event to the auth_events audit collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuthEvent) error {
	doc := bson.M{
		"type":         string(event.Type),
		"outcome":      event.Outcome,
		"email":        event.Email,
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.AccountID != "" {
		doc["account_id"] = event.AccountID
	}
	if event.RequestID != "" {
		doc["request_id"] = event.RequestID
	}
	if event.RemoteIP != "" {
		doc["remote_ip"] = event.RemoteIP
	}

	_, err := r.db.Collection(authEventsCollection).InsertOne(ctx, doc)
	return err
}
