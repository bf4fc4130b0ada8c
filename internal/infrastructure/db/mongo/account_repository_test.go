package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/Prantik009/accusitions/internal/core/domain"
)

func TestAccountRepository_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create returns account with id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewAccountRepository(mt.DB)

		now := time.Now().UTC().Truncate(time.Millisecond)
		acc, err := repo.Create(context.Background(), &domain.Account{
			Name: "Ana", Email: "ana@x.com", PasswordHash: "h", Role: domain.RoleUser,
			CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(mt, err)
		assert.Len(mt, acc.ID, 24)
		assert.Equal(mt, "ana@x.com", acc.Email)
	})

	mt.Run("duplicate key maps to ErrAccountExists", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: accounts index: accounts_email_unique",
		}))
		repo := NewAccountRepository(mt.DB)

		_, err := repo.Create(context.Background(), &domain.Account{Email: "ana@x.com"})
		assert.ErrorIs(mt, err, domain.ErrAccountExists)
	})

	mt.Run("find by email decodes document", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "db.accounts", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Ana"},
			{Key: "email", Value: "ana@x.com"},
			{Key: "password_hash", Value: "h"},
			{Key: "role", Value: "user"},
			{Key: "created_at", Value: created},
			{Key: "updated_at", Value: created},
		}))
		repo := NewAccountRepository(mt.DB)

		acc, err := repo.FindByEmail(context.Background(), "ana@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), acc.ID)
		assert.Equal(mt, "h", acc.PasswordHash)
		assert.True(mt, acc.CreatedAt.Equal(created))
	})

	mt.Run("find by email missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.accounts", mtest.FirstBatch))
		repo := NewAccountRepository(mt.DB)

		_, err := repo.FindByEmail(context.Background(), "ghost@x.com")
		assert.ErrorIs(mt, err, domain.ErrAccountNotFound)
	})
}

func TestAuditRepository_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert event", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewAuditRepository(mt.DB)

		err := repo.InsertEvent(context.Background(), &domain.AuthEvent{
			Type:      domain.EventSignin,
			Outcome:   domain.OutcomeSuccess,
			AccountID: "acc_1",
			Email:     "ana@x.com",
			Timestamp: time.Now(),
		})
		require.NoError(mt, err)
	})
}
