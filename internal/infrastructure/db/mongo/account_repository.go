package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Prantik009/accusitions/internal/core/domain"
)

const accountsCollection = "accounts"

// AccountRepository implements ports.AccountRepository using MongoDB. Email
// uniqueness is enforced by a unique index created in EnsureIndexes.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountsCollection)}
}

type mongoAccount struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("accounts_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create accounts email index: %w", err)
	}
	return nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := mongoAccount{
		ID:           primitive.NewObjectID(),
		Name:         account.Name,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Role:         account.Role,
		CreatedAt:    account.CreatedAt.UTC(),
		UpdatedAt:    account.UpdatedAt.UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return ma.toDomain(), nil
}

// Ping checks connectivity for the readiness probe.
func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

func (m mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:           m.ID.Hex(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}
