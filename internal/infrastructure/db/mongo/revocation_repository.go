package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

// RevocationRepository stores revoked tokens. The unique index on token
// makes Insert idempotent.
type RevocationRepository struct {
	col *mongo.Collection
}

func NewRevocationRepository(db *mongo.Database) *RevocationRepository {
	return &RevocationRepository{col: db.Collection(collectionRevokedTokens)}
}

type revokedTokenDoc struct {
	Token     string    `bson:"token"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

func (r *RevocationRepository) Insert(ctx context.Context, token *domain.RevokedToken) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, revokedTokenDoc{
		Token:     token.Token,
		CreatedAt: token.CreatedAt,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert revoked token: %w", err)
	}
	return nil
}

func (r *RevocationRepository) Exists(ctx context.Context, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"token": token})
	if err != nil {
		return false, fmt.Errorf("lookup revoked token: %w", err)
	}
	return n > 0, nil
}
