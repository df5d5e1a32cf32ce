package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes the repositories rely on to
// detect duplicates.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	sparse := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetSparse(true),
		}
	}

	specs := map[string][]mongo.IndexModel{
		collectionUsers:         {unique("email"), sparse("verification_token"), sparse("reset_token")},
		collectionAdmins:        {unique("email")},
		collectionRevokedTokens: {unique("token"), {Keys: bson.D{{Key: "expires_at", Value: 1}}}},
		collectionAuthors:       {unique("full_name")},
		collectionGenres:        {unique("name")},
		collectionBooks:         {{Keys: bson.D{{Key: "author_id", Value: 1}}}, {Keys: bson.D{{Key: "genre_id", Value: 1}}}},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
