package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const defaultDatabaseName = "recipe_finder"

// Collection names. These match the documents already written by earlier
// versions of the service.
const (
	CollectionUsers         = "users"
	CollectionMealPlans     = "meal_plans"
	CollectionSavedRecipes  = "saved_recipes"
	CollectionMyRecipes     = "my_recipes"
	CollectionRecipeReviews = "recipe_reviews"
)

// Connect dials MongoDB and pings it. dbName overrides the database named in the URI.
func Connect(ctx context.Context, mongoURI, dbName string) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	if dbName == "" {
		dbName = databaseNameFromURI(mongoURI)
	}

	return client, client.Database(dbName), nil
}

// Disconnect closes the client with a bounded wait.
func Disconnect(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}

func databaseNameFromURI(mongoURI string) string {
	cs, err := connstring.ParseAndValidate(mongoURI)
	if err != nil || cs.Database == "" {
		return defaultDatabaseName
	}
	return cs.Database
}

// EnsureIndexes creates the unique keys that back the integrity rules, plus
// the sort indexes used by list queries. Safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{
				Keys:    bsonKeys("email", 1),
				Options: options.Index().SetName("uniq_email").SetUnique(true),
			},
		},
		CollectionMealPlans: {
			{
				Keys:    bsonKeys("user_id", 1, "date", 1, "meal_type", 1),
				Options: options.Index().SetName("uniq_user_date_slot").SetUnique(true),
			},
		},
		CollectionSavedRecipes: {
			{
				Keys:    bsonKeys("user_id", 1, "recipe_id", 1, "source_type", 1),
				Options: options.Index().SetName("uniq_user_recipe_source").SetUnique(true),
			},
			{
				Keys:    bsonKeys("user_id", 1, "saved_at", -1),
				Options: options.Index().SetName("idx_user_saved_at"),
			},
		},
		CollectionMyRecipes: {
			{
				Keys:    bsonKeys("user_id", 1, "created_at", -1),
				Options: options.Index().SetName("idx_user_created_at"),
			},
		},
		CollectionRecipeReviews: {
			{
				Keys:    bsonKeys("user_id", 1, "recipe_id", 1, "source_type", 1),
				Options: options.Index().SetName("uniq_user_recipe_source").SetUnique(true),
			},
			{
				Keys:    bsonKeys("recipe_id", 1, "source_type", 1, "created_at", -1),
				Options: options.Index().SetName("idx_recipe_created_at"),
			},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
