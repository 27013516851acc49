package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Runs against a real server only when MONGODB_TEST_URI is set.
func TestMongoStores_Contract(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	runStoreContract(t, func(t *testing.T) Stores {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client, db, err := Connect(ctx, uri, "recipe_finder_test_"+primitive.NewObjectID().Hex())
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = db.Drop(context.Background())
			_ = Disconnect(client)
		})

		require.NoError(t, EnsureIndexes(ctx, db))
		return NewMongoStores(db)
	})
}
