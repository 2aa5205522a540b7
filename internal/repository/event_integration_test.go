//go:build integration

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shoply/storefront-api/internal/model"
)

func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("storefront_test")
}

func TestOrderEventRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.Collection(orderEventCollection).DeleteMany(context.Background(), bson.M{})
	require.NoError(t, err)

	repo := NewOrderEventRepository(db)
	ctx := context.Background()

	event := &model.OrderEvent{
		OrderID: primitive.NewObjectID(),
		UserID:  primitive.NewObjectID(),
		Type:    "placed",
	}
	require.NoError(t, repo.Record(ctx, event))
	assert.False(t, event.ID.IsZero())

	count, err := db.Collection(orderEventCollection).CountDocuments(ctx, bson.M{"orderId": event.OrderID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
