package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shoply/storefront-api/internal/model"
)

type OrderEventRepository interface {
	Record(ctx context.Context, event *model.OrderEvent) error
}

type orderEventDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	OrderID    primitive.ObjectID `bson:"orderId"`
	UserID     primitive.ObjectID `bson:"userId"`
	Type       string             `bson:"type"`
	RecordedAt time.Time          `bson:"recordedAt"`
}

type mongoOrderEventRepo struct{ coll *mongo.Collection }

func NewOrderEventRepository(db *mongo.Database) OrderEventRepository {
	return &mongoOrderEventRepo{coll: db.Collection(orderEventCollection)}
}

func (r *mongoOrderEventRepo) Record(ctx context.Context, event *model.OrderEvent) error {
	doc := orderEventDoc{
		ID:         primitive.NewObjectID(),
		OrderID:    event.OrderID,
		UserID:     event.UserID,
		Type:       event.Type,
		RecordedAt: time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert order event: %w", err)
	}
	event.ID = doc.ID
	event.RecordedAt = doc.RecordedAt
	return nil
}
