package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shoply/storefront-api/internal/model"
)

type CartRepository interface {
	// GetByUser returns (nil, nil) when the user has no cart document.
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*model.Cart, error)
	// Save upserts the whole cart document keyed by user. Concurrent saves for
	// the same user are last-write-wins; there is no version check.
	Save(ctx context.Context, cart *model.Cart) error
}

type cartItemDoc struct {
	ProductID primitive.ObjectID   `bson:"product"`
	Name      string               `bson:"name"`
	Image     string               `bson:"image"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
}

type cartDoc struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	UserID     primitive.ObjectID   `bson:"user"`
	Items      []cartItemDoc        `bson:"items"`
	TotalPrice primitive.Decimal128 `bson:"totalPrice"`
	UpdatedAt  time.Time            `bson:"updatedAt"`
}

type mongoCartRepo struct{ coll *mongo.Collection }

func NewCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepo{coll: db.Collection(cartCollection)}
}

func (r *mongoCartRepo) GetByUser(ctx context.Context, userID primitive.ObjectID) (*model.Cart, error) {
	var doc cartDoc
	err := r.coll.FindOne(ctx, bson.M{"user": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cartFromDoc(&doc), nil
}

func (r *mongoCartRepo) Save(ctx context.Context, cart *model.Cart) error {
	cart.UpdatedAt = time.Now().UTC()

	// _id is immutable, so the replacement document must not carry one: if two
	// first-time saves race, the loser replaces the winner's document instead
	// of failing on a mismatched _id.
	doc := cartToDoc(cart)
	doc.ID = primitive.NilObjectID

	res, err := r.coll.ReplaceOne(ctx,
		bson.M{"user": cart.UserID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		cart.ID = id
	}
	return nil
}

func cartToDoc(c *model.Cart) *cartDoc {
	items := make([]cartItemDoc, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, cartItemDoc{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     toDec128(item.Price),
			Quantity:  item.Quantity,
		})
	}
	return &cartDoc{
		ID:         c.ID,
		UserID:     c.UserID,
		Items:      items,
		TotalPrice: toDec128(c.TotalPrice),
		UpdatedAt:  c.UpdatedAt,
	}
}

func cartFromDoc(doc *cartDoc) *model.Cart {
	items := make([]model.CartItem, 0, len(doc.Items))
	for _, item := range doc.Items {
		items = append(items, model.CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     fromDec128(item.Price),
			Quantity:  item.Quantity,
		})
	}
	return &model.Cart{
		ID:         doc.ID,
		UserID:     doc.UserID,
		Items:      items,
		TotalPrice: fromDec128(doc.TotalPrice),
		UpdatedAt:  doc.UpdatedAt,
	}
}
