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

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error)
	SetPaid(ctx context.Context, id primitive.ObjectID, result model.PaymentResult, paidAt time.Time) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status model.OrderStatus) error
}

type orderItemDoc struct {
	ProductID primitive.ObjectID   `bson:"product"`
	Name      string               `bson:"name"`
	Image     string               `bson:"image"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
}

type shippingAddressDoc struct {
	FirstName string `bson:"firstName"`
	LastName  string `bson:"lastName"`
	Address   string `bson:"address"`
	City      string `bson:"city"`
	ZipCode   string `bson:"zipCode"`
	Country   string `bson:"country"`
}

type paymentResultDoc struct {
	ID         string    `bson:"id"`
	Status     string    `bson:"status"`
	UpdateTime time.Time `bson:"update_time"`
}

type orderDoc struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	UserID          primitive.ObjectID   `bson:"user"`
	OrderItems      []orderItemDoc       `bson:"orderItems"`
	ShippingAddress shippingAddressDoc   `bson:"shippingAddress"`
	PaymentMethod   string               `bson:"paymentMethod"`
	TotalPrice      primitive.Decimal128 `bson:"totalPrice"`
	IsPaid          bool                 `bson:"isPaid"`
	PaidAt          *time.Time           `bson:"paidAt,omitempty"`
	PaymentResult   *paymentResultDoc    `bson:"paymentResult,omitempty"`
	Status          string               `bson:"status"`
	CreatedAt       time.Time            `bson:"createdAt"`
}

type mongoOrderRepo struct{ coll *mongo.Collection }

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepo{coll: db.Collection(orderCollection)}
}

func (r *mongoOrderRepo) Create(ctx context.Context, order *model.Order) error {
	order.CreatedAt = time.Now().UTC()
	doc := orderToDoc(order)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	order.ID = doc.ID
	return nil
}

func (r *mongoOrderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	var doc orderDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return orderFromDoc(&doc), nil
}

func (r *mongoOrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *mongoOrderRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	return r.list(ctx, bson.M{"user": userID})
}

func (r *mongoOrderRepo) list(ctx context.Context, filter bson.M) ([]model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]model.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, *orderFromDoc(&docs[i]))
	}
	return orders, nil
}

func (r *mongoOrderRepo) SetPaid(ctx context.Context, id primitive.ObjectID, result model.PaymentResult, paidAt time.Time) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"isPaid": true,
		"paidAt": paidAt,
		"paymentResult": paymentResultDoc{
			ID:         result.ID,
			Status:     result.Status,
			UpdateTime: result.UpdateTime,
		},
	}})
	if err != nil {
		return fmt.Errorf("set order paid: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoOrderRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status model.OrderStatus) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func orderToDoc(o *model.Order) *orderDoc {
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemDoc{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     toDec128(item.Price),
			Quantity:  item.Quantity,
		})
	}
	doc := &orderDoc{
		ID:         o.ID,
		UserID:     o.UserID,
		OrderItems: items,
		ShippingAddress: shippingAddressDoc{
			FirstName: o.ShippingAddress.FirstName,
			LastName:  o.ShippingAddress.LastName,
			Address:   o.ShippingAddress.Address,
			City:      o.ShippingAddress.City,
			ZipCode:   o.ShippingAddress.ZipCode,
			Country:   o.ShippingAddress.Country,
		},
		PaymentMethod: o.PaymentMethod,
		TotalPrice:    toDec128(o.TotalPrice),
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
	if o.PaymentResult != nil {
		doc.PaymentResult = &paymentResultDoc{
			ID:         o.PaymentResult.ID,
			Status:     o.PaymentResult.Status,
			UpdateTime: o.PaymentResult.UpdateTime,
		}
	}
	return doc
}

func orderFromDoc(doc *orderDoc) *model.Order {
	items := make([]model.OrderItem, 0, len(doc.OrderItems))
	for _, item := range doc.OrderItems {
		items = append(items, model.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     fromDec128(item.Price),
			Quantity:  item.Quantity,
		})
	}
	order := &model.Order{
		ID:         doc.ID,
		UserID:     doc.UserID,
		Items:      items,
		ShippingAddress: model.ShippingAddress{
			FirstName: doc.ShippingAddress.FirstName,
			LastName:  doc.ShippingAddress.LastName,
			Address:   doc.ShippingAddress.Address,
			City:      doc.ShippingAddress.City,
			ZipCode:   doc.ShippingAddress.ZipCode,
			Country:   doc.ShippingAddress.Country,
		},
		PaymentMethod: doc.PaymentMethod,
		TotalPrice:    fromDec128(doc.TotalPrice),
		IsPaid:        doc.IsPaid,
		PaidAt:        doc.PaidAt,
		Status:        model.OrderStatus(doc.Status),
		CreatedAt:     doc.CreatedAt,
	}
	if doc.PaymentResult != nil {
		order.PaymentResult = &model.PaymentResult{
			ID:         doc.PaymentResult.ID,
			Status:     doc.PaymentResult.Status,
			UpdateTime: doc.PaymentResult.UpdateTime,
		}
	}
	return order
}
