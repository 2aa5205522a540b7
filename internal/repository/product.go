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

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type productDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Name         string               `bson:"name"`
	Description  string               `bson:"description"`
	Price        primitive.Decimal128 `bson:"price"`
	Image        string               `bson:"image"`
	Category     string               `bson:"category"`
	CountInStock int                  `bson:"countInStock"`
	Rating       float64              `bson:"rating"`
	NumReviews   int                  `bson:"numReviews"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

type mongoProductRepo struct{ coll *mongo.Collection }

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepo{coll: db.Collection(productCollection)}
}

func (r *mongoProductRepo) Create(ctx context.Context, product *model.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	doc := productToDoc(product)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	product.ID = doc.ID
	return nil
}

func (r *mongoProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	var doc productDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return productFromDoc(&doc), nil
}

// List returns the full catalog, newest first. Pagination is the client's
// concern; the catalog stays small enough to return whole.
func (r *mongoProductRepo) List(ctx context.Context) ([]model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]model.Product, 0, len(docs))
	for i := range docs {
		products = append(products, *productFromDoc(&docs[i]))
	}
	return products, nil
}

func (r *mongoProductRepo) Update(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": product.ID}, bson.M{"$set": bson.M{
		"name":         product.Name,
		"description":  product.Description,
		"price":        toDec128(product.Price),
		"image":        product.Image,
		"category":     product.Category,
		"countInStock": product.CountInStock,
		"rating":       product.Rating,
		"numReviews":   product.NumReviews,
		"updatedAt":    product.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func productToDoc(p *model.Product) *productDoc {
	return &productDoc{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        toDec128(p.Price),
		Image:        p.Image,
		Category:     p.Category,
		CountInStock: p.CountInStock,
		Rating:       p.Rating,
		NumReviews:   p.NumReviews,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func productFromDoc(doc *productDoc) *model.Product {
	return &model.Product{
		ID:           doc.ID,
		Name:         doc.Name,
		Description:  doc.Description,
		Price:        fromDec128(doc.Price),
		Image:        doc.Image,
		Category:     doc.Category,
		CountInStock: doc.CountInStock,
		Rating:       doc.Rating,
		NumReviews:   doc.NumReviews,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}
