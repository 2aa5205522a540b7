package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shoply/storefront-api/internal/dto"
	"github.com/shoply/storefront-api/internal/model"
)

type mockProductRepo struct {
	products map[primitive.ObjectID]*model.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[primitive.ObjectID]*model.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, product *model.Product) error {
	product.ID = primitive.NewObjectID()
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *product
	return &cp, nil
}

func (m *mockProductRepo) List(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProductRepo) Update(_ context.Context, product *model.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.products[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.products, id)
	return nil
}

func TestProductService_Create(t *testing.T) {
	repo := newMockProductRepo()
	svc := NewProductService(repo)

	product, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:         "Wireless Bluetooth Headphones",
		Description:  "High-quality sound",
		Price:        decimal.RequireFromString("79.99"),
		Category:     "Electronics",
		CountInStock: 15,
	})
	require.NoError(t, err)
	assert.False(t, product.ID.IsZero())
	assert.Len(t, repo.products, 1)
}

func TestProductService_Create_InvalidCategory(t *testing.T) {
	svc := NewProductService(newMockProductRepo())
	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Mystery Box",
		Price:    decimal.RequireFromString("5.00"),
		Category: "Surprises",
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestProductService_Create_NegativePrice(t *testing.T) {
	svc := NewProductService(newMockProductRepo())
	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Freebie",
		Price:    decimal.RequireFromString("-1.00"),
		Category: "Other",
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	svc := NewProductService(newMockProductRepo())
	_, err := svc.GetByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Update_PartialFields(t *testing.T) {
	repo := newMockProductRepo()
	svc := NewProductService(repo)

	created, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:        "Yoga Mat",
		Description: "Non-slip",
		Price:       decimal.RequireFromString("29.99"),
		Category:    "Other",
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("24.99")
	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "Yoga Mat", updated.Name, "untouched fields keep their values")
}

func TestProductService_Delete_NotFound(t *testing.T) {
	svc := NewProductService(newMockProductRepo())
	err := svc.Delete(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProductNotFound)
}
