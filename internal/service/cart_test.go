package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shoply/storefront-api/internal/model"
)

type mockCartRepo struct {
	carts map[primitive.ObjectID]*model.Cart
	saves int
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[primitive.ObjectID]*model.Cart)}
}

func (m *mockCartRepo) GetByUser(_ context.Context, userID primitive.ObjectID) (*model.Cart, error) {
	cart, ok := m.carts[userID]
	if !ok {
		return nil, nil
	}
	cp := *cart
	cp.Items = append([]model.CartItem(nil), cart.Items...)
	return &cp, nil
}

func (m *mockCartRepo) Save(_ context.Context, cart *model.Cart) error {
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	cp := *cart
	cp.Items = append([]model.CartItem(nil), cart.Items...)
	m.carts[cart.UserID] = &cp
	m.saves++
	return nil
}

func seedProduct(repo *mockProductRepo, price string) primitive.ObjectID {
	p := &model.Product{
		ID:    primitive.NewObjectID(),
		Name:  "Widget",
		Image: "/images/widget.jpg",
		Price: decimal.RequireFromString(price),
	}
	repo.products[p.ID] = p
	return p.ID
}

func TestCartService_Get_NotFound(t *testing.T) {
	svc := NewCartService(newMockCartRepo(), newMockProductRepo())
	_, err := svc.Get(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_Add_CreatesCart(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	pid := seedProduct(productRepo, "19.99")
	svc := NewCartService(cartRepo, productRepo)

	userID := primitive.NewObjectID()
	cart, err := svc.Add(context.Background(), userID, pid, 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, pid, cart.Items[0].ProductID)
	assert.Equal(t, "Widget", cart.Items[0].Name)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, cart.TotalPrice.Equal(decimal.RequireFromString("39.98")))

	saved, _ := cartRepo.GetByUser(context.Background(), userID)
	require.NotNil(t, saved)
	assert.True(t, saved.TotalPrice.Equal(cart.TotalPrice))
}

func TestCartService_Add_AccumulatesQuantity(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	pid := seedProduct(productRepo, "10.00")
	svc := NewCartService(cartRepo, productRepo)

	userID := primitive.NewObjectID()
	_, err := svc.Add(context.Background(), userID, pid, 1)
	require.NoError(t, err)
	cart, err := svc.Add(context.Background(), userID, pid, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.True(t, cart.TotalPrice.Equal(decimal.RequireFromString("40.00")))
}

func TestCartService_Add_CapturesPriceAtAddTime(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	pid := seedProduct(productRepo, "10.00")
	svc := NewCartService(cartRepo, productRepo)

	userID := primitive.NewObjectID()
	_, err := svc.Add(context.Background(), userID, pid, 1)
	require.NoError(t, err)

	// Raising the catalog price must not touch the existing entry.
	productRepo.products[pid].Price = decimal.RequireFromString("99.00")
	cart, err := svc.Add(context.Background(), userID, pid, 1)
	require.NoError(t, err)

	assert.True(t, cart.Items[0].Price.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, cart.TotalPrice.Equal(decimal.RequireFromString("20.00")))
}

func TestCartService_Add_ProductNotFound(t *testing.T) {
	svc := NewCartService(newMockCartRepo(), newMockProductRepo())
	_, err := svc.Add(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_Add_InvalidQuantity(t *testing.T) {
	svc := NewCartService(newMockCartRepo(), newMockProductRepo())
	_, err := svc.Add(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_UpdateQuantity_SetsExactly(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	pid := seedProduct(productRepo, "5.00")
	svc := NewCartService(cartRepo, productRepo)

	userID := primitive.NewObjectID()
	_, err := svc.Add(context.Background(), userID, pid, 5)
	require.NoError(t, err)

	// Set, not increment: 5 becomes 2, not 7.
	cart, err := svc.UpdateQuantity(context.Background(), userID, pid, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, cart.TotalPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestCartService_UpdateQuantity_MissingItem(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	pid := seedProduct(productRepo, "5.00")
	svc := NewCartService(cartRepo, productRepo)

	userID := primitive.NewObjectID()
	_, err := svc.Add(context.Background(), userID, pid, 1)
	require.NoError(t, err)
	saves := cartRepo.saves

	_, err = svc.UpdateQuantity(context.Background(), userID, primitive.NewObjectID(), 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
	assert.Equal(t, saves, cartRepo.saves, "failed update must not save")
}

func TestCartService_UpdateQuantity_CartNotFound(t *testing.T) {
	svc := NewCartService(newMockCartRepo(), newMockProductRepo())
	_, err := svc.UpdateQuantity(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 2)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_Remove(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	keep := seedProduct(productRepo, "10.00")
	drop := seedProduct(productRepo, "7.50")
	svc := NewCartService(cartRepo, productRepo)

	userID := primitive.NewObjectID()
	_, err := svc.Add(context.Background(), userID, keep, 2)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), userID, drop, 1)
	require.NoError(t, err)

	cart, err := svc.Remove(context.Background(), userID, drop)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, keep, cart.Items[0].ProductID)
	assert.True(t, cart.TotalPrice.Equal(decimal.RequireFromString("20.00")))
}

func TestCartService_Remove_AbsentProductIsNoOp(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	pid := seedProduct(productRepo, "10.00")
	svc := NewCartService(cartRepo, productRepo)

	userID := primitive.NewObjectID()
	_, err := svc.Add(context.Background(), userID, pid, 2)
	require.NoError(t, err)

	cart, err := svc.Remove(context.Background(), userID, primitive.NewObjectID())
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.TotalPrice.Equal(decimal.RequireFromString("20.00")))
}

func TestCartService_Clear(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	pid := seedProduct(productRepo, "10.00")
	svc := NewCartService(cartRepo, productRepo)

	userID := primitive.NewObjectID()
	_, err := svc.Add(context.Background(), userID, pid, 3)
	require.NoError(t, err)

	cart, err := svc.Clear(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalPrice.IsZero())

	// The document survives: a fresh Get still succeeds.
	cart, err = svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
