package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shoply/storefront-api/internal/model"
)

type mockOrderRepo struct {
	orders map[primitive.ObjectID]*model.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[primitive.ObjectID]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now().UTC()
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *order
	return &cp, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	out := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) SetPaid(_ context.Context, id primitive.ObjectID, result model.PaymentResult, paidAt time.Time) error {
	order, ok := m.orders[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	order.IsPaid = true
	order.PaidAt = &paidAt
	order.PaymentResult = &result
	return nil
}

func (m *mockOrderRepo) SetStatus(_ context.Context, id primitive.ObjectID, status model.OrderStatus) error {
	order, ok := m.orders[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	order.Status = status
	return nil
}

func testAddress() model.ShippingAddress {
	return model.ShippingAddress{
		FirstName: "John",
		LastName:  "Doe",
		Address:   "123 Main St",
		City:      "Springfield",
		ZipCode:   "12345",
		Country:   "USA",
	}
}

func TestOrderService_Place_ComputesTotalWithTax(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewOrderService(repo, nil)

	items := []model.OrderItem{
		{ProductID: primitive.NewObjectID(), Name: "A", Price: decimal.RequireFromString("10.00"), Quantity: 2},
		{ProductID: primitive.NewObjectID(), Name: "B", Price: decimal.RequireFromString("5.00"), Quantity: 1},
	}
	order, err := svc.Place(context.Background(), primitive.NewObjectID(), items, testAddress(), "PayPal")
	require.NoError(t, err)

	// 25.00 subtotal plus 10% tax.
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("27.50")))
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.False(t, order.IsPaid)
	assert.Nil(t, order.PaidAt)
	assert.False(t, order.ID.IsZero())
}

func TestOrderService_Place_Empty(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), nil)
	_, err := svc.Place(context.Background(), primitive.NewObjectID(), nil, testAddress(), "PayPal")
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestOrderService_GetByID_AccessDenied(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewOrderService(repo, nil)

	owner := primitive.NewObjectID()
	items := []model.OrderItem{{ProductID: primitive.NewObjectID(), Price: decimal.RequireFromString("1.00"), Quantity: 1}}
	order, err := svc.Place(context.Background(), owner, items, testAddress(), "Stripe")
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), order.ID, primitive.NewObjectID(), false)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)

	// Admins can read anyone's order.
	got, err := svc.GetByID(context.Background(), order.ID, primitive.NewObjectID(), true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderService_List_AdminSeesAll(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewOrderService(repo, nil)

	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	items := []model.OrderItem{{ProductID: primitive.NewObjectID(), Price: decimal.RequireFromString("1.00"), Quantity: 1}}
	_, err := svc.Place(context.Background(), alice, items, testAddress(), "PayPal")
	require.NoError(t, err)
	_, err = svc.Place(context.Background(), bob, items, testAddress(), "PayPal")
	require.NoError(t, err)

	all, err := svc.List(context.Background(), alice, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := svc.List(context.Background(), alice, false)
	require.NoError(t, err)
	assert.Len(t, own, 1)
}

func TestOrderService_MarkPaid(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewOrderService(repo, nil)

	items := []model.OrderItem{{ProductID: primitive.NewObjectID(), Price: decimal.RequireFromString("9.99"), Quantity: 1}}
	order, err := svc.Place(context.Background(), primitive.NewObjectID(), items, testAddress(), "PayPal")
	require.NoError(t, err)

	paid, err := svc.MarkPaid(context.Background(), order.ID, model.PaymentResult{Status: "COMPLETED"})
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	require.NotNil(t, paid.PaymentResult)
	assert.NotEmpty(t, paid.PaymentResult.ID, "a result id is generated when the gateway omits one")
}

func TestOrderService_MarkPaid_NotFound(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), nil)
	_, err := svc.MarkPaid(context.Background(), primitive.NewObjectID(), model.PaymentResult{})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_SetStatus(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewOrderService(repo, nil)

	items := []model.OrderItem{{ProductID: primitive.NewObjectID(), Price: decimal.RequireFromString("1.00"), Quantity: 1}}
	order, err := svc.Place(context.Background(), primitive.NewObjectID(), items, testAddress(), "PayPal")
	require.NoError(t, err)

	updated, err := svc.SetStatus(context.Background(), order.ID, model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)

	_, err = svc.SetStatus(context.Background(), order.ID, model.OrderStatus("teleported"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
