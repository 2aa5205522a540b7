package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shoply/storefront-api/internal/model"
	"github.com/shoply/storefront-api/internal/repository"
)

var (
	ErrEmptyOrder        = errors.New("no order items")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderAccessDenied = errors.New("access denied")
	ErrInvalidStatus     = errors.New("invalid order status")
)

// Flat 10% tax, free shipping.
var taxRate = decimal.RequireFromString("0.10")

type OrderService struct {
	orderRepo repository.OrderRepository
	amqpCh    *amqp.Channel
}

func NewOrderService(orderRepo repository.OrderRepository, amqpCh *amqp.Channel) *OrderService {
	return &OrderService{orderRepo: orderRepo, amqpCh: amqpCh}
}

// Place snapshots the submitted items into an immutable order. The total is
// recomputed server-side as subtotal + 10% tax regardless of what the client
// claims. Clearing the cart is the caller's responsibility and happens as a
// separate, non-atomic request.
func (s *OrderService) Place(ctx context.Context, userID primitive.ObjectID, items []model.OrderItem, address model.ShippingAddress, paymentMethod string) (*model.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := &model.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		TotalPrice:      subtotal.Add(subtotal.Mul(taxRate)),
		Status:          model.OrderStatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Best-effort notification; order placement does not depend on the broker.
	if s.amqpCh != nil {
		msg, _ := json.Marshal(model.OrderPlacedMessage{
			OrderID: order.ID.Hex(),
			UserID:  userID.Hex(),
		})
		_ = s.amqpCh.PublishWithContext(ctx, "", "orders", false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
		})
	}

	return order, nil
}

func (s *OrderService) GetByID(ctx context.Context, orderID, userID primitive.ObjectID, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isAdmin && order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

// List returns every order for admins and only the caller's own otherwise.
func (s *OrderService) List(ctx context.Context, userID primitive.ObjectID, isAdmin bool) ([]model.Order, error) {
	if isAdmin {
		return s.orderRepo.ListAll(ctx)
	}
	return s.orderRepo.ListByUser(ctx, userID)
}

// MarkPaid records the payment result and flips the paid flag. Admin only;
// the handler enforces the gate.
func (s *OrderService) MarkPaid(ctx context.Context, orderID primitive.ObjectID, result model.PaymentResult) (*model.Order, error) {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	result.UpdateTime = now

	if err := s.orderRepo.SetPaid(ctx, orderID, result, now); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("mark order paid: %w", err)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// SetStatus moves the order to any of the five fulfillment statuses. There is
// no transition graph: any status may follow any other.
func (s *OrderService) SetStatus(ctx context.Context, orderID primitive.ObjectID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if err := s.orderRepo.SetStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("set order status: %w", err)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}
