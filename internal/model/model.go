package model

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID
	Name      string
	Email     string
	Password  string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Categories a product may belong to. Anything else is rejected at create/update.
var Categories = []string{"Electronics", "Clothing", "Home & Kitchen", "Books", "Other"}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID           primitive.ObjectID
	Name         string
	Description  string
	Price        decimal.Decimal
	Image        string
	Category     string
	CountInStock int
	Rating       float64
	NumReviews   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CartItem denormalizes name/image/price at the moment the product was added;
// later catalog edits do not rewrite existing entries.
type CartItem struct {
	ProductID primitive.ObjectID
	Name      string
	Image     string
	Price     decimal.Decimal
	Quantity  int
}

// A Cart exists only after the user's first add. TotalPrice is recomputed from
// the items on every mutation, never adjusted incrementally.
type Cart struct {
	ID         primitive.ObjectID
	UserID     primitive.ObjectID
	Items      []CartItem
	TotalPrice decimal.Decimal
	UpdatedAt  time.Time
}

// Total returns the sum of price × quantity over all items.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the five fulfillment statuses. Any valid
// status may follow any other; there is no enforced ordering.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type ShippingAddress struct {
	FirstName string
	LastName  string
	Address   string
	City      string
	ZipCode   string
	Country   string
}

type PaymentResult struct {
	ID         string
	Status     string
	UpdateTime time.Time
}

type OrderItem struct {
	ProductID primitive.ObjectID
	Name      string
	Image     string
	Price     decimal.Decimal
	Quantity  int
}

// Order is an immutable snapshot taken at checkout. Only the payment fields
// and the fulfillment status may change afterwards, and only by an admin.
type Order struct {
	ID              primitive.ObjectID
	UserID          primitive.ObjectID
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   string
	TotalPrice      decimal.Decimal
	IsPaid          bool
	PaidAt          *time.Time
	PaymentResult   *PaymentResult
	Status          OrderStatus
	CreatedAt       time.Time
}

// OrderEvent is the audit record the worker writes for each placed order.
type OrderEvent struct {
	ID         primitive.ObjectID
	OrderID    primitive.ObjectID
	UserID     primitive.ObjectID
	Type       string
	RecordedAt time.Time
}

// OrderPlacedMessage is the payload published to the orders queue.
type OrderPlacedMessage struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}
