package client

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

type Order struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"user"`
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type placeOrderRequest struct {
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
}

// PlaceOrder submits the given items as an order. It does not touch the cart;
// clearing it afterwards is the caller's responsibility (see Checkout).
func (c *Client) PlaceOrder(ctx context.Context, items []OrderItem, address ShippingAddress, paymentMethod string) (*Order, error) {
	var order Order
	err := c.do(ctx, http.MethodPost, "/api/orders",
		placeOrderRequest{OrderItems: items, ShippingAddress: address, PaymentMethod: paymentMethod}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Checkout places an order from the locally cached cart, then clears the
// server cart with a second, independent request. The two steps are not
// atomic: if the clear fails the order still stands and the cart keeps its
// items until the user empties it.
func (c *Client) Checkout(ctx context.Context, userID string, address ShippingAddress, paymentMethod string) (*Order, error) {
	cart := c.Cart()
	if cart == nil || len(cart.Items) == 0 {
		return nil, &APIError{StatusCode: http.StatusBadRequest, Message: "cart is empty"}
	}

	items := make([]OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	order, err := c.PlaceOrder(ctx, items, address, paymentMethod)
	if err != nil {
		return nil, err
	}

	_ = c.ClearCart(ctx, userID)
	return order, nil
}

func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.doRead(ctx, "/api/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
