package client

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type Cart struct {
	ID         string          `json:"_id"`
	UserID     string          `json:"user"`
	Items      []CartItem      `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type cartMutation struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
}

// Cart returns a copy of the locally cached cart, which may lag or diverge
// from the server until the next successful FetchCart.
func (c *Client) Cart() *Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cart == nil {
		return nil
	}
	snapshot := *c.cart
	snapshot.Items = append([]CartItem(nil), c.cart.Items...)
	return &snapshot
}

// FetchCart retrieves the authoritative cart and replaces the local copy
// entirely. Any divergent local state is discarded.
func (c *Client) FetchCart(ctx context.Context, userID string) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, c.readTimeout)
	defer cancel()

	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart/"+userID, nil, &cart); err != nil {
		return nil, err
	}
	c.setCart(&cart)
	return c.Cart(), nil
}

// AddToCart resolves the product first, then attempts the server-side add.
// If the server call fails, the item is still added to the local cart so the
// caller perceives success; the divergence is not retried and disappears on
// the next successful fetch.
func (c *Client) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	product, err := c.Product(ctx, productID)
	if err != nil {
		return err
	}

	var cart Cart
	err = c.do(ctx, http.MethodPost, "/api/cart/add",
		cartMutation{UserID: userID, ProductID: productID, Quantity: quantity}, &cart)
	if err != nil {
		c.addLocally(userID, product, quantity)
		return nil
	}

	c.setCart(&cart)
	return nil
}

// UpdateCartItem sets the entry's quantity to exactly the given value.
func (c *Client) UpdateCartItem(ctx context.Context, userID, productID string, quantity int) error {
	var cart Cart
	err := c.do(ctx, http.MethodPut, "/api/cart/update",
		cartMutation{UserID: userID, ProductID: productID, Quantity: quantity}, &cart)
	if err != nil {
		return err
	}
	c.setCart(&cart)
	return nil
}

func (c *Client) RemoveFromCart(ctx context.Context, userID, productID string) error {
	var cart Cart
	err := c.do(ctx, http.MethodDelete, "/api/cart/remove",
		cartMutation{UserID: userID, ProductID: productID}, &cart)
	if err != nil {
		return err
	}
	c.setCart(&cart)
	return nil
}

func (c *Client) ClearCart(ctx context.Context, userID string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/cart/clear/"+userID, nil, nil); err != nil {
		return err
	}
	c.setCart(&Cart{UserID: userID, Items: []CartItem{}, TotalPrice: decimal.Zero})
	return nil
}

func (c *Client) setCart(cart *Cart) {
	c.mu.Lock()
	c.cart = cart
	c.mu.Unlock()
}

// addLocally applies the optimistic fallback: increment the entry if present,
// append otherwise, and recompute the cached total from scratch.
func (c *Client) addLocally(userID string, product *Product, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cart == nil {
		c.cart = &Cart{UserID: userID, Items: []CartItem{}}
	}

	found := false
	for i := range c.cart.Items {
		if c.cart.Items[i].ProductID == product.ID {
			c.cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		c.cart.Items = append(c.cart.Items, CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Price:     product.Price,
			Quantity:  quantity,
		})
	}

	total := decimal.Zero
	for _, item := range c.cart.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c.cart.TotalPrice = total
}
