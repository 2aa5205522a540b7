package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoply/storefront-api/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// --- Product ---

type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	Image        string          `json:"image"`
	Category     string          `json:"category" binding:"required"`
	CountInStock int             `json:"countInStock" binding:"min=0"`
	Rating       float64         `json:"rating" binding:"min=0,max=5"`
	NumReviews   int             `json:"numReviews" binding:"min=0"`
}

type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	Image        *string          `json:"image"`
	Category     *string          `json:"category"`
	CountInStock *int             `json:"countInStock" binding:"omitempty,min=0"`
	Rating       *float64         `json:"rating" binding:"omitempty,min=0,max=5"`
	NumReviews   *int             `json:"numReviews" binding:"omitempty,min=0"`
}

type ProductResponse struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	Category     string          `json:"category"`
	CountInStock int             `json:"countInStock"`
	Rating       float64         `json:"rating"`
	NumReviews   int             `json:"numReviews"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// --- Cart ---

type AddToCartRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type RemoveFromCartRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
}

type CartItemResponse struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type CartResponse struct {
	ID         string             `json:"_id"`
	UserID     string             `json:"user"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
}

// --- Order ---

type OrderItemRequest struct {
	ProductID string          `json:"product" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
}

type ShippingAddressRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
	Country   string `json:"country" binding:"required"`
}

type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest     `json:"orderItems" binding:"dive"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PaymentResultRequest struct {
	ID     string `json:"id"`
	Status string `json:"status" binding:"required"`
}

type PayOrderRequest struct {
	PaymentResult PaymentResultRequest `json:"paymentResult" binding:"required"`
}

type PaymentResultResponse struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	UpdateTime time.Time `json:"update_time"`
}

type OrderItemResponse struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type OrderResponse struct {
	ID              string                 `json:"_id"`
	UserID          string                 `json:"user"`
	OrderItems      []OrderItemResponse    `json:"orderItems"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	TotalPrice      decimal.Decimal        `json:"totalPrice"`
	IsPaid          bool                   `json:"isPaid"`
	PaidAt          *time.Time             `json:"paidAt,omitempty"`
	PaymentResult   *PaymentResultResponse `json:"paymentResult,omitempty"`
	Status          model.OrderStatus      `json:"status"`
	CreatedAt       time.Time              `json:"createdAt"`
}
