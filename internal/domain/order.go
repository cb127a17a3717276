package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
)

// OrderStatus represents the current status of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus rejects anything outside the four known statuses
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch status := OrderStatus(s); status {
	case StatusPending, StatusPreparing, StatusCompleted, StatusCancelled:
		return status, nil
	default:
		return "", errors.NewValidation("Invalid status value")
	}
}

// IsTerminal reports whether no transition leaves this status
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo checks the forward-or-terminal order lifecycle
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusPreparing || next == StatusCancelled
	case StatusPreparing:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// ShippingAddress is where an order is delivered
type ShippingAddress struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Country    string `json:"country"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

// Validate requires every field
func (a ShippingAddress) Validate() error {
	fields := []struct{ name, value string }{
		{"name", a.Name},
		{"email", a.Email},
		{"phone", a.Phone},
		{"country", a.Country},
		{"city", a.City},
		{"postalCode", a.PostalCode},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return errors.NewValidation(fmt.Sprintf("Shipping address %s is required", f.name))
		}
	}
	return nil
}

// CartItem is a snapshot of a menu item at order time
type CartItem struct {
	MenuItemID string  `json:"id"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Image      string  `json:"image01,omitempty"`
}

// Order represents a customer order
type Order struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"user"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CartItems       []CartItem      `json:"cartItems"`
	TotalAmount     float64         `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// OrderCustomer is the subset of a user shown next to an order
type OrderCustomer struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderView is an order with its customer resolved, when the user still exists
type OrderView struct {
	Order
	User *OrderCustomer `json:"user"`
}

// CreateOrderInput carries the fields of a new order
type CreateOrderInput struct {
	UserID          string          `json:"userId"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CartItems       []CartItem      `json:"cartItems"`
	TotalAmount     float64         `json:"totalAmount"`
}

// NewOrder validates input and creates a pending order
func NewOrder(in CreateOrderInput) (*Order, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, errors.NewValidation("User is required")
	}
	if err := in.ShippingAddress.Validate(); err != nil {
		return nil, err
	}
	if len(in.CartItems) == 0 {
		return nil, errors.NewValidation("Order must contain at least one item")
	}
	for _, item := range in.CartItems {
		if strings.TrimSpace(item.MenuItemID) == "" || strings.TrimSpace(item.Title) == "" {
			return nil, errors.NewValidation("Cart item id and title are required")
		}
		if item.Quantity <= 0 {
			return nil, errors.NewValidation("Cart item quantity must be positive")
		}
		if item.Price < 0 {
			return nil, errors.NewValidation("Cart item price cannot be negative")
		}
	}
	if in.TotalAmount < 0 {
		return nil, errors.NewValidation("Total amount cannot be negative")
	}

	items := make([]CartItem, len(in.CartItems))
	copy(items, in.CartItems)

	return &Order{
		UserID:          strings.TrimSpace(in.UserID),
		ShippingAddress: in.ShippingAddress,
		CartItems:       items,
		TotalAmount:     in.TotalAmount,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// CheckTransition returns a validation error when the order may not move to next
func (o *Order) CheckTransition(next OrderStatus) error {
	if o.Status.IsTerminal() {
		return errors.NewValidation(fmt.Sprintf("Order is %s and can no longer change status", o.Status))
	}
	if !o.Status.CanTransitionTo(next) {
		return errors.NewValidation(fmt.Sprintf("Cannot change order status from %s to %s", o.Status, next))
	}
	return nil
}

// DisplayID renders the short identifier shown to admins, e.g. #ORD-3F9A
func (o *Order) DisplayID() string {
	id := o.ID
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return "#ORD-" + strings.ToUpper(id)
}

// ItemsSummary renders cart items as "2x Margherita, 1x Lassi"
func (o *Order) ItemsSummary() string {
	parts := make([]string, 0, len(o.CartItems))
	for _, item := range o.CartItems {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Title))
	}
	return strings.Join(parts, ", ")
}
