package models

import (
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusConfirmed OrderStatus = "Confirmed"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {StatusDelivered: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// Terminal reports whether no further transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(validNext[s]) == 0
}

// CanTransitionTo reports whether the forward progression allows moving from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return validNext[s][next]
}

// PaymentMethod is a label only; no payment is captured.
type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "COD"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
	PaymentEWallet      PaymentMethod = "E-Wallet"
	PaymentCreditCard   PaymentMethod = "Credit Card"
)

// Valid reports whether m is an accepted payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentBankTransfer, PaymentEWallet, PaymentCreditCard:
		return true
	}
	return false
}

// Order represents a customer preorder.
type Order struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	CustomerName  string        `json:"customerName" gorm:"type:varchar(200);not null" bson:"customerName"`
	Email         string        `json:"email" gorm:"type:varchar(255);not null" bson:"email"`
	Phone         string        `json:"phone" gorm:"type:varchar(50)" bson:"phone"`
	Address       string        `json:"address" bson:"address"`
	ProductID     string        `json:"productId" gorm:"type:varchar(36);index;not null" bson:"productId"`
	Size          string        `json:"size" gorm:"type:varchar(32)" bson:"size"`
	PaymentMethod PaymentMethod `json:"paymentMethod" gorm:"type:varchar(32)" bson:"paymentMethod"`
	Status        OrderStatus   `json:"status" gorm:"type:varchar(16);index;not null" bson:"status"`
	Notes         string        `json:"notes" bson:"notes"`
	CreatedAt     time.Time     `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// OrderDetail is an order joined with the current state of its product.
// Product is nil when the product has been deleted since the order was placed.
type OrderDetail struct {
	Order
	Product *Product `json:"product"`
}

// OrderInput is the checkout form submitted by a customer.
type OrderInput struct {
	CustomerName  string `json:"customerName" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email,max=255"`
	Phone         string `json:"phone" validate:"required,max=50"`
	Address       string `json:"address" validate:"required,max=1000"`
	ProductID     string `json:"productId" validate:"required,max=64"`
	Size          string `json:"size" validate:"required,max=32"`
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,payment_method"`
	Notes         string `json:"notes" validate:"max=2000"`
}

// Order builds a pending order from the input. PaymentMethod defaults to COD.
func (in OrderInput) Order() *Order {
	method := PaymentMethod(strings.TrimSpace(in.PaymentMethod))
	if method == "" {
		method = PaymentCOD
	}
	return &Order{
		CustomerName:  strings.TrimSpace(in.CustomerName),
		Email:         strings.TrimSpace(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		Address:       in.Address,
		ProductID:     strings.TrimSpace(in.ProductID),
		Size:          strings.TrimSpace(in.Size),
		PaymentMethod: method,
		Status:        StatusPending,
		Notes:         in.Notes,
	}
}

// OrderStatusUpdate is the admin action on an existing order.
type OrderStatusUpdate struct {
	Status string `json:"status" validate:"required,order_status"`
	Notes  string `json:"notes" validate:"max=2000"`
}

// OrderListParams filters the admin order listing.
type OrderListParams struct {
	Status   string
	Page     int
	PageSize int
}

// OrderPage is one page of the admin order listing.
type OrderPage struct {
	Orders []OrderDetail `json:"orders"`
	Pagination
}

// OrderConfirmation is what the customer is told after placing an order.
type OrderConfirmation struct {
	OrderID       string        `json:"orderId"`
	CustomerName  string        `json:"customerName"`
	ProductName   string        `json:"productName"`
	Size          string        `json:"size"`
	Price         float64       `json:"price"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// NewOrderConfirmation summarises an order and the product it was placed for.
func NewOrderConfirmation(order *Order, product *Product) OrderConfirmation {
	return OrderConfirmation{
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		ProductName:   product.Name,
		Size:          order.Size,
		Price:         product.Price,
		PaymentMethod: order.PaymentMethod,
	}
}

// DashboardStats are the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalProducts int64 `json:"totalProducts"`
	TotalOrders   int64 `json:"totalOrders"`
	PendingOrders int64 `json:"pendingOrders"`
	ShippedOrders int64 `json:"shippedOrders"`
}
