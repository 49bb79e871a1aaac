package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// PaymentMethodCOD is the cash-on-delivery payment method. Orders paid any
// other way start in Processing instead of Pending.
const PaymentMethodCOD = "cod"

// ShippingAddress is the destination of an order. Region drives the
// remote-area shipping surcharge.
type ShippingAddress struct {
	Line1      string `json:"line1" db:"ship_line1"`
	City       string `json:"city" db:"ship_city"`
	Region     string `json:"region" db:"ship_region"`
	PostalCode string `json:"postalCode" db:"ship_postal_code"`
}

// Payment records how an order was paid for. Amount must equal the
// server-computed order total within the pricing tolerance.
type Payment struct {
	Method        string  `json:"method" db:"payment_method"`
	TransactionID string  `json:"transactionId" db:"payment_transaction_id"`
	Amount        float64 `json:"amount" db:"payment_amount"`
	Currency      string  `json:"currency" db:"payment_currency"`
}

// OrderItem is a line item in an order. UnitPrice is always the
// catalog-confirmed price taken at validation time, never the
// client-submitted one.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unitPrice" db:"unit_price"`
}

// Order represents a committed customer order.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	CustomerID      string          `json:"customerId" db:"customer_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Payment         Payment         `json:"payment"`
	Status          OrderStatus     `json:"status" db:"status"`
	Paid            bool            `json:"paid" db:"paid"`
	ShippingCost    float64         `json:"shippingCost" db:"shipping_cost"`
	TaxAmount       float64         `json:"taxAmount" db:"tax_amount"`
	TotalPrice      float64         `json:"totalPrice" db:"total_price"`
	Notes           string          `json:"notes,omitempty" db:"notes"`
	IdempotencyKey  string          `json:"-" db:"idempotency_key"`
	Attachments     []MediaRef      `json:"attachments,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderRequest represents the request payload for placing an order. Item
// prices are client-submitted estimates and are re-confirmed against the
// catalog before anything is persisted.
type OrderRequest struct {
	CustomerID      string             `json:"customerId"`
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	Payment         Payment            `json:"payment"`
	Notes           string             `json:"notes,omitempty"`
	IdempotencyKey  string             `json:"-"`
}

// OrderItemRequest is a single item in an order request.
type OrderItemRequest struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
