package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts de commande
const (
	OrderStatusProcessing = "processing"

	PaymentStatusPaid   = "paid"
	PaymentStatusFailed = "failed"
)

type Order struct {
	ID              gocql.UUID  `json:"id"`
	OrderNumber     string      `json:"order_number"`
	UserID          string      `json:"user_id"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"payment_status"`
	Subtotal        float64     `json:"subtotal"`
	Tax             float64     `json:"tax"`
	Shipping        float64     `json:"shipping"`
	Total           float64     `json:"total"`
	BillingAddress  Address     `json:"billing_address"`
	ShippingAddress Address     `json:"shipping_address"`
	SessionID       string      `json:"session_id"`
	PaymentIntentID string      `json:"payment_intent_id"`
	Items           []OrderItem `json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// OrderItem : ligne de commande, immuable une fois écrite.
// Prix et quantité dénormalisés depuis le panier au moment du paiement.
type OrderItem struct {
	OrderID   gocql.UUID `json:"order_id"`
	ProductID string     `json:"product_id"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
	Price     float64    `json:"price"`
}

type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
}
