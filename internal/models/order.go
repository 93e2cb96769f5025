package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts possibles d'une commande
const (
	StatusPending        = "pending"
	StatusProcessed      = "processed"
	StatusShipped        = "shipped"
	StatusOutForDelivery = "out-for-delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
	StatusOnHold         = "on-hold"
	StatusExpired        = "expired"
)

// OrderItem est une copie figée du produit au moment de la commande.
// Les modifications ultérieures du catalogue ne touchent jamais une
// commande passée.
type OrderItem struct {
	ProductID      gocql.UUID `json:"product_id"`
	ProductName    string     `json:"product_name"`
	ProductImage   string     `json:"product_image"`
	ProductPrice   float64    `json:"product_price"`
	Quantity       int        `json:"quantity"`
	SelectedSize   string     `json:"selected_size,omitempty"`
	SelectedColour string     `json:"selected_colour,omitempty"`
}

type Order struct {
	ID              gocql.UUID  `json:"id" db:"order_id"`
	UserID          string      `json:"user_id" db:"user_id"`
	Items           []OrderItem `json:"items" db:"items"`
	ShippingAddress string      `json:"shipping_address" db:"shipping_address"`
	City            string      `json:"city" db:"city"`
	PostalCode      string      `json:"postal_code,omitempty" db:"postal_code"`
	Country         string      `json:"country" db:"country"`
	Phone           string      `json:"phone" db:"phone"`
	PaymentID       string      `json:"payment_id,omitempty" db:"payment_id"`
	Status          string      `json:"status" db:"status"`
	StatusHistory   []string    `json:"status_history" db:"status_history"`
	TotalPrice      float64     `json:"total_price" db:"total_price"`
	DateOrdered     time.Time   `json:"date_ordered" db:"date_ordered"`
}

// IsValidStatus vérifie qu'un statut fait partie de l'enum
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessed, StatusShipped, StatusOutForDelivery,
		StatusDelivered, StatusCancelled, StatusOnHold, StatusExpired:
		return true
	}
	return false
}
