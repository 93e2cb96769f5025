package models

import "time"

// CartItem vit dans Redis (clé cart:<user_id>, TTL 30 jours).
// ReservedUntil matérialise la réservation de 30 minutes sur le stock :
// une entrée expirée est ignorée à la lecture et purgée à la prochaine écriture.
type CartItem struct {
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name"`
	ProductImage   string    `json:"product_image"`
	ProductPrice   float64   `json:"product_price"`
	Quantity       int       `json:"quantity"`
	SelectedSize   string    `json:"selected_size,omitempty"`
	SelectedColour string    `json:"selected_colour,omitempty"`
	ReservedUntil  time.Time `json:"reserved_until"`
}
