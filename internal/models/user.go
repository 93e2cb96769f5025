package models

import (
	"time"

	"github.com/gocql/gocql"
)

// WishlistItem est une copie figée du produit (même principe que OrderItem)
type WishlistItem struct {
	ProductID    gocql.UUID `json:"product_id"`
	ProductName  string     `json:"product_name"`
	ProductImage string     `json:"product_image"`
	ProductPrice float64    `json:"product_price"`
}

type User struct {
	ID           string `json:"id" db:"user_id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Phone        string `json:"phone" db:"phone"`
	Street       string `json:"street,omitempty" db:"street"`
	Apartment    string `json:"apartment,omitempty" db:"apartment"`
	City         string `json:"city,omitempty" db:"city"`
	PostalCode   string `json:"postal_code,omitempty" db:"postal_code"`
	Country      string `json:"country,omitempty" db:"country"`
	IsAdmin      bool   `json:"is_admin" db:"is_admin"`
	IsVerified   bool   `json:"is_verified" db:"is_verified"`

	// Champs OTP, jamais exposés dans les réponses JSON
	VerificationOtp         *int       `json:"-" db:"verification_otp"`
	VerificationOtpExpires  *time.Time `json:"-" db:"verification_otp_expires"`
	ResetPasswordOtp        *int       `json:"-" db:"reset_password_otp"`
	ResetPasswordOtpExpires *time.Time `json:"-" db:"reset_password_otp_expires"`

	Wishlist  []WishlistItem `json:"wishlist" db:"wishlist"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
