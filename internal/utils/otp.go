package utils

import (
	"crypto/rand"
	"math/big"
	"time"
)

// Durée de validité d'un code OTP
const OTPValidity = 10 * time.Minute

// GenerateOTP produit un code à 6 chiffres (100000–999999)
func GenerateOTP() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 100000, nil
}
