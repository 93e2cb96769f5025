package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Catégories genre/âge autorisées pour un produit
const (
	GenderAgeMen    = "men"
	GenderAgeWomen  = "women"
	GenderAgeUnisex = "unisex"
	GenderAgeKids   = "kids"
)

// Le stock est borné à 255 unités par produit (contrainte catalogue)
const MaxStock = 255

type Product struct {
	ID                gocql.UUID   `json:"id" db:"product_id"`
	Name              string       `json:"name" db:"name"`
	Description       string       `json:"description" db:"description"`
	Price             float64      `json:"price" db:"price"`
	Stock             int          `json:"stock" db:"stock"`
	Colours           []string     `json:"colours" db:"colours"`
	Sizes             []string     `json:"sizes" db:"sizes"`
	Image             string       `json:"image" db:"image"`
	Images            []string     `json:"images" db:"images"`
	CategoryID        gocql.UUID   `json:"category_id" db:"category_id"`
	GenderAgeCategory string       `json:"gender_age_category" db:"gender_age_category"`
	Reviews           []gocql.UUID `json:"reviews" db:"reviews"`
	NumberOfReviews   int          `json:"number_of_reviews" db:"number_of_reviews"`
	AverageRating     float64      `json:"average_rating" db:"average_rating"`
	DateAdded         time.Time    `json:"date_added" db:"date_added"`
	UpdatedAt         time.Time    `json:"updated_at" db:"updated_at"`
}

// IsValidGenderAgeCategory vérifie la valeur de l'enum genre/âge
func IsValidGenderAgeCategory(v string) bool {
	switch v {
	case GenderAgeMen, GenderAgeWomen, GenderAgeUnisex, GenderAgeKids:
		return true
	}
	return false
}
