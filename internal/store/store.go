// Package store définit les interfaces de persistance consommées par les
// services. Deux implémentations : scylla (production) et memory (tests).
package store

import (
	"context"

	"github.com/gocql/gocql"

	"vastra_back_end/internal/models"
)

// ProductFilter porte les filtres de listing du catalogue
type ProductFilter struct {
	CategoryID        *gocql.UUID
	Name              string
	GenderAgeCategory string
	MinPrice          *float64
	MaxPrice          *float64
	Colours           []string
	Sizes             []string
	Page              int
	Limit             int
	Sort              string // "champ:asc" ou "champ:desc", défaut date_added:desc
}

type Catalog interface {
	GetProduct(ctx context.Context, id gocql.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int, error)
	InsertProduct(ctx context.Context, p *models.Product) error

	// UpdateProduct met à jour les champs catalogue uniquement. Le stock et
	// les agrégats d'avis ont leurs propres chemins atomiques (SetStock,
	// Increment/DecrementStock, ApplyReviewAggregate) et ne sont jamais
	// écrasés par cette opération, même si la struct porte des valeurs périmées.
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id gocql.UUID) error

	// SetStock assigne une valeur de stock absolue (réassort admin),
	// sérialisée avec les décréments concurrents
	SetStock(ctx context.Context, id gocql.UUID, stock int) error

	// DecrementStock retire qty unités de stock de façon atomique
	// (decrement-if-sufficient). Retourne InsufficientStockError si le
	// stock courant ne couvre pas qty, ErrNotFound si le produit n'existe pas.
	DecrementStock(ctx context.Context, id gocql.UUID, qty int) error

	// IncrementStock restitue qty unités (compensation d'une commande avortée,
	// réassort admin)
	IncrementStock(ctx context.Context, id gocql.UUID, qty int) error

	// ApplyReviewAggregate remplace la liste d'avis et les agrégats du produit,
	// à condition que la liste persistée soit encore égale à prev (CAS).
	// Retourne false sans erreur si la condition a échoué.
	ApplyReviewAggregate(ctx context.Context, id gocql.UUID, prev, next []gocql.UUID, count int, avg float64) (bool, error)
}

type Reviews interface {
	GetReview(ctx context.Context, id gocql.UUID) (*models.Review, error)
	GetByUserAndProduct(ctx context.Context, userID string, productID gocql.UUID) (*models.Review, error)
	GetReviews(ctx context.Context, ids []gocql.UUID) ([]models.Review, error)
	ListByProduct(ctx context.Context, productID gocql.UUID) ([]models.Review, error)
	InsertReview(ctx context.Context, r *models.Review) error
	UpdateReview(ctx context.Context, r *models.Review) error
	DeleteReview(ctx context.Context, id gocql.UUID) error
}

type Orders interface {
	InsertOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id gocql.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)

	// UpdateStatus persiste le nouveau statut et l'historique complet
	UpdateStatus(ctx context.Context, id gocql.UUID, status string, history []string) error
}

type Users interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	InsertUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
}

type Categories interface {
	GetCategory(ctx context.Context, id gocql.UUID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	InsertCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id gocql.UUID) error
}
