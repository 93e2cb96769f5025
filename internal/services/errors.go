package services

import (
	"errors"
	"fmt"
)

// Erreurs métier exposées aux handlers. L'absence d'un avis et un avis
// appartenant à un autre utilisateur renvoient le même ErrReviewNotFound :
// on ne révèle jamais l'existence d'une ressource qui n'est pas à vous.
var (
	ErrDuplicateReview = errors.New("vous avez déjà laissé un avis sur ce produit")
	ErrReviewNotFound  = errors.New("avis introuvable")
	ErrOrderNotFound   = errors.New("commande introuvable")
	ErrConflict        = errors.New("conflit de mise à jour concurrente, réessayez")
)

// ProductNotFoundError identifie le produit fautif dans une commande ou un avis
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("produit %s introuvable", e.ProductID)
}
