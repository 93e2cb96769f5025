package store

import (
	"errors"
	"fmt"
)

// ErrNotFound : la ligne demandée n'existe pas
var ErrNotFound = errors.New("enregistrement introuvable")

// InsufficientStockError : le stock courant ne couvre pas la quantité demandée
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuffisant pour le produit %s : demandé %d, disponible %d",
		e.ProductID, e.Requested, e.Available)
}
