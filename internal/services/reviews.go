package services

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/gocql/gocql"

	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
)

// Tentatives de recalcul d'agrégat avant de remonter ErrConflict
const maxAggregateRetries = 5

// ReviewService gère les avis et maintient les agrégats dénormalisés du
// produit (number_of_reviews, average_rating). Le recalcul repart toujours
// de l'ensemble persistant complet des avis — jamais de moyenne glissante,
// qui dériverait.
type ReviewService struct {
	catalog store.Catalog
	reviews store.Reviews
}

func NewReviewService(catalog store.Catalog, reviews store.Reviews) *ReviewService {
	return &ReviewService{catalog: catalog, reviews: reviews}
}

// AddReview crée un avis (un seul par couple utilisateur/produit) et
// recalcule les agrégats du produit.
func (s *ReviewService) AddReview(ctx context.Context, productID gocql.UUID, userID, userName string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, errors.New("la note doit être comprise entre 1 et 5")
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &ProductNotFoundError{ProductID: productID.String()}
		}
		return nil, err
	}

	if _, err := s.reviews.GetByUserAndProduct(ctx, userID, productID); err == nil {
		return nil, ErrDuplicateReview
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	review := &models.Review{
		ID:        gocql.TimeUUID(),
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	if err := s.reviews.InsertReview(ctx, review); err != nil {
		return nil, err
	}

	if err := s.attachAndRecompute(ctx, productID, review.ID); err != nil {
		return nil, err
	}

	log.Printf("⭐ Avis %s créé pour produit %s (note %d/5)", review.ID, productID, rating)
	return review, nil
}

// UpdateReview modifie partiellement un avis de son auteur puis recalcule
// les agrégats du produit. Les champs nil conservent leur valeur.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID gocql.UUID, userID string, rating *int, comment *string) (*models.Review, error) {
	review, err := s.ownedReview(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}

	if rating != nil {
		if *rating < 1 || *rating > 5 {
			return nil, errors.New("la note doit être comprise entre 1 et 5")
		}
		review.Rating = *rating
	}
	if comment != nil {
		review.Comment = *comment
	}

	if err := s.reviews.UpdateReview(ctx, review); err != nil {
		return nil, err
	}

	if err := s.recompute(ctx, review.ProductID, nil, nil); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview supprime un avis de son auteur, le retire de la liste du
// produit et recalcule les agrégats (0 si plus aucun avis).
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID gocql.UUID, userID string) error {
	review, err := s.ownedReview(ctx, reviewID, userID)
	if err != nil {
		return err
	}

	if err := s.reviews.DeleteReview(ctx, reviewID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if err := s.recompute(ctx, review.ProductID, nil, &reviewID); err != nil {
		return err
	}

	log.Printf("🗑️ Avis %s supprimé du produit %s", reviewID, review.ProductID)
	return nil
}

// ListByProduct retourne les avis d'un produit
func (s *ReviewService) ListByProduct(ctx context.Context, productID gocql.UUID) ([]models.Review, error) {
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &ProductNotFoundError{ProductID: productID.String()}
		}
		return nil, err
	}
	return s.reviews.ListByProduct(ctx, productID)
}

// ownedReview retourne l'avis seulement s'il appartient à l'appelant.
// Absence et mauvais propriétaire sont indiscernables.
func (s *ReviewService) ownedReview(ctx context.Context, reviewID gocql.UUID, userID string) (*models.Review, error) {
	review, err := s.reviews.GetReview(ctx, reviewID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

func (s *ReviewService) attachAndRecompute(ctx context.Context, productID, reviewID gocql.UUID) error {
	return s.recompute(ctx, productID, &reviewID, nil)
}

// recompute relit le produit, construit la nouvelle liste d'avis (ajout ou
// retrait éventuel), recalcule la moyenne sur l'ensemble persistant et
// applique le tout en CAS. En cas de mutation concurrente la condition
// échoue et on repart d'une lecture fraîche, jusqu'à maxAggregateRetries.
func (s *ReviewService) recompute(ctx context.Context, productID gocql.UUID, add, remove *gocql.UUID) error {
	for attempt := 0; attempt < maxAggregateRetries; attempt++ {
		product, err := s.catalog.GetProduct(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			// Le produit a disparu entre-temps, rien à agréger
			return nil
		}
		if err != nil {
			return err
		}

		prev := product.Reviews
		next := make([]gocql.UUID, 0, len(prev)+1)
		for _, id := range prev {
			if remove != nil && id == *remove {
				continue
			}
			next = append(next, id)
		}
		if add != nil {
			next = append(next, *add)
		}

		avg := 0.0
		if len(next) > 0 {
			reviews, err := s.reviews.GetReviews(ctx, next)
			if err != nil {
				return err
			}
			if len(reviews) != len(next) {
				// Référence pendante (suppression interrompue) : on élague
				// pour que le compte et la moyenne décrivent le même ensemble
				existing := make(map[gocql.UUID]struct{}, len(reviews))
				for _, r := range reviews {
					existing[r.ID] = struct{}{}
				}
				pruned := next[:0]
				for _, id := range next {
					if _, ok := existing[id]; ok {
						pruned = append(pruned, id)
					}
				}
				next = pruned
			}
			if len(reviews) > 0 {
				var sum int
				for _, r := range reviews {
					sum += r.Rating
				}
				avg = roundRating(float64(sum) / float64(len(reviews)))
			}
		}
		count := len(next)

		applied, err := s.catalog.ApplyReviewAggregate(ctx, productID, prev, next, count, avg)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
		log.Printf("⚠️ CAS agrégat produit %s perdu (tentative %d), relecture", productID, attempt+1)
	}

	return ErrConflict
}

// roundRating arrondit à une décimale (arrondi au plus proche)
func roundRating(x float64) float64 {
	return math.Round(x*10) / 10
}
