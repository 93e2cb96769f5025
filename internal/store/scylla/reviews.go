package scylla

import (
	"context"
	"errors"

	"github.com/gocql/gocql"

	"vastra_back_end/internal/database"
	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
)

// ReviewStore écrit chaque avis dans deux tables : reviews (lookup par id,
// porte la référence inverse product_id) et reviews_by_product (listing par
// produit).
type ReviewStore struct {
	conns *database.Connections
}

func NewReviewStore(conns *database.Connections) *ReviewStore {
	return &ReviewStore{conns: conns}
}

var _ store.Reviews = (*ReviewStore)(nil)

const reviewColumns = "review_id, product_id, user_id, user_name, rating, comment, created_at"

func (s *ReviewStore) GetReview(ctx context.Context, id gocql.UUID) (*models.Review, error) {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return nil, err
	}

	var r models.Review
	err = session.Query(
		"SELECT "+reviewColumns+" FROM reviews WHERE review_id = ?", id,
	).WithContext(ctx).Scan(
		&r.ID, &r.ProductID, &r.UserID, &r.UserName, &r.Rating, &r.Comment, &r.CreatedAt,
	)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *ReviewStore) GetByUserAndProduct(ctx context.Context, userID string, productID gocql.UUID) (*models.Review, error) {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		"SELECT "+reviewColumns+" FROM reviews_by_product WHERE product_id = ?", productID,
	).WithContext(ctx).Iter()

	var r models.Review
	for iter.Scan(&r.ID, &r.ProductID, &r.UserID, &r.UserName, &r.Rating, &r.Comment, &r.CreatedAt) {
		if r.UserID == userID {
			found := r
			iter.Close()
			return &found, nil
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return nil, store.ErrNotFound
}

func (s *ReviewStore) GetReviews(ctx context.Context, ids []gocql.UUID) ([]models.Review, error) {
	if len(ids) == 0 {
		return []models.Review{}, nil
	}

	session, err := s.conns.ProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		"SELECT "+reviewColumns+" FROM reviews WHERE review_id IN ?", ids,
	).WithContext(ctx).Iter()

	var out []models.Review
	var r models.Review
	for iter.Scan(&r.ID, &r.ProductID, &r.UserID, &r.UserName, &r.Rating, &r.Comment, &r.CreatedAt) {
		out = append(out, r)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReviewStore) ListByProduct(ctx context.Context, productID gocql.UUID) ([]models.Review, error) {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		"SELECT "+reviewColumns+" FROM reviews_by_product WHERE product_id = ?", productID,
	).WithContext(ctx).Iter()

	var out []models.Review
	var r models.Review
	for iter.Scan(&r.ID, &r.ProductID, &r.UserID, &r.UserName, &r.Rating, &r.Comment, &r.CreatedAt) {
		out = append(out, r)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReviewStore) InsertReview(ctx context.Context, r *models.Review) error {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(
		"INSERT INTO reviews ("+reviewColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.ProductID, r.UserID, r.UserName, r.Rating, r.Comment, r.CreatedAt,
	)
	batch.Query(
		"INSERT INTO reviews_by_product ("+reviewColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.ProductID, r.UserID, r.UserName, r.Rating, r.Comment, r.CreatedAt,
	)
	return session.ExecuteBatch(batch)
}

func (s *ReviewStore) UpdateReview(ctx context.Context, r *models.Review) error {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(
		"UPDATE reviews SET rating = ?, comment = ? WHERE review_id = ?",
		r.Rating, r.Comment, r.ID,
	)
	batch.Query(
		"UPDATE reviews_by_product SET rating = ?, comment = ? WHERE product_id = ? AND review_id = ?",
		r.Rating, r.Comment, r.ProductID, r.ID,
	)
	return session.ExecuteBatch(batch)
}

func (s *ReviewStore) DeleteReview(ctx context.Context, id gocql.UUID) error {
	// La ligne principale porte le product_id nécessaire pour purger l'index
	r, err := s.GetReview(ctx, id)
	if err != nil {
		return err
	}

	session, err := s.conns.ProductsSession()
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query("DELETE FROM reviews WHERE review_id = ?", id)
	batch.Query("DELETE FROM reviews_by_product WHERE product_id = ? AND review_id = ?", r.ProductID, id)
	return session.ExecuteBatch(batch)
}
