package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store/memory"
)

func newReviewFixture(t *testing.T) (*ReviewService, *memory.Store, gocql.UUID) {
	t.Helper()
	mem := memory.New()
	p := &models.Product{ID: gocql.TimeUUID(), Name: "Robe d'été", Price: 55, Stock: 10}
	require.NoError(t, mem.InsertProduct(context.Background(), p))
	return NewReviewService(mem, mem), mem, p.ID
}

func productAggregates(t *testing.T, mem *memory.Store, id gocql.UUID) (int, float64) {
	t.Helper()
	p, err := mem.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.NumberOfReviews, p.AverageRating
}

func TestAddReviewRecomputesAggregates(t *testing.T) {
	svc, mem, productID := newReviewFixture(t)
	ctx := context.Background()

	_, err := svc.AddReview(ctx, productID, "user-1", "Alice", 4, "Très bien")
	require.NoError(t, err)

	count, avg := productAggregates(t, mem, productID)
	assert.Equal(t, 1, count)
	assert.InDelta(t, 4.0, avg, 1e-9)

	_, err = svc.AddReview(ctx, productID, "user-2", "Bob", 5, "Parfait")
	require.NoError(t, err)

	count, avg = productAggregates(t, mem, productID)
	assert.Equal(t, 2, count)
	assert.InDelta(t, 4.5, avg, 1e-9)
}

func TestAverageRoundedToOneDecimal(t *testing.T) {
	svc, mem, productID := newReviewFixture(t)
	ctx := context.Background()

	// 4+4+5 = 13/3 = 4.333... → 4.3
	for i, rating := range []int{4, 4, 5} {
		_, err := svc.AddReview(ctx, productID, fmt.Sprintf("user-%d", i), "Client", rating, "")
		require.NoError(t, err)
	}

	_, avg := productAggregates(t, mem, productID)
	assert.InDelta(t, 4.3, avg, 1e-9)
}

func TestDeleteReviewRecomputesAggregates(t *testing.T) {
	svc, mem, productID := newReviewFixture(t)
	ctx := context.Background()

	first, err := svc.AddReview(ctx, productID, "user-1", "Alice", 4, "")
	require.NoError(t, err)
	second, err := svc.AddReview(ctx, productID, "user-2", "Bob", 5, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReview(ctx, first.ID, "user-1"))

	count, avg := productAggregates(t, mem, productID)
	assert.Equal(t, 1, count)
	assert.InDelta(t, 5.0, avg, 1e-9)

	// Plus aucun avis : les agrégats retombent à zéro
	require.NoError(t, svc.DeleteReview(ctx, second.ID, "user-2"))

	count, avg = productAggregates(t, mem, productID)
	assert.Equal(t, 0, count)
	assert.InDelta(t, 0.0, avg, 1e-9)
}

func TestOneReviewPerUserAndProduct(t *testing.T) {
	svc, _, productID := newReviewFixture(t)
	ctx := context.Background()

	_, err := svc.AddReview(ctx, productID, "user-1", "Alice", 4, "")
	require.NoError(t, err)

	_, err = svc.AddReview(ctx, productID, "user-1", "Alice", 5, "")
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestAddReviewInvalidRating(t *testing.T) {
	svc, _, productID := newReviewFixture(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.AddReview(context.Background(), productID, "user-1", "Alice", rating, "")
		assert.Error(t, err)
	}
}

func TestAddReviewUnknownProduct(t *testing.T) {
	svc, _, _ := newReviewFixture(t)

	_, err := svc.AddReview(context.Background(), gocql.TimeUUID(), "user-1", "Alice", 4, "")

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestUpdateReviewPartialFields(t *testing.T) {
	svc, mem, productID := newReviewFixture(t)
	ctx := context.Background()

	review, err := svc.AddReview(ctx, productID, "user-1", "Alice", 3, "Correct")
	require.NoError(t, err)

	newRating := 5
	updated, err := svc.UpdateReview(ctx, review.ID, "user-1", &newRating, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "Correct", updated.Comment)

	_, avg := productAggregates(t, mem, productID)
	assert.InDelta(t, 5.0, avg, 1e-9)
}

func TestUpdateReviewOwnershipCollapsedWithAbsence(t *testing.T) {
	svc, _, productID := newReviewFixture(t)
	ctx := context.Background()

	review, err := svc.AddReview(ctx, productID, "user-1", "Alice", 4, "")
	require.NoError(t, err)

	rating := 1
	// Mauvais propriétaire et avis inexistant renvoient la même erreur
	_, err = svc.UpdateReview(ctx, review.ID, "user-2", &rating, nil)
	assert.ErrorIs(t, err, ErrReviewNotFound)
	_, err = svc.UpdateReview(ctx, gocql.TimeUUID(), "user-1", &rating, nil)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	err = svc.DeleteReview(ctx, review.ID, "user-2")
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestRecomputePrunesDanglingReviewReferences(t *testing.T) {
	svc, mem, productID := newReviewFixture(t)
	ctx := context.Background()

	kept, err := svc.AddReview(ctx, productID, "user-1", "Alice", 3, "")
	require.NoError(t, err)
	dangling, err := svc.AddReview(ctx, productID, "user-2", "Bob", 5, "")
	require.NoError(t, err)

	// Ligne d'avis disparue alors que le produit la référence encore
	// (suppression interrompue avant le recalcul)
	require.NoError(t, mem.DeleteReview(ctx, dangling.ID))

	newRating := 4
	_, err = svc.UpdateReview(ctx, kept.ID, "user-1", &newRating, nil)
	require.NoError(t, err)

	p, err := mem.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, []gocql.UUID{kept.ID}, p.Reviews)
	assert.Equal(t, 1, p.NumberOfReviews)
	assert.InDelta(t, 4.0, p.AverageRating, 1e-9)
}

// contestedCatalog perd systématiquement le CAS d'agrégat, comme si un
// écrivain concurrent touchait le produit entre chaque relecture
type contestedCatalog struct {
	*memory.Store
	attempts int
}

func (c *contestedCatalog) ApplyReviewAggregate(_ context.Context, _ gocql.UUID, _, _ []gocql.UUID, _ int, _ float64) (bool, error) {
	c.attempts++
	return false, nil
}

func TestRecomputeSurfacesConflictWhenRetriesExhausted(t *testing.T) {
	mem := memory.New()
	ctx := context.Background()
	p := &models.Product{ID: gocql.TimeUUID(), Name: "Cardigan", Stock: 3}
	require.NoError(t, mem.InsertProduct(ctx, p))

	contested := &contestedCatalog{Store: mem}
	svc := NewReviewService(contested, mem)

	_, err := svc.AddReview(ctx, p.ID, "user-1", "Alice", 4, "")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, maxAggregateRetries, contested.attempts)
}

func TestListByProductUnknownProduct(t *testing.T) {
	svc, _, _ := newReviewFixture(t)

	_, err := svc.ListByProduct(context.Background(), gocql.TimeUUID())

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
}
