package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
)

func TestDecrementStockAtomic(t *testing.T) {
	mem := New()
	ctx := context.Background()
	p := &models.Product{ID: gocql.TimeUUID(), Name: "Jean", Stock: 50}
	require.NoError(t, mem.InsertProduct(ctx, p))

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- mem.DecrementStock(ctx, p.ID, 1)
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			var insufficient *store.InsufficientStockError
			require.ErrorAs(t, err, &insufficient)
		}
	}
	assert.Equal(t, 50, succeeded)

	got, err := mem.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestDecrementStockInsufficient(t *testing.T) {
	mem := New()
	ctx := context.Background()
	p := &models.Product{ID: gocql.TimeUUID(), Stock: 2}
	require.NoError(t, mem.InsertProduct(ctx, p))

	err := mem.DecrementStock(ctx, p.ID, 3)

	var insufficient *store.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 2, insufficient.Available)
}

func TestDecrementStockUnknownProduct(t *testing.T) {
	mem := New()

	err := mem.DecrementStock(context.Background(), gocql.TimeUUID(), 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestApplyReviewAggregateCAS(t *testing.T) {
	mem := New()
	ctx := context.Background()
	p := &models.Product{ID: gocql.TimeUUID()}
	require.NoError(t, mem.InsertProduct(ctx, p))

	first := gocql.TimeUUID()
	applied, err := mem.ApplyReviewAggregate(ctx, p.ID, nil, []gocql.UUID{first}, 1, 4.0)
	require.NoError(t, err)
	assert.True(t, applied)

	// Condition périmée : la liste persistée n'est plus vide
	applied, err = mem.ApplyReviewAggregate(ctx, p.ID, nil, []gocql.UUID{gocql.TimeUUID()}, 1, 5.0)
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := mem.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []gocql.UUID{first}, got.Reviews)
	assert.Equal(t, 1, got.NumberOfReviews)
	assert.InDelta(t, 4.0, got.AverageRating, 1e-9)
}

func TestUpdateProductPreservesStockAndAggregates(t *testing.T) {
	mem := New()
	ctx := context.Background()
	p := &models.Product{ID: gocql.TimeUUID(), Name: "Gilet", Stock: 5}
	require.NoError(t, mem.InsertProduct(ctx, p))

	// Copie admin prise avant des mutations concurrentes
	adminCopy, err := mem.GetProduct(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, mem.DecrementStock(ctx, p.ID, 3))
	reviewID := gocql.TimeUUID()
	applied, err := mem.ApplyReviewAggregate(ctx, p.ID, nil, []gocql.UUID{reviewID}, 1, 4.0)
	require.NoError(t, err)
	require.True(t, applied)

	// L'écriture catalogue ne doit ni ressusciter le stock décrémenté
	// ni écraser les agrégats recalculés entre-temps
	adminCopy.Name = "Gilet matelassé"
	require.NoError(t, mem.UpdateProduct(ctx, adminCopy))

	got, err := mem.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gilet matelassé", got.Name)
	assert.Equal(t, 2, got.Stock)
	assert.Equal(t, []gocql.UUID{reviewID}, got.Reviews)
	assert.Equal(t, 1, got.NumberOfReviews)
	assert.InDelta(t, 4.0, got.AverageRating, 1e-9)
}

func TestSetStockAbsolute(t *testing.T) {
	mem := New()
	ctx := context.Background()
	p := &models.Product{ID: gocql.TimeUUID(), Stock: 2}
	require.NoError(t, mem.InsertProduct(ctx, p))

	require.NoError(t, mem.SetStock(ctx, p.ID, 40))

	got, err := mem.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.Stock)

	err = mem.SetStock(ctx, gocql.TimeUUID(), 10)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListProductsFilterAndPagination(t *testing.T) {
	mem := New()
	ctx := context.Background()

	categoryID := gocql.TimeUUID()
	for i := 0; i < 5; i++ {
		require.NoError(t, mem.InsertProduct(ctx, &models.Product{
			ID:         gocql.TimeUUID(),
			Name:       "Chemise",
			Price:      float64(10 * (i + 1)),
			CategoryID: categoryID,
		}))
	}
	require.NoError(t, mem.InsertProduct(ctx, &models.Product{
		ID: gocql.TimeUUID(), Name: "Pantalon", Price: 99, CategoryID: gocql.TimeUUID(),
	}))

	minPrice := 20.0
	maxPrice := 40.0
	got, total, err := mem.ListProducts(ctx, store.ProductFilter{
		CategoryID: &categoryID,
		MinPrice:   &minPrice,
		MaxPrice:   &maxPrice,
		Page:       1,
		Limit:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, got, 2)

	got, total, err = mem.ListProducts(ctx, store.ProductFilter{Name: "panta", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Pantalon", got[0].Name)
}

func TestUserLookupByEmailAfterUpdate(t *testing.T) {
	mem := New()
	ctx := context.Background()

	u := &models.User{ID: "user-1", Name: "Alice", Email: "alice@example.com", Phone: "+32470000000"}
	require.NoError(t, mem.InsertUser(ctx, u))

	byEmail, err := mem.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byEmail.ID)

	u.Email = "alice@nouveau.be"
	require.NoError(t, mem.UpdateUser(ctx, u))

	_, err = mem.GetByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	byEmail, err = mem.GetByEmail(ctx, "alice@nouveau.be")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byEmail.ID)
}
