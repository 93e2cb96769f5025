package services

import (
	"context"
	"sync"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
	"vastra_back_end/internal/store/memory"
)

func newOrderFixture(t *testing.T) (*OrderService, *memory.Store) {
	t.Helper()
	mem := memory.New()
	return NewOrderService(mem, mem, nil), mem
}

func seedProduct(t *testing.T, mem *memory.Store, name string, price float64, stock int) gocql.UUID {
	t.Helper()
	p := &models.Product{
		ID:    gocql.TimeUUID(),
		Name:  name,
		Price: price,
		Stock: stock,
	}
	require.NoError(t, mem.InsertProduct(context.Background(), p))
	return p.ID
}

func TestPlaceOrderDecrementsStock(t *testing.T) {
	svc, mem := newOrderFixture(t)
	ctx := context.Background()
	productID := seedProduct(t, mem, "Veste en lin", 89.90, 5)

	order, err := svc.PlaceOrder(ctx, "user-1", []LineItemInput{
		{ProductID: productID, Quantity: 3, SelectedSize: "M"},
	}, ShippingInput{Address: "12 rue du Canal", City: "Lille", Country: "FR", Phone: "+33600000000"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, []string{models.StatusPending}, order.StatusHistory)
	assert.InDelta(t, 3*89.90, order.TotalPrice, 1e-9)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Veste en lin", order.Items[0].ProductName)

	p, err := mem.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	svc, mem := newOrderFixture(t)
	ctx := context.Background()
	productID := seedProduct(t, mem, "Chemise", 45, 2)

	_, err := svc.PlaceOrder(ctx, "user-1", []LineItemInput{
		{ProductID: productID, Quantity: 3},
	}, ShippingInput{Address: "a", City: "b", Country: "FR", Phone: "0"})

	var insufficient *store.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, productID.String(), insufficient.ProductID)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 2, insufficient.Available)

	// Le stock ne doit pas avoir été entamé
	p, err := mem.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	svc, _ := newOrderFixture(t)

	_, err := svc.PlaceOrder(context.Background(), "user-1", []LineItemInput{
		{ProductID: gocql.TimeUUID(), Quantity: 1},
	}, ShippingInput{Address: "a", City: "b", Country: "FR", Phone: "0"})

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestPlaceOrderRefusedLeavesAllStockIntact(t *testing.T) {
	svc, mem := newOrderFixture(t)
	ctx := context.Background()
	first := seedProduct(t, mem, "Pull", 60, 10)
	second := seedProduct(t, mem, "Bonnet", 15, 1)

	_, err := svc.PlaceOrder(ctx, "user-1", []LineItemInput{
		{ProductID: first, Quantity: 2},
		{ProductID: second, Quantity: 5},
	}, ShippingInput{Address: "a", City: "b", Country: "FR", Phone: "0"})

	var insufficient *store.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, second.String(), insufficient.ProductID)

	// Aucune ligne de la commande refusée ne doit avoir touché le stock
	p1, err := mem.GetProduct(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 10, p1.Stock)
	p2, err := mem.GetProduct(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, p2.Stock)
}

func TestOrderSnapshotSurvivesCatalogEdits(t *testing.T) {
	svc, mem := newOrderFixture(t)
	ctx := context.Background()
	productID := seedProduct(t, mem, "Manteau", 120, 5)

	order, err := svc.PlaceOrder(ctx, "user-1", []LineItemInput{
		{ProductID: productID, Quantity: 1},
	}, ShippingInput{Address: "a", City: "b", Country: "FR", Phone: "0"})
	require.NoError(t, err)

	// Édition du catalogue après la commande
	p, err := mem.GetProduct(ctx, productID)
	require.NoError(t, err)
	p.Name = "Manteau (soldes)"
	p.Price = 80
	require.NoError(t, mem.UpdateProduct(ctx, p))

	got, err := svc.GetOrder(ctx, order.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Manteau", got.Items[0].ProductName)
	assert.InDelta(t, 120.0, got.Items[0].ProductPrice, 1e-9)
	assert.InDelta(t, 120.0, got.TotalPrice, 1e-9)
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	svc, mem := newOrderFixture(t)
	ctx := context.Background()
	productID := seedProduct(t, mem, "Édition limitée", 200, 5)

	const clients = 20
	var wg sync.WaitGroup
	results := make(chan error, clients)

	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(ctx, "user-1", []LineItemInput{
				{ProductID: productID, Quantity: 1},
			}, ShippingInput{Address: "a", City: "b", Country: "FR", Phone: "0"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			var insufficient *store.InsufficientStockError
			require.ErrorAs(t, err, &insufficient)
		}
	}
	assert.Equal(t, 5, succeeded)

	p, err := mem.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestSetStatusAppendsEveryAssignment(t *testing.T) {
	svc, mem := newOrderFixture(t)
	ctx := context.Background()
	productID := seedProduct(t, mem, "Jupe", 40, 5)

	order, err := svc.PlaceOrder(ctx, "user-1", []LineItemInput{
		{ProductID: productID, Quantity: 1},
	}, ShippingInput{Address: "a", City: "b", Country: "FR", Phone: "0"})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, order.ID, models.StatusProcessed)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, order.ID, models.StatusShipped)
	require.NoError(t, err)
	// Réassignation du statut courant : enregistrée aussi
	updated, err := svc.SetStatus(ctx, order.ID, models.StatusShipped)
	require.NoError(t, err)

	assert.Equal(t, models.StatusShipped, updated.Status)
	assert.Equal(t, []string{
		models.StatusPending,
		models.StatusProcessed,
		models.StatusShipped,
		models.StatusShipped,
	}, updated.StatusHistory)
}

func TestSetStatusUnknownOrder(t *testing.T) {
	svc, _ := newOrderFixture(t)

	_, err := svc.SetStatus(context.Background(), gocql.TimeUUID(), models.StatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrderScopedToOwner(t *testing.T) {
	svc, mem := newOrderFixture(t)
	ctx := context.Background()
	productID := seedProduct(t, mem, "Écharpe", 25, 5)

	order, err := svc.PlaceOrder(ctx, "user-1", []LineItemInput{
		{ProductID: productID, Quantity: 1},
	}, ShippingInput{Address: "a", City: "b", Country: "FR", Phone: "0"})
	require.NoError(t, err)

	// La commande d'un autre client est indiscernable d'une commande absente
	_, err = svc.GetOrder(ctx, order.ID, "user-2")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	got, err := svc.GetOrder(ctx, order.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc, _ := newOrderFixture(t)

	_, err := svc.PlaceOrder(context.Background(), "user-1", nil,
		ShippingInput{Address: "a", City: "b", Country: "FR", Phone: "0"})
	assert.Error(t, err)
}
