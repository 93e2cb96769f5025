package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vastra_back_end/internal/models"
	"vastra_back_end/internal/services"
	"vastra_back_end/internal/store/memory"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := memory.New()
	h := NewHandler(services.NewOrderService(mem, mem, nil))

	r := gin.New()
	// Simule un client authentifié
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Set("email", "client@example.com")
	})
	r.POST("/api/orders", h.PlaceOrder)
	r.GET("/api/orders/:id", h.GetOrderByID)
	r.PUT("/api/orders/:id/status", h.UpdateOrderStatus)
	return r, mem
}

func seedProduct(t *testing.T, mem *memory.Store, stock int) gocql.UUID {
	t.Helper()
	p := &models.Product{ID: gocql.TimeUUID(), Name: "T-shirt", Price: 20, Stock: stock}
	require.NoError(t, mem.InsertProduct(context.Background(), p))
	return p.ID
}

func TestPlaceOrderEndpoint(t *testing.T) {
	r, mem := newTestRouter(t)
	productID := seedProduct(t, mem, 5)

	body := `{
		"items": [{"product": "` + productID.String() + `", "quantity": 2}],
		"shipping_address": "12 rue du Canal",
		"city": "Lille",
		"country": "FR",
		"phone": "+33600000000"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, models.StatusPending, order.Status)
	assert.InDelta(t, 40.0, order.TotalPrice, 1e-9)

	p, err := mem.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
}

func TestPlaceOrderEndpointInsufficientStock(t *testing.T) {
	r, mem := newTestRouter(t)
	productID := seedProduct(t, mem, 1)

	body := `{
		"items": [{"product": "` + productID.String() + `", "quantity": 3}],
		"shipping_address": "a", "city": "b", "country": "FR", "phone": "0"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Stock insuffisant", resp["error"])
	assert.EqualValues(t, 1, resp["available"])
}

func TestPlaceOrderEndpointMissingFields(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"items": []}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	r, mem := newTestRouter(t)
	productID := seedProduct(t, mem, 5)

	body := `{
		"items": [{"product": "` + productID.String() + `", "quantity": 1}],
		"shipping_address": "a", "city": "b", "country": "FR", "phone": "0"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/orders/"+order.ID.String()+"/status",
		strings.NewReader(`{"status": "shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusShipped, updated.Status)
	assert.Equal(t, []string{models.StatusPending, models.StatusShipped}, updated.StatusHistory)
}

func TestUpdateOrderStatusEndpointInvalidStatus(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+gocql.TimeUUID().String()+"/status",
		strings.NewReader(`{"status": "envoyée"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrderEndpointUnknownOrder(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+gocql.TimeUUID().String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
