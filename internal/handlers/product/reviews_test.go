package product

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vastra_back_end/internal/cache"
	"vastra_back_end/internal/models"
	"vastra_back_end/internal/services"
	"vastra_back_end/internal/store/memory"
)

// contestedCatalog perd systématiquement le CAS d'agrégat, comme si un
// écrivain concurrent touchait le produit entre chaque relecture
type contestedCatalog struct {
	*memory.Store
}

func (c *contestedCatalog) ApplyReviewAggregate(_ context.Context, _ gocql.UUID, _, _ []gocql.UUID, _ int, _ float64) (bool, error) {
	return false, nil
}

func TestUpdateReviewEndpointConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	mem := memory.New()

	p := &models.Product{ID: gocql.TimeUUID(), Name: "Blouson", Stock: 3}
	require.NoError(t, mem.InsertProduct(ctx, p))

	// Avis existant, posé pendant que les agrégats s'appliquaient encore
	review, err := services.NewReviewService(mem, mem).AddReview(ctx, p.ID, "user-1", "Alice", 3, "Correct")
	require.NoError(t, err)

	contested := &contestedCatalog{Store: mem}
	h := NewHandler(contested, mem, services.NewReviewService(contested, mem), nil, nil, cache.New(nil, contested, mem))

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "user-1") })
	r.PUT("/api/reviews/:reviewId", h.UpdateReview)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/reviews/"+review.ID.String(),
		strings.NewReader(`{"rating": 5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
