package product

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SearchProducts interroge l'index Elasticsearch (multi_match sur
// nom, description et couleurs)
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre q requis"})
		return
	}

	results, err := h.search.SearchProducts(query)
	if err != nil {
		log.Printf("❌ Erreur recherche Elasticsearch: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "total": len(results)})
}
