package product

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vastra_back_end/internal/store"
)

// UploadProductImage envoie une image dans MinIO et l'attache au
// produit (admin). La première image devient l'image principale.
func (h *Handler) UploadProductImage(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier image requis"})
		return
	}

	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur lecture produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	url, err := h.media.UploadProductImage(c.Request.Context(), id.String(), file)
	if err != nil {
		log.Printf("❌ Erreur upload MinIO: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	if p.Image == "" {
		p.Image = url
	}
	p.Images = append(p.Images, url)
	p.UpdatedAt = time.Now().UTC()

	if err := h.catalog.UpdateProduct(c.Request.Context(), p); err != nil {
		log.Printf("❌ Erreur mise à jour produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	h.cache.InvalidateProduct(c.Request.Context(), id)
	h.search.IndexProduct(*p)
	log.Printf("📤 Image uploadée pour %s: %s", id, url)

	c.JSON(http.StatusOK, gin.H{"url": url, "product": p})
}
