package product

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
)

// GetCategories liste toutes les catégories
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		log.Printf("❌ Erreur listing catégories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur listing catégories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory crée une catégorie (admin)
func (h *Handler) CreateCategory(c *gin.Context) {
	var req struct {
		Name   string `json:"name" binding:"required"`
		Colour string `json:"colour"`
		Image  string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	category := &models.Category{
		ID:     gocql.TimeUUID(),
		Name:   req.Name,
		Colour: req.Colour,
		Image:  req.Image,
	}
	if err := h.categories.InsertCategory(c.Request.Context(), category); err != nil {
		log.Printf("❌ Erreur création catégorie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création catégorie"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory modifie une catégorie (admin)
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	var req struct {
		Name   *string `json:"name"`
		Colour *string `json:"colour"`
		Image  *string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	category, err := h.categories.GetCategory(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur lecture catégorie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégorie"})
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Colour != nil {
		category.Colour = *req.Colour
	}
	if req.Image != nil {
		category.Image = *req.Image
	}

	if err := h.categories.UpdateCategory(c.Request.Context(), category); err != nil {
		log.Printf("❌ Erreur mise à jour catégorie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour catégorie"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory supprime une catégorie (admin)
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	if err := h.categories.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
			return
		}
		log.Printf("❌ Erreur suppression catégorie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression catégorie"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Catégorie supprimée"})
}
